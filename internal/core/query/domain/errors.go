package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for callers and tests. The underlying cause is always kept.
type ErrorKind string

const (
	// ConnectionFailure covers opening, pinging or acquiring a connection.
	ConnectionFailure ErrorKind = "connection"
	// TranslationFailure covers queries the compiler refuses to turn into SQL.
	TranslationFailure ErrorKind = "translation"
	// ExecutionFailure covers errors reported by the database while running SQL.
	ExecutionFailure ErrorKind = "execution"
)

var (
	// ErrConnection matches every ConnectionFailure.
	ErrConnection = errors.New("connection failure")

	// ErrTranslation matches every TranslationFailure.
	ErrTranslation = errors.New("translation failure")

	// ErrExecution matches every ExecutionFailure.
	ErrExecution = errors.New("execution failure")
)

var sentinels = map[ErrorKind]error{
	ConnectionFailure:  ErrConnection,
	TranslationFailure: ErrTranslation,
	ExecutionFailure:   ErrExecution,
}

// QueryError represents a failed query operation with context.
type QueryError struct {
	Kind      ErrorKind
	Operation string
	Model     string
	Cause     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s failure: %s on %s: %v", e.Kind, e.Operation, e.Model, e.Cause)
	}
	return fmt.Sprintf("%s failure: %s: %v", e.Kind, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind, then the cause.
func (e *QueryError) Is(target error) bool {
	if s, ok := sentinels[e.Kind]; ok && target == s {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewQueryError creates a new QueryError. A cause that already is a QueryError is returned
// unchanged so the original kind survives re-wrapping.
func NewQueryError(kind ErrorKind, op, model string, cause error) error {
	var qe *QueryError
	if errors.As(cause, &qe) {
		return cause
	}
	return &QueryError{
		Kind:      kind,
		Operation: op,
		Model:     model,
		Cause:     cause,
	}
}

// KindOf returns the kind of a QueryError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// IsTranslationFailure checks if an error is a translation failure.
func IsTranslationFailure(err error) bool {
	return errors.Is(err, ErrTranslation)
}

// IsConnectionFailure checks if an error is a connection failure.
func IsConnectionFailure(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsExecutionFailure checks if an error is an execution failure.
func IsExecutionFailure(err error) bool {
	return errors.Is(err, ErrExecution)
}
