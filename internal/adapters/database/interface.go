// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// Conn reserves a single connection from the pool. The caller must close it.
	Conn(ctx context.Context) (*sql.Conn, error)

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() domain.SQLDialect
}

// Transaction defines the transaction interface.
type Transaction interface {
	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error

	// Execute executes a statement within the transaction.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query within the transaction.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// Default pool settings used for zero Config fields.
const (
	DefaultMaxConnections = 10
	DefaultMaxIdleTime    = 300
	DefaultConnectTimeout = 10
)

// WithDefaults returns c with zero pool settings replaced by the defaults.
func (c Config) WithDefaults() Config {
	if c.MaxConnections <= 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.MaxIdleTime <= 0 {
		c.MaxIdleTime = DefaultMaxIdleTime
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	return c
}
