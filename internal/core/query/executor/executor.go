// Package executor implements query execution.
package executor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/query/mapper"
	"github.com/satishbabariya/querycatalog/internal/debug"
)

// Querier runs a read query. *sql.DB, *sql.Conn and *sql.Tx implement it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryExecutor implements the domain.QueryExecutor interface.
type QueryExecutor struct {
	db         Querier
	identities *IdentityMap
	mapper     *mapper.ResultMapper
}

// NewQueryExecutor creates a new query executor. A nil identity map disables tracking.
func NewQueryExecutor(db Querier, identities *IdentityMap) *QueryExecutor {
	return &QueryExecutor{
		db:         db,
		identities: identities,
		mapper:     mapper.NewResultMapper(),
	}
}

// Execute executes a compiled query and shapes its rows.
func (e *QueryExecutor) Execute(ctx context.Context, query *domain.CompiledQuery) ([]map[string]interface{}, error) {
	if e.db == nil {
		return nil, domain.NewQueryError(domain.ConnectionFailure, "query", query.Mapping.Model, fmt.Errorf("database connection not initialized"))
	}

	flat, err := e.scan(ctx, query)
	if err != nil {
		return nil, err
	}

	s := &shaper{mapping: query.Mapping, identities: e.identities}
	results := s.shape(flat)
	debug.Debug("Executed query", "model", query.Mapping.Model, "rows", len(flat), "results", len(results))
	return results, nil
}

// ExecuteInto executes a query and maps results to a struct slice.
func (e *QueryExecutor) ExecuteInto(ctx context.Context, query *domain.CompiledQuery, dest interface{}) error {
	results, err := e.Execute(ctx, query)
	if err != nil {
		return err
	}
	return e.mapper.MapToStructSlice(results, dest)
}

func (e *QueryExecutor) scan(ctx context.Context, query *domain.CompiledQuery) ([]map[string]interface{}, error) {
	model := query.Mapping.Model

	rows, err := e.db.QueryContext(ctx, query.SQL.Query, query.SQL.Args...)
	if err != nil {
		return nil, classify(model, fmt.Errorf("failed to execute query: %w", err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classify(model, fmt.Errorf("failed to get columns: %w", err))
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, classify(model, fmt.Errorf("failed to scan row: %w", err))
		}

		result := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			// Text and decimal columns arrive as []byte from some drivers.
			if b, ok := values[i].([]byte); ok {
				result[col] = string(b)
			} else {
				result[col] = values[i]
			}
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(model, fmt.Errorf("error iterating rows: %w", err))
	}
	return results, nil
}

// classify wraps err as a connection failure when the connection itself is gone, and as an
// execution failure otherwise.
func classify(model string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return domain.NewQueryError(domain.ConnectionFailure, "query", model, err)
	}
	return domain.NewQueryError(domain.ExecutionFailure, "query", model, err)
}

// Ensure QueryExecutor implements QueryExecutor interface.
var _ domain.QueryExecutor = (*QueryExecutor)(nil)
