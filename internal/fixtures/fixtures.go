// Package fixtures creates and seeds the sample commerce tables the catalog queries.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/debug"
)

//go:embed schema.sql
var schemaSQL string

//go:embed seed.sql
var seedSQL string

// Statements splits a script into statements and rewrites identifier quoting for dialect.
// Comment lines are dropped.
func Statements(script string, dialect domain.SQLDialect) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if dialect == domain.MySQL {
			stmt = strings.ReplaceAll(stmt, `"`, "`")
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// Load recreates the tables and inserts the sample rows in one transaction.
func Load(ctx context.Context, adapter database.Adapter) error {
	dialect := adapter.GetDialect()
	stmts := append(Statements(schemaSQL, dialect), Statements(seedSQL, dialect)...)

	tx, err := adapter.Begin(ctx)
	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if _, err := tx.Execute(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("fixture statement %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fixtures: %w", err)
	}
	debug.Info("Loaded fixtures", "dialect", dialect, "statements", len(stmts))
	return nil
}

// TableCount is the number of rows in a table.
type TableCount struct {
	Table string
	Rows  int
}

// Counts returns the row count of every table in registry, in registration order.
func Counts(ctx context.Context, adapter database.Adapter, registry *schema.Registry) ([]TableCount, error) {
	quote := `"`
	if adapter.GetDialect() == domain.MySQL {
		quote = "`"
	}

	var counts []TableCount
	for _, table := range registry.Tables() {
		rows, err := adapter.Query(ctx, "SELECT COUNT(*) FROM "+quote+table+quote)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		n := 0
		if rows.Next() {
			err = rows.Scan(&n)
		}
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
