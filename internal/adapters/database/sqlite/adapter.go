// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	*database.Pool
}

// NewSQLiteAdapter creates a new SQLite adapter. The URL is a file path, optionally prefixed
// with "file:".
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	if strings.TrimPrefix(config.URL, "file:") == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}
	// A single connection keeps writes serialized and lets ":memory:" databases work.
	return &SQLiteAdapter{
		Pool: database.NewPool("sqlite3", DSN(config.URL), domain.SQLite, config, 1),
	}, nil
}

// DSN enables foreign key enforcement, which SQLite leaves off by default.
func DSN(url string) string {
	if strings.Contains(url, "_foreign_keys=") || strings.Contains(url, "_fk=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on"
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
