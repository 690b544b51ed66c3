// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	*database.Pool
}

// NewPostgresAdapter creates a new PostgreSQL adapter. Both URL and key=value connection
// strings are accepted.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	dsn, err := DSN(config.URL)
	if err != nil {
		return nil, err
	}
	return &PostgresAdapter{
		Pool: database.NewPool("postgres", dsn, domain.PostgreSQL, config, 0),
	}, nil
}

// DSN converts a postgres:// URL to the driver's key=value form and passes other connection
// strings through.
func DSN(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("postgres: connection string is empty")
	}
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return url, nil
	}
	dsn, err := pq.ParseURL(url)
	if err != nil {
		return "", fmt.Errorf("postgres: invalid connection url: %w", err)
	}
	return dsn, nil
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
