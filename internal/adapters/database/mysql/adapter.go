// Package mysql implements MySQL database adapter.
package mysql

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	*database.Pool
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	dsn, err := DSN(config.URL)
	if err != nil {
		return nil, err
	}
	return &MySQLAdapter{
		Pool: database.NewPool("mysql", dsn, domain.MySQL, config, 0),
	}, nil
}

// DSN validates a driver DSN ("user:pass@tcp(host:3306)/db") or converts a mysql:// URL into
// one.
func DSN(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("mysql: connection string is empty")
	}

	var cfg *mysql.Config
	if strings.HasPrefix(raw, "mysql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("mysql: invalid connection url: %w", err)
		}
		cfg = mysql.NewConfig()
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		if u.Port() == "" {
			cfg.Addr = u.Hostname() + ":3306"
		}
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
	} else {
		parsed, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("mysql: invalid dsn: %w", err)
		}
		cfg = parsed
	}

	if cfg.DBName == "" {
		return "", fmt.Errorf("mysql: database name is missing")
	}
	return cfg.FormatDSN(), nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
