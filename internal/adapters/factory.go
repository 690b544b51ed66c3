// Package adapters selects a database adapter by provider name.
package adapters

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/adapters/database/mysql"
	"github.com/satishbabariya/querycatalog/internal/adapters/database/postgres"
	"github.com/satishbabariya/querycatalog/internal/adapters/database/sqlite"
)

// Providers lists the accepted provider names.
var Providers = []string{"sqlite", "postgresql", "mysql"}

// NewAdapter creates an unconnected adapter for config.Provider.
func NewAdapter(config database.Config) (database.Adapter, error) {
	var (
		adapter database.Adapter
		err     error
	)
	switch strings.ToLower(config.Provider) {
	case "sqlite", "sqlite3":
		adapter, err = sqlite.NewSQLiteAdapter(config)
	case "postgresql", "postgres":
		adapter, err = postgres.NewPostgresAdapter(config)
	case "mysql":
		adapter, err = mysql.NewMySQLAdapter(config)
	default:
		return nil, fmt.Errorf("unsupported provider %q (expected one of %s)", config.Provider, strings.Join(Providers, ", "))
	}
	if err != nil {
		return nil, err
	}
	return adapter, nil
}
