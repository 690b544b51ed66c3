package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/debug"
)

// ErrNotConnected is returned by adapter calls made before Connect or after Disconnect.
var ErrNotConnected = errors.New("database not connected")

// Pool is the database/sql pool behind every adapter. Driver packages embed it and only decide
// the driver name, the data source name and the pool size.
type Pool struct {
	driver  string
	dsn     string
	dialect domain.SQLDialect
	config  Config
	maxOpen int
	db      *sql.DB
}

// NewPool creates an unconnected pool. maxOpen overrides Config.MaxConnections when positive.
func NewPool(driver, dsn string, dialect domain.SQLDialect, config Config, maxOpen int) *Pool {
	config = config.WithDefaults()
	if maxOpen <= 0 {
		maxOpen = config.MaxConnections
	}
	return &Pool{
		driver:  driver,
		dsn:     dsn,
		dialect: dialect,
		config:  config,
		maxOpen: maxOpen,
	}
}

// Connect opens the pool and pings the database within the configured connect timeout.
func (p *Pool) Connect(ctx context.Context) error {
	db, err := sql.Open(p.driver, p.dsn)
	if err != nil {
		return connectionError("connect", fmt.Errorf("failed to open database: %w", err))
	}

	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(max(p.maxOpen/2, 1))
	db.SetConnMaxIdleTime(time.Duration(p.config.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ConnectTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return connectionError("connect", fmt.Errorf("failed to ping database: %w", err))
	}

	p.db = db
	debug.Debug("Connected to database", "dialect", p.dialect, "maxOpen", p.maxOpen)
	return nil
}

// Disconnect closes the pool.
func (p *Pool) Disconnect(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	debug.Debug("Disconnected from database", "dialect", p.dialect)
	return err
}

// Execute executes a statement without returning rows.
func (p *Pool) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if p.db == nil {
		return nil, connectionError("execute", ErrNotConnected)
	}
	return p.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (p *Pool) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if p.db == nil {
		return nil, connectionError("query", ErrNotConnected)
	}
	return p.db.QueryContext(ctx, query, args...)
}

// Conn reserves a dedicated connection.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	if p.db == nil {
		return nil, connectionError("conn", ErrNotConnected)
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, connectionError("conn", fmt.Errorf("failed to acquire connection: %w", err))
	}
	return conn, nil
}

// Begin starts a new transaction.
func (p *Pool) Begin(ctx context.Context) (Transaction, error) {
	if p.db == nil {
		return nil, connectionError("begin", ErrNotConnected)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTransaction{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (p *Pool) Ping(ctx context.Context) error {
	if p.db == nil {
		return connectionError("ping", ErrNotConnected)
	}
	if err := p.db.PingContext(ctx); err != nil {
		return connectionError("ping", err)
	}
	return nil
}

// GetDialect returns the SQL dialect.
func (p *Pool) GetDialect() domain.SQLDialect {
	return p.dialect
}

func connectionError(op string, err error) error {
	return domain.NewQueryError(domain.ConnectionFailure, op, "", err)
}

// sqlTransaction implements the Transaction interface over *sql.Tx.
type sqlTransaction struct {
	tx *sql.Tx
}

func (t *sqlTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqlTransaction) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTransaction) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

// Ensure Pool implements Adapter interface.
var _ Adapter = (*Pool)(nil)
