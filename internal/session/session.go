// Package session provides scoped database sessions. A session owns one pooled connection,
// a compiled-query front and an identity map for the lifetime of a single unit of work.
package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/core/query/cache"
	"github.com/satishbabariya/querycatalog/internal/core/query/compiler"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/query/executor"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/debug"
)

// ErrClosed is returned by calls on a closed session.
var ErrClosed = errors.New("session is closed")

// DefaultCacheSize is the compiled-query cache capacity used when none is configured.
const DefaultCacheSize = 256

// Factory opens sessions against one adapter. It is safe for concurrent use; the sessions it
// opens are not.
type Factory struct {
	adapter  database.Adapter
	registry *schema.Registry
	compiler *compiler.Cached
}

// NewFactory creates a session factory. Compiled queries are shared between the sessions of
// a factory through an LRU cache of cacheSize entries.
func NewFactory(adapter database.Adapter, registry *schema.Registry, cacheSize int) *Factory {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Factory{
		adapter:  adapter,
		registry: registry,
		compiler: compiler.NewCached(
			compiler.NewSQLCompiler(adapter.GetDialect(), registry),
			cache.NewLRUCache(cacheSize, time.Hour),
		),
	}
}

// Dialect returns the dialect sessions compile for.
func (f *Factory) Dialect() domain.SQLDialect {
	return f.adapter.GetDialect()
}

// Adapter returns the database the factory opens sessions on.
func (f *Factory) Adapter() database.Adapter {
	return f.adapter
}

// Registry returns the schema sessions resolve tables against.
func (f *Factory) Registry() *schema.Registry {
	return f.registry
}

// CacheStats returns the statistics of the shared compiled-query cache.
func (f *Factory) CacheStats() cache.Stats {
	return f.compiler.Stats()
}

// Open reserves a connection and starts a tracking session.
func (f *Factory) Open(ctx context.Context) (*Session, error) {
	conn, err := f.adapter.Conn(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		conn:       conn,
		compiler:   f.compiler,
		identities: executor.NewIdentityMap(),
		opened:     time.Now(),
	}
	s.executor = executor.NewQueryExecutor(conn, s.identities)
	debug.Debug("Session opened", "dialect", f.Dialect())
	return s, nil
}

// Run opens a session, passes it to fn and closes it on every exit path.
func Run(ctx context.Context, f *Factory, fn func(*Session) error) (err error) {
	s, err := f.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Session is a single unit of work. It is not safe for concurrent use.
type Session struct {
	conn       *sql.Conn
	compiler   domain.QueryCompiler
	identities *executor.IdentityMap
	executor   *executor.QueryExecutor
	opened     time.Time

	roundTrips int
	statements []string
	closed     bool
}

// NoTracking turns off identity resolution for the rest of the session: every row
// materializes to a fresh entity.
func (s *Session) NoTracking() *Session {
	s.identities = nil
	s.executor = executor.NewQueryExecutor(s.conn, nil)
	return s
}

// Tracking reports whether the session resolves entities through its identity map.
func (s *Session) Tracking() bool {
	return s.identities != nil
}

// TrackedEntities returns the number of entities in the identity map.
func (s *Session) TrackedEntities() int {
	if s.identities == nil {
		return 0
	}
	return s.identities.Len()
}

// Compile translates a query without executing it.
func (s *Session) Compile(ctx context.Context, query *domain.Query) (*domain.CompiledQuery, error) {
	if s.closed {
		return nil, domain.NewQueryError(domain.ConnectionFailure, "compile", query.Model(), ErrClosed)
	}
	return s.compiler.Compile(ctx, query)
}

// Query compiles and executes a query, returning shaped rows. Translation failures never reach
// the database.
func (s *Session) Query(ctx context.Context, query *domain.Query) ([]map[string]interface{}, error) {
	compiled, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.executor.Execute(ctx, compiled)
}

// QueryInto is Query mapping the rows into dest, a pointer to a struct slice.
func (s *Session) QueryInto(ctx context.Context, query *domain.Query, dest interface{}) error {
	compiled, err := s.prepare(ctx, query)
	if err != nil {
		return err
	}
	return s.executor.ExecuteInto(ctx, compiled, dest)
}

func (s *Session) prepare(ctx context.Context, query *domain.Query) (*domain.CompiledQuery, error) {
	compiled, err := s.Compile(ctx, query)
	if err != nil {
		return nil, err
	}
	s.roundTrips++
	s.statements = append(s.statements, compiled.SQL.Query)
	return compiled, nil
}

// RoundTrips returns the number of statements sent to the database.
func (s *Session) RoundTrips() int {
	return s.roundTrips
}

// Statements returns the SQL of every statement sent, in order.
func (s *Session) Statements() []string {
	return append([]string(nil), s.statements...)
}

// Close releases the session's connection. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	debug.Debug("Session closed", "roundTrips", s.roundTrips, "tracked", s.TrackedEntities(), "duration", time.Since(s.opened))
	return s.conn.Close()
}
