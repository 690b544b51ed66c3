// Package compiler implements SQL compilation from queries.
package compiler

import (
	"context"
	"errors"

	"github.com/satishbabariya/querycatalog/internal/core/query/cache"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/debug"
)

// SQLCompiler implements the domain.QueryCompiler interface.
type SQLCompiler struct {
	dialect  dialect
	registry *schema.Registry
}

// NewSQLCompiler creates a new SQL compiler for a dialect and schema.
func NewSQLCompiler(d domain.SQLDialect, registry *schema.Registry) *SQLCompiler {
	return &SQLCompiler{
		dialect:  newDialect(d),
		registry: registry,
	}
}

// Dialect returns the dialect the compiler targets.
func (c *SQLCompiler) Dialect() domain.SQLDialect {
	return c.dialect.name
}

// Compile compiles a query to an executable form. Queries that cannot be translated fail with
// a TranslationFailure before anything reaches the database.
func (c *SQLCompiler) Compile(ctx context.Context, query *domain.Query) (*domain.CompiledQuery, error) {
	if query == nil {
		return nil, domain.NewQueryError(domain.TranslationFailure, "compile", "", errors.New("query is nil"))
	}

	st := newState(c.dialect, c.registry)
	res, err := st.compileQuery(nil, query)
	if err != nil {
		debug.Debug("Query translation failed", "model", query.Model(), "error", err)
		return nil, domain.NewQueryError(domain.TranslationFailure, "compile", query.Model(), err)
	}

	sql := domain.SQL{
		Query:   c.dialect.rebind(res.frag.sql),
		Args:    res.frag.args,
		Dialect: c.dialect.name,
	}
	debug.Debug("Compiled query", "model", query.Model(), "dialect", sql.Dialect, "sql", sql.Query, "args", len(sql.Args))

	return &domain.CompiledQuery{
		SQL: sql,
		Mapping: domain.ResultMapping{
			Model:    query.Model(),
			Key:      res.key,
			Includes: res.includes,
		},
		CacheKey: cache.Key(c.dialect.name, query.Model(), domain.Fingerprint(query)),
	}, nil
}

// Cached puts a compiled-query cache in front of a compiler.
type Cached struct {
	compiler *SQLCompiler
	cache    *cache.LRUCache
}

// NewCached wraps compiler with cache.
func NewCached(compiler *SQLCompiler, c *cache.LRUCache) *Cached {
	return &Cached{compiler: compiler, cache: c}
}

// Compile returns the cached translation of an identical query or compiles and stores it.
// Failed translations are not cached.
func (c *Cached) Compile(ctx context.Context, query *domain.Query) (*domain.CompiledQuery, error) {
	if query == nil {
		return c.compiler.Compile(ctx, query)
	}

	key := cache.Key(c.compiler.Dialect(), query.Model(), domain.Fingerprint(query))
	if compiled, ok := c.cache.Get(key); ok {
		debug.Debug("Compiled query cache hit", "model", query.Model())
		return compiled, nil
	}

	compiled, err := c.compiler.Compile(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, compiled)
	return compiled, nil
}

// Stats returns the cache statistics.
func (c *Cached) Stats() cache.Stats {
	return c.cache.GetStats()
}

// Ensure both compilers implement the QueryCompiler interface.
var (
	_ domain.QueryCompiler = (*SQLCompiler)(nil)
	_ domain.QueryCompiler = (*Cached)(nil)
)
