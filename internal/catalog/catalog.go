// Package catalog is a collection of sample queries over the commerce schema. Every entry opens
// its own session, issues its statements and returns the materialized rows together with the
// SQL that produced them, so equivalent-looking query forms can be compared.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/compiler"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/query/mapper"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/debug"
	"github.com/satishbabariya/querycatalog/internal/session"
)

// Category groups related entries.
type Category string

const (
	// Aggregation entries count and group.
	Aggregation Category = "Aggregation"
	// Join entries load related entities.
	Join Category = "Join"
	// Set entries combine result sets.
	Set Category = "Set"
	// Containment entries filter by membership.
	Containment Category = "Containment"
)

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{Aggregation, Join, Set, Containment}
}

// Result is the outcome of running an entry.
type Result struct {
	Name       string
	SQL        []string
	Rows       []map[string]interface{}
	RoundTrips int
}

// Scan maps the rows into dest, a pointer to a slice of structs.
func (r Result) Scan(dest interface{}) error {
	return mapper.NewResultMapper().MapToStructSlice(r.Rows, dest)
}

// Entry is a named catalog query.
type Entry struct {
	Name     string
	Category Category
	Summary  string
	// Note describes the translation trade-off of the entry in markdown.
	Note string
	// KnownFailure marks entries whose query cannot be translated.
	KnownFailure bool
	// NoTracking runs the entry without identity resolution.
	NoTracking bool
	// Plan builds the statements the entry issues. A statement built from an earlier result
	// uses representative values.
	Plan func() []*domain.Query

	run func(ctx context.Context, s *session.Session) ([]map[string]interface{}, error)
}

// Run executes the entry in a session of its own.
func (e Entry) Run(ctx context.Context, f *session.Factory) (Result, error) {
	res := Result{Name: e.Name}
	err := session.Run(ctx, f, func(s *session.Session) error {
		if e.NoTracking {
			s.NoTracking()
		}
		rows, err := e.execute(ctx, s)
		res.SQL = s.Statements()
		res.RoundTrips = s.RoundTrips()
		if err != nil {
			return err
		}
		res.Rows = rows
		return nil
	})
	if err != nil {
		debug.Warn("Catalog entry failed", "entry", e.Name, "error", err)
		return res, err
	}
	debug.Debug("Catalog entry finished", "entry", e.Name, "rows", len(res.Rows), "roundTrips", res.RoundTrips)
	return res, nil
}

func (e Entry) execute(ctx context.Context, s *session.Session) ([]map[string]interface{}, error) {
	if e.run != nil {
		return e.run(ctx, s)
	}
	return s.Query(ctx, e.Plan()[0])
}

// Compile translates the entry's plan for a dialect without touching a database.
func (e Entry) Compile(ctx context.Context, dialect domain.SQLDialect, registry *schema.Registry) ([]*domain.CompiledQuery, error) {
	c := compiler.NewSQLCompiler(dialect, registry)
	var out []*domain.CompiledQuery
	for _, q := range e.Plan() {
		compiled, err := c.Compile(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

// Options parameterizes the entries that take arguments. Zero values select each entry's
// default.
type Options struct {
	Top     int
	State   string
	Classes []string
}

func (o Options) top(def int) int {
	if o.Top > 0 {
		return o.Top
	}
	return def
}

func (o Options) state() string {
	if o.State != "" {
		return o.State
	}
	return "WA"
}

func (o Options) classes() []string {
	if o.Classes != nil {
		return o.Classes
	}
	return []string{"H", "M"}
}

// Catalog holds the entries in registration order.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// New builds the catalog.
func New(opts Options) *Catalog {
	c := &Catalog{byName: make(map[string]int)}
	for _, group := range [][]Entry{
		aggregationEntries(),
		joinEntries(opts),
		setEntries(),
		containmentEntries(opts),
	} {
		for _, e := range group {
			c.byName[strings.ToLower(e.Name)] = len(c.entries)
			c.entries = append(c.entries, e)
		}
	}
	return c
}

// Entries returns every entry.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns the entry names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// InCategory returns the entries of one category.
func (c *Catalog) InCategory(category Category) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds an entry by case-insensitive name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Entry{}, fmt.Errorf("unknown catalog entry %q", name)
	}
	return c.entries[i], nil
}

func single(q func() *domain.Query) func() []*domain.Query {
	return func() []*domain.Query { return []*domain.Query{q()} }
}
