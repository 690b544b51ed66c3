package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

// fragment is a piece of SQL and the arguments of its placeholders, in textual order.
type fragment struct {
	sql  string
	args []interface{}
}

func (f *fragment) write(s string) {
	f.sql += s
}

func (f *fragment) append(o fragment) {
	f.sql += o.sql
	f.args = append(f.args, o.args...)
}

// join joins fragments with sep, keeping argument order.
func joinFragments(parts []fragment, sep string) fragment {
	var f fragment
	for i, p := range parts {
		if i > 0 {
			f.sql += sep
		}
		f.append(p)
	}
	return f
}

// state is shared by every scope of one statement.
type state struct {
	d        dialect
	registry *schema.Registry
	aliases  map[string]bool
}

func newState(d dialect, registry *schema.Registry) *state {
	return &state{d: d, registry: registry, aliases: make(map[string]bool)}
}

// alias reserves a statement-unique alias, preferring the given name and falling back to
// name0, name1, ...
func (st *state) alias(preferred string) string {
	if preferred == "" {
		preferred = "t"
	}
	if !st.aliases[preferred] {
		st.aliases[preferred] = true
		return preferred
	}
	for i := 0; ; i++ {
		candidate := preferred + strconv.Itoa(i)
		if !st.aliases[candidate] {
			st.aliases[candidate] = true
			return candidate
		}
	}
}

// tableAlias is the default alias of a table: its lowercased first letter.
func tableAlias(table string) string {
	if table == "" {
		return "t"
	}
	return strings.ToLower(table[:1])
}

// source is a table reachable in a scope.
type source struct {
	table *schema.Table
	alias string
	// nullable is set when the source was reached through a LEFT join, so its columns may be
	// NULL and joins hanging off it must be LEFT as well.
	nullable bool
	owner    *scope
	navs     map[string]*source
}

// scope resolves the aliases of one SELECT. Implicit joins created while resolving
// navigations are collected in joins and rendered into the FROM clause.
type scope struct {
	st      *state
	parent  *scope
	sources map[string]*source
	joins   []fragment
	outputs map[string]*schema.Column
}

func newScope(st *state, parent *scope) *scope {
	return &scope{st: st, parent: parent, sources: make(map[string]*source)}
}

// declare registers the caller's alias for a table and returns the source.
func (sc *scope) declare(declared, table string, nullable bool) (*source, error) {
	t, err := sc.st.registry.GetTable(table)
	if err != nil {
		return nil, err
	}
	if declared == "" {
		declared = tableAlias(table)
	}
	if _, exists := sc.sources[declared]; exists {
		return nil, fmt.Errorf("alias %s is declared twice", declared)
	}
	src := &source{
		table:    t,
		alias:    sc.st.alias(declared),
		nullable: nullable,
		owner:    sc,
		navs:     make(map[string]*source),
	}
	sc.sources[declared] = src
	return src, nil
}

// anonymous adds a source that callers cannot refer to by name.
func (sc *scope) anonymous(table string, nullable bool) (*source, error) {
	t, err := sc.st.registry.GetTable(table)
	if err != nil {
		return nil, err
	}
	return &source{
		table:    t,
		alias:    sc.st.alias(tableAlias(table)),
		nullable: nullable,
		owner:    sc,
		navs:     make(map[string]*source),
	}, nil
}

// lookup finds a declared alias in this scope or an enclosing one.
func (sc *scope) lookup(declared string) (*source, error) {
	for s := sc; s != nil; s = s.parent {
		if src, ok := s.sources[declared]; ok {
			return src, nil
		}
	}
	return nil, fmt.Errorf("unknown alias %q", declared)
}

// navigate follows a reference navigation from src, adding an implicit join on first use.
// Optional relations, and any relation reached through a LEFT join, are joined LEFT.
func (sc *scope) navigate(src *source, name string) (*source, error) {
	if next, ok := src.navs[name]; ok {
		return next, nil
	}
	rel, err := sc.st.registry.GetRelation(src.table.Name, name)
	if err != nil {
		return nil, err
	}
	if rel.Collection {
		return nil, fmt.Errorf("collection navigation %s.%s cannot be traversed as a reference", src.table.Name, name)
	}

	nullable := rel.Optional || src.nullable
	target, err := src.owner.anonymous(rel.To, nullable)
	if err != nil {
		return nil, err
	}
	src.owner.joins = append(src.owner.joins, sc.joinClause(nullable, src, target, rel))
	src.navs[name] = target
	return target, nil
}

// joinClause renders " JOIN target ON src.from = target.to" for a relation.
func (sc *scope) joinClause(left bool, src, target *source, rel schema.Relation) fragment {
	d := sc.st.d
	kind := " INNER JOIN "
	if left {
		kind = " LEFT JOIN "
	}
	on := make([]string, len(rel.FromColumns))
	for i := range rel.FromColumns {
		on[i] = d.column(src.alias, rel.FromColumns[i]) + " = " + d.column(target.alias, rel.ToColumns[i])
	}
	return fragment{sql: kind + d.ident(target.table.Name) + " AS " + d.ident(target.alias) + " ON " + strings.Join(on, " AND ")}
}

// walk resolves alias plus the reference navigations in path.
func (sc *scope) walk(declared string, path []string) (*source, error) {
	src, err := sc.lookup(declared)
	if err != nil {
		return nil, err
	}
	for _, nav := range path {
		if src, err = sc.navigate(src, nav); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// column resolves a column path to its rendered form and metadata.
func (sc *scope) column(alias, path string) (string, schema.Column, error) {
	segments := strings.Split(path, ".")
	src, err := sc.walk(alias, segments[:len(segments)-1])
	if err != nil {
		return "", schema.Column{}, err
	}
	name := segments[len(segments)-1]
	col, ok := src.table.Column(name)
	if !ok {
		return "", schema.Column{}, fmt.Errorf("column %s not found in table %s", name, src.table.Name)
	}
	return sc.st.d.column(src.alias, col.Name), col, nil
}

// entity resolves an entity reference to its source.
func (sc *scope) entity(alias, path string) (*source, error) {
	var segments []string
	if path != "" {
		segments = strings.Split(path, ".")
	}
	return sc.walk(alias, segments)
}
