package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

type selectOptions struct {
	// selectOne replaces the select list with the constant 1, for EXISTS subqueries.
	selectOne bool
	// correlate adds a predicate built inside the subquery's scope to its WHERE clause.
	correlate func(*scope) (fragment, error)
}

// output is a named column of a result set.
type output struct {
	name   string
	column *schema.Column
}

type selectResult struct {
	frag     fragment
	outputs  []output
	key      []string
	includes []domain.IncludeMapping
}

// compileQuery dispatches on the query's shape.
func (st *state) compileQuery(parent *scope, q *domain.Query) (selectResult, error) {
	switch {
	case q.SetOperation != nil:
		return st.compileSetOperation(parent, q)
	case len(q.Includes) > 0 && len(q.Projection) == 0:
		return st.compileInclude(parent, q)
	default:
		// Includes are dropped when the caller projects its own shape.
		return st.compileSelect(parent, q, selectOptions{})
	}
}

// compileSelect compiles a single SELECT with its joins, filters, grouping and pagination.
func (st *state) compileSelect(parent *scope, q *domain.Query, opts selectOptions) (selectResult, error) {
	if q.SetOperation != nil {
		return selectResult{}, fmt.Errorf("set operation cannot be used as a subquery")
	}
	d := st.d
	sc := newScope(st, parent)

	root, err := sc.declare(q.Source.Alias, q.Source.Table, false)
	if err != nil {
		return selectResult{}, err
	}
	from := fragment{sql: d.ident(root.table.Name) + " AS " + d.ident(root.alias)}

	for _, j := range q.Joins {
		clause, err := sc.explicitJoin(j)
		if err != nil {
			return selectResult{}, err
		}
		from.append(clause)
	}

	list, outputs, err := sc.projection(q, root, opts)
	if err != nil {
		return selectResult{}, err
	}

	var where []fragment
	if !q.Filter.IsEmpty() {
		f, err := sc.filter(q.Filter)
		if err != nil {
			return selectResult{}, err
		}
		if opts.correlate != nil && q.Filter.Operator == domain.OR && len(q.Filter.Conditions)+len(q.Filter.NestedFilters) > 1 {
			f.sql = "(" + f.sql + ")"
		}
		where = append(where, f)
	}
	if opts.correlate != nil {
		f, err := opts.correlate(sc)
		if err != nil {
			return selectResult{}, err
		}
		where = append(where, f)
	}

	groupBy, err := sc.groupBy(q.GroupBy)
	if err != nil {
		return selectResult{}, err
	}

	var having fragment
	if !q.Having.IsEmpty() {
		if having, err = sc.filter(q.Having); err != nil {
			return selectResult{}, err
		}
	}

	orderBy, err := sc.orderBy(q.Ordering)
	if err != nil {
		return selectResult{}, err
	}

	var f fragment
	f.write("SELECT ")
	if q.Distinct {
		f.write("DISTINCT ")
	}
	f.append(list)
	f.write(" FROM ")
	f.append(from)
	for _, j := range sc.joins {
		f.append(j)
	}
	if len(where) > 0 {
		f.write(" WHERE ")
		f.append(joinFragments(where, " AND "))
	}
	if len(groupBy) > 0 {
		f.write(" GROUP BY ")
		f.append(joinFragments(groupBy, ", "))
	}
	if having.sql != "" {
		f.write(" HAVING ")
		f.append(having)
	}
	if len(orderBy) > 0 {
		f.write(" ORDER BY ")
		f.append(joinFragments(orderBy, ", "))
	}
	f.append(d.limit(q.Pagination))

	res := selectResult{frag: f, outputs: outputs}
	if len(q.Projection) == 0 && !opts.selectOne {
		res.key = root.table.Key
	}
	return res, nil
}

// explicitJoin declares the joined table and renders its ON clause.
func (sc *scope) explicitJoin(j domain.Join) (fragment, error) {
	var kind string
	switch j.Type {
	case domain.InnerJoin, "":
		kind = " INNER JOIN "
	case domain.LeftJoin:
		kind = " LEFT JOIN "
	default:
		return fragment{}, fmt.Errorf("unsupported join type: %s", j.Type)
	}

	src, err := sc.declare(j.Alias, j.Table, j.Type == domain.LeftJoin)
	if err != nil {
		return fragment{}, err
	}
	left, _, err := sc.column(j.Left.Alias, j.Left.Path)
	if err != nil {
		return fragment{}, err
	}
	right, _, err := sc.column(j.Right.Alias, j.Right.Path)
	if err != nil {
		return fragment{}, err
	}
	d := sc.st.d
	return fragment{sql: kind + d.ident(src.table.Name) + " AS " + d.ident(src.alias) + " ON " + left + " = " + right}, nil
}

// projection renders the select list. Entity projections expand to every column of the
// entity, named Name.Column when the entity is not the root row itself.
func (sc *scope) projection(q *domain.Query, root *source, opts selectOptions) (fragment, []output, error) {
	if opts.selectOne {
		return fragment{sql: "1"}, nil, nil
	}

	d := sc.st.d
	var items []fragment
	var outputs []output
	add := func(f fragment, name, column string, col *schema.Column) error {
		for _, o := range outputs {
			if o.name == name {
				return fmt.Errorf("duplicate output column %s", name)
			}
		}
		if name != column {
			f.write(" AS " + d.ident(name))
		}
		items = append(items, f)
		outputs = append(outputs, output{name: name, column: col})
		return nil
	}

	if len(q.Projection) == 0 {
		for i := range root.table.Columns {
			c := &root.table.Columns[i]
			if err := add(fragment{sql: d.column(root.alias, c.Name)}, c.Name, c.Name, c); err != nil {
				return fragment{}, nil, err
			}
		}
	}

	for i, p := range q.Projection {
		switch e := p.Expr.(type) {
		case domain.Entity:
			src, err := sc.entity(e.Alias, e.Path)
			if err != nil {
				return fragment{}, nil, err
			}
			prefix := p.As
			if prefix == "" {
				prefix = e.Path
			}
			if prefix != "" {
				prefix += "."
			}
			for j := range src.table.Columns {
				c := &src.table.Columns[j]
				if err := add(fragment{sql: d.column(src.alias, c.Name)}, prefix+c.Name, c.Name, c); err != nil {
					return fragment{}, nil, err
				}
			}
		case domain.Column:
			if e.Alias == "" {
				return fragment{}, nil, fmt.Errorf("projection %d must reference a source alias", i)
			}
			sql, col, err := sc.column(e.Alias, e.Path)
			if err != nil {
				return fragment{}, nil, err
			}
			name := p.As
			if name == "" {
				name = col.Name
			}
			if err := add(fragment{sql: sql}, name, col.Name, &col); err != nil {
				return fragment{}, nil, err
			}
		default:
			if p.As == "" {
				return fragment{}, nil, fmt.Errorf("projection %d needs a name", i)
			}
			f, col, err := sc.expr(p.Expr)
			if err != nil {
				return fragment{}, nil, err
			}
			if err := add(f, p.As, "", col); err != nil {
				return fragment{}, nil, err
			}
		}
	}

	sc.outputs = make(map[string]*schema.Column, len(outputs))
	for _, o := range outputs {
		sc.outputs[o.name] = o.column
	}
	return joinFragments(items, ", "), outputs, nil
}

// groupBy renders the grouping key. An entity groups by all of its columns.
func (sc *scope) groupBy(exprs []domain.Expr) ([]fragment, error) {
	var parts []fragment
	for _, e := range exprs {
		if ent, ok := e.(domain.Entity); ok {
			src, err := sc.entity(ent.Alias, ent.Path)
			if err != nil {
				return nil, err
			}
			for _, c := range src.table.Columns {
				parts = append(parts, fragment{sql: sc.st.d.column(src.alias, c.Name)})
			}
			continue
		}
		f, _, err := sc.expr(e)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	return parts, nil
}

func (sc *scope) orderBy(ordering []domain.OrderBy) ([]fragment, error) {
	var parts []fragment
	for _, o := range ordering {
		f, _, err := sc.expr(o.Expr)
		if err != nil {
			return nil, err
		}
		dir, err := direction(o.Direction)
		if err != nil {
			return nil, err
		}
		f.write(dir)
		parts = append(parts, f)
	}
	return parts, nil
}

func direction(dir domain.SortDirection) (string, error) {
	switch strings.ToLower(string(dir)) {
	case "", string(domain.Asc):
		return " ASC", nil
	case string(domain.Desc):
		return " DESC", nil
	default:
		return "", fmt.Errorf("invalid sort direction: %s", dir)
	}
}
