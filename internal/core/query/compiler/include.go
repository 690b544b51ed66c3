package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// compileInclude compiles a query that eager loads navigations of its root. Every included
// navigation is joined onto the root; related columns are named Path.Column so the executor
// can nest them again.
//
// With pagination, the root is limited first inside a derived table so a collection include
// cannot reduce the number of roots returned:
//
//	SELECT t.*, p0.* FROM (SELECT ... FROM Product AS p ORDER BY ... LIMIT ?) AS t LEFT JOIN ...
func (st *state) compileInclude(parent *scope, q *domain.Query) (selectResult, error) {
	if len(q.Joins) > 0 || len(q.GroupBy) > 0 || !q.Having.IsEmpty() || q.Distinct {
		return selectResult{}, fmt.Errorf("includes cannot be combined with joins, grouping or distinct")
	}

	d := st.d
	sc := newScope(st, parent)
	paged := q.Pagination.IsSet()

	var root *source
	var from fragment
	var where fragment
	var orderBy []fragment

	if paged {
		inner := *q
		inner.Includes = nil
		res, err := st.compileSelect(sc, &inner, selectOptions{})
		if err != nil {
			return selectResult{}, err
		}
		t, err := st.registry.GetTable(q.Source.Table)
		if err != nil {
			return selectResult{}, err
		}
		root = &source{table: t, alias: st.alias("t"), owner: sc, navs: map[string]*source{}}
		from = fragment{sql: "(" + res.frag.sql + ") AS " + d.ident(root.alias), args: res.frag.args}

		// The derived table's row order is not guaranteed, so the root ordering is repeated
		// against its columns.
		for _, o := range q.Ordering {
			col, ok := o.Expr.(domain.Column)
			if !ok || col.Alias != q.Source.Alias || !isPlainColumn(col.Path) {
				return selectResult{}, fmt.Errorf("ordering of a paginated include must use columns of the root")
			}
			if _, ok := t.Column(col.Path); !ok {
				return selectResult{}, fmt.Errorf("column %s not found in table %s", col.Path, t.Name)
			}
			dir, err := direction(o.Direction)
			if err != nil {
				return selectResult{}, err
			}
			orderBy = append(orderBy, fragment{sql: d.column(root.alias, col.Path) + dir})
		}
	} else {
		var err error
		if root, err = sc.declare(q.Source.Alias, q.Source.Table, false); err != nil {
			return selectResult{}, err
		}
		from = fragment{sql: d.ident(root.table.Name) + " AS " + d.ident(root.alias)}
		if !q.Filter.IsEmpty() {
			if where, err = sc.filter(q.Filter); err != nil {
				return selectResult{}, err
			}
		}
		if orderBy, err = sc.orderBy(q.Ordering); err != nil {
			return selectResult{}, err
		}
	}

	var columns []string
	var outputs []output
	for i := range root.table.Columns {
		c := &root.table.Columns[i]
		columns = append(columns, d.column(root.alias, c.Name))
		outputs = append(outputs, output{name: c.Name, column: c})
	}

	var joins []fragment
	var mappings []domain.IncludeMapping
	hasCollection := false

	var walk func(parent *source, prefix string, includes []domain.RelationInclusion) error
	walk = func(parent *source, prefix string, includes []domain.RelationInclusion) error {
		for _, inc := range includes {
			rel, err := st.registry.GetRelation(parent.table.Name, inc.Relation)
			if err != nil {
				return err
			}
			left := rel.Optional || rel.Collection || parent.nullable
			target, err := sc.anonymous(rel.To, left)
			if err != nil {
				return err
			}
			joins = append(joins, sc.joinClause(left, parent, target, rel))

			path := inc.Relation
			if prefix != "" {
				path = prefix + "." + inc.Relation
			}
			for i := range target.table.Columns {
				c := &target.table.Columns[i]
				name := path + "." + c.Name
				columns = append(columns, d.column(target.alias, c.Name)+" AS "+d.ident(name))
				outputs = append(outputs, output{name: name, column: c})
			}
			mappings = append(mappings, domain.IncludeMapping{
				Path:       path,
				Table:      target.table.Name,
				Key:        target.table.Key,
				Collection: rel.Collection,
			})
			hasCollection = hasCollection || rel.Collection

			if err := walk(target, path, inc.Nested); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, "", q.Includes); err != nil {
		return selectResult{}, err
	}

	// Rows of one root stay adjacent when a collection multiplies them.
	if hasCollection {
		for _, k := range root.table.Key {
			key := d.column(root.alias, k)
			if !orderedBy(orderBy, key) {
				orderBy = append(orderBy, fragment{sql: key + " ASC"})
			}
		}
	}

	var f fragment
	f.write("SELECT ")
	for i, c := range columns {
		if i > 0 {
			f.write(", ")
		}
		f.write(c)
	}
	f.write(" FROM ")
	f.append(from)
	for _, j := range joins {
		f.append(j)
	}
	for _, j := range sc.joins {
		f.append(j)
	}
	if where.sql != "" {
		f.write(" WHERE ")
		f.append(where)
	}
	if len(orderBy) > 0 {
		f.write(" ORDER BY ")
		f.append(joinFragments(orderBy, ", "))
	}

	return selectResult{
		frag:     f,
		outputs:  outputs,
		key:      root.table.Key,
		includes: mappings,
	}, nil
}

func isPlainColumn(path string) bool {
	return path != "" && !strings.Contains(path, ".")
}

func orderedBy(orderBy []fragment, column string) bool {
	for _, o := range orderBy {
		if o.sql == column+" ASC" || o.sql == column+" DESC" {
			return true
		}
	}
	return false
}
