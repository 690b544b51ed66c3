package compiler

import (
	"fmt"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

var countColumn = schema.Column{Name: "Count", Type: schema.Int}

// aggregate renders an aggregate function over the current group.
func (sc *scope) aggregate(agg domain.Aggregate) (fragment, *schema.Column, error) {
	switch agg.Function {
	case domain.Count:
		if agg.Arg == nil {
			return fragment{sql: "COUNT(*)"}, &countColumn, nil
		}
		arg, _, err := sc.expr(agg.Arg)
		if err != nil {
			return fragment{}, nil, err
		}
		return fragment{sql: "COUNT(" + arg.sql + ")", args: arg.args}, &countColumn, nil
	case domain.Sum, domain.Avg, domain.Min, domain.Max:
		if agg.Arg == nil {
			return fragment{}, nil, fmt.Errorf("%s requires an argument", agg.Function)
		}
		arg, col, err := sc.expr(agg.Arg)
		if err != nil {
			return fragment{}, nil, err
		}
		return fragment{sql: string(agg.Function) + "(" + arg.sql + ")", args: arg.args}, col, nil
	default:
		return fragment{}, nil, fmt.Errorf("unsupported aggregation function: %s", agg.Function)
	}
}

// navigationCount renders the size of a collection navigation as a correlated subquery
// evaluated per row: (SELECT COUNT(*) FROM child AS c WHERE parent.key = c.fk).
func (sc *scope) navigationCount(nc domain.NavigationCount) (fragment, *schema.Column, error) {
	src, err := sc.lookup(nc.Alias)
	if err != nil {
		return fragment{}, nil, err
	}
	rel, err := sc.st.registry.GetRelation(src.table.Name, nc.Relation)
	if err != nil {
		return fragment{}, nil, err
	}
	if !rel.Collection {
		return fragment{}, nil, fmt.Errorf("%s.%s is not a collection navigation", src.table.Name, nc.Relation)
	}

	d := sc.st.d
	child := sc.st.alias(tableAlias(rel.To))
	var f fragment
	f.write("(SELECT COUNT(*) FROM " + d.ident(rel.To) + " AS " + d.ident(child) + " WHERE ")
	for i := range rel.FromColumns {
		if i > 0 {
			f.write(" AND ")
		}
		f.write(d.column(src.alias, rel.FromColumns[i]) + " = " + d.column(child, rel.ToColumns[i]))
	}
	f.write(")")
	return f, &countColumn, nil
}
