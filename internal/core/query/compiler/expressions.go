package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

// expr renders a scalar expression. The returned column describes the store type when the
// expression is known to produce one.
func (sc *scope) expr(e domain.Expr) (fragment, *schema.Column, error) {
	switch v := e.(type) {
	case domain.Column:
		if v.Alias == "" {
			return sc.output(v.Path)
		}
		sql, col, err := sc.column(v.Alias, v.Path)
		if err != nil {
			return fragment{}, nil, err
		}
		return fragment{sql: sql}, &col, nil
	case domain.Literal:
		return fragment{sql: "?", args: []interface{}{v.Value}}, nil, nil
	case domain.Aggregate:
		return sc.aggregate(v)
	case domain.NavigationCount:
		return sc.navigationCount(v)
	case domain.Entity:
		return fragment{}, nil, fmt.Errorf("entity %s.%s cannot be used as a scalar", v.Alias, v.Path)
	case nil:
		return fragment{}, nil, fmt.Errorf("missing expression")
	default:
		return fragment{}, nil, fmt.Errorf("unsupported expression %T", e)
	}
}

// output references a named column of the current select list.
func (sc *scope) output(name string) (fragment, *schema.Column, error) {
	col, ok := sc.outputs[name]
	if !ok {
		return fragment{}, nil, fmt.Errorf("unknown output column %q", name)
	}
	return fragment{sql: sc.st.d.ident(name)}, col, nil
}

// filter renders the conditions of f joined by its operator. Nested filters are parenthesized.
func (sc *scope) filter(f domain.Filter) (fragment, error) {
	var parts []fragment
	for _, cond := range f.Conditions {
		p, err := sc.condition(cond)
		if err != nil {
			return fragment{}, err
		}
		parts = append(parts, p)
	}
	for _, nested := range f.NestedFilters {
		if nested.IsEmpty() {
			continue
		}
		p, err := sc.filter(nested)
		if err != nil {
			return fragment{}, err
		}
		if len(nested.Conditions)+len(nested.NestedFilters) > 1 {
			p.sql = "(" + p.sql + ")"
		}
		parts = append(parts, p)
	}

	sep := " AND "
	if f.Operator == domain.OR {
		sep = " OR "
	}
	return joinFragments(parts, sep), nil
}

var comparisons = map[domain.ComparisonOperator]string{
	domain.Equals:    "=",
	domain.NotEquals: "<>",
	domain.Lt:        "<",
	domain.Lte:       "<=",
	domain.Gt:        ">",
	domain.Gte:       ">=",
}

// condition renders a single predicate.
func (sc *scope) condition(cond domain.Condition) (fragment, error) {
	if cond.Operator == domain.Exists {
		sub, ok := cond.Value.(*domain.Query)
		if !ok || sub == nil {
			return fragment{}, fmt.Errorf("exists requires a subquery")
		}
		res, err := sc.st.compileSelect(sc, sub, selectOptions{selectOne: true})
		if err != nil {
			return fragment{}, err
		}
		return fragment{sql: "EXISTS (" + res.frag.sql + ")", args: res.frag.args}, nil
	}

	left, _, err := sc.expr(cond.Left)
	if err != nil {
		return fragment{}, err
	}

	switch cond.Operator {
	case domain.IsNull:
		left.write(" IS NULL")
		return left, nil
	case domain.IsNotNull:
		left.write(" IS NOT NULL")
		return left, nil
	case domain.In, domain.NotIn:
		negate := cond.Operator == domain.NotIn
		if sub, ok := cond.Value.(*domain.Query); ok {
			// NOT EXISTS and NOT IN disagree when the subquery yields NULL.
			if negate {
				return fragment{}, fmt.Errorf("NOT IN with a subquery is not supported; use NOT EXISTS")
			}
			return sc.containment(left, sub)
		}
		return inList(left, cond.Value, negate)
	case domain.Contains:
		return sc.like(left, "%"+escapeLike(cond.Value)+"%"), nil
	case domain.StartsWith:
		return sc.like(left, escapeLike(cond.Value)+"%"), nil
	case domain.EndsWith:
		return sc.like(left, "%"+escapeLike(cond.Value)), nil
	}

	op, ok := comparisons[cond.Operator]
	if !ok {
		return fragment{}, fmt.Errorf("unsupported operator: %s", cond.Operator)
	}
	if cond.Value == nil {
		switch cond.Operator {
		case domain.Equals:
			left.write(" IS NULL")
			return left, nil
		case domain.NotEquals:
			left.write(" IS NOT NULL")
			return left, nil
		}
		return fragment{}, fmt.Errorf("operator %s cannot compare with NULL", cond.Operator)
	}

	var right fragment
	if e, isExpr := cond.Value.(domain.Expr); isExpr {
		if right, _, err = sc.expr(e); err != nil {
			return fragment{}, err
		}
	} else {
		right = fragment{sql: "?", args: []interface{}{cond.Value}}
	}

	left.write(" " + op + " ")
	left.append(right)
	return left, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes v match literally inside a LIKE pattern, using backslash as the escape.
func escapeLike(v interface{}) string {
	return likeEscaper.Replace(fmt.Sprint(v))
}

func (sc *scope) like(left fragment, pattern string) fragment {
	left.write(sc.st.d.like())
	left.args = append(left.args, pattern)
	return left
}

// inList renders a literal IN list. An empty list matches nothing.
func inList(left fragment, values interface{}, negate bool) (fragment, error) {
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fragment{}, fmt.Errorf("IN operator requires a slice of values, got %T", values)
	}
	if v.Len() == 0 {
		if negate {
			return fragment{sql: "1 = 1"}, nil
		}
		return fragment{sql: "1 = 0"}, nil
	}

	placeholders := make([]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		placeholders[i] = "?"
		left.args = append(left.args, v.Index(i).Interface())
	}
	op := " IN ("
	if negate {
		op = " NOT IN ("
	}
	left.write(op + strings.Join(placeholders, ", ") + ")")
	return left, nil
}

// containment renders "left IN (subquery)" as a correlated EXISTS so the subquery is never
// materialized: EXISTS (SELECT 1 FROM ... WHERE <subquery filter> AND <projected> = left).
func (sc *scope) containment(left fragment, sub *domain.Query) (fragment, error) {
	if sub.SetOperation != nil {
		return fragment{}, fmt.Errorf("containment subquery cannot be a set operation")
	}
	if len(sub.Projection) != 1 {
		return fragment{}, fmt.Errorf("containment subquery must project exactly one column, got %d", len(sub.Projection))
	}
	col, ok := sub.Projection[0].Expr.(domain.Column)
	if !ok || col.Alias == "" {
		return fragment{}, fmt.Errorf("containment subquery must project a column")
	}
	if len(sub.Ordering) > 0 || sub.Pagination.IsSet() {
		return fragment{}, fmt.Errorf("containment subquery cannot be ordered or paginated")
	}

	res, err := sc.st.compileSelect(sc, sub, selectOptions{
		selectOne: true,
		correlate: func(inner *scope) (fragment, error) {
			projected, _, err := inner.column(col.Alias, col.Path)
			if err != nil {
				return fragment{}, err
			}
			return fragment{sql: projected + " = " + left.sql, args: left.args}, nil
		},
	})
	if err != nil {
		return fragment{}, err
	}

	return fragment{sql: "EXISTS (" + res.frag.sql + ")", args: res.frag.args}, nil
}
