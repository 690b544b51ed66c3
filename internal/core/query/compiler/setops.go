package compiler

import (
	"fmt"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// compileSetOperation compiles UNION and UNION ALL. Operands must produce the same number of
// columns with the same store types position by position. Ordering and pagination of the
// combined set wrap it in an outer query:
//
//	SELECT u.a, u.b FROM (A UNION B) AS u ORDER BY u.b ASC LIMIT ?
func (st *state) compileSetOperation(parent *scope, q *domain.Query) (selectResult, error) {
	op := q.SetOperation
	if op.Left == nil || op.Right == nil {
		return selectResult{}, fmt.Errorf("set operation requires two operands")
	}
	if op.Kind != domain.Union && op.Kind != domain.UnionAll {
		return selectResult{}, fmt.Errorf("unsupported set operation: %s", op.Kind)
	}
	for _, operand := range []*domain.Query{op.Left, op.Right} {
		if len(operand.Ordering) > 0 || operand.Pagination.IsSet() {
			return selectResult{}, fmt.Errorf("set operation operands cannot be ordered or paginated; order the combined result instead")
		}
		if len(operand.Includes) > 0 && len(operand.Projection) == 0 {
			return selectResult{}, fmt.Errorf("set operation operands cannot include navigations")
		}
	}

	left, err := st.compileQuery(parent, op.Left)
	if err != nil {
		return selectResult{}, err
	}
	right, err := st.compileQuery(parent, op.Right)
	if err != nil {
		return selectResult{}, err
	}

	if len(left.outputs) != len(right.outputs) {
		return selectResult{}, fmt.Errorf("set operation operands have %d and %d columns", len(left.outputs), len(right.outputs))
	}
	for i := range left.outputs {
		l, r := left.outputs[i].column, right.outputs[i].column
		if l == nil || r == nil {
			continue
		}
		if l.StoreType() != r.StoreType() {
			return selectResult{}, fmt.Errorf("set operation column %d (%s) has store type %s on the left and %s on the right",
				i+1, left.outputs[i].name, l.StoreType(), r.StoreType())
		}
	}

	var body fragment
	body.append(left.frag)
	body.write(" " + string(op.Kind) + " ")
	body.append(right.frag)

	res := selectResult{frag: body, outputs: left.outputs}
	if left.key != nil && op.Left.Model() == op.Right.Model() {
		res.key = left.key
	}
	if len(q.Ordering) == 0 && !q.Pagination.IsSet() {
		return res, nil
	}

	d := st.d
	u := st.alias("u")
	known := make(map[string]bool, len(left.outputs))
	var f fragment
	f.write("SELECT ")
	for i, o := range left.outputs {
		if i > 0 {
			f.write(", ")
		}
		f.write(d.column(u, o.name))
		known[o.name] = true
	}
	f.write(" FROM (")
	f.append(body)
	f.write(") AS " + d.ident(u))

	for i, o := range q.Ordering {
		col, ok := o.Expr.(domain.Column)
		if !ok || col.Alias != "" || !known[col.Path] {
			return selectResult{}, fmt.Errorf("ordering of a set operation must reference its output columns")
		}
		dir, err := direction(o.Direction)
		if err != nil {
			return selectResult{}, err
		}
		if i == 0 {
			f.write(" ORDER BY ")
		} else {
			f.write(", ")
		}
		f.write(d.column(u, col.Path) + dir)
	}
	f.append(d.limit(q.Pagination))

	res.frag = f
	return res, nil
}
