package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Fingerprint returns a stable hash of the query's structure and literal values. Two queries
// with the same fingerprint compile to the same SQL for a given dialect.
func Fingerprint(q *Query) string {
	var b strings.Builder
	writeQuery(&b, q)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeQuery(b *strings.Builder, q *Query) {
	if q == nil {
		b.WriteString("nil")
		return
	}
	if q.SetOperation != nil {
		fmt.Fprintf(b, "set(%s;", q.SetOperation.Kind)
		writeQuery(b, q.SetOperation.Left)
		b.WriteString(";")
		writeQuery(b, q.SetOperation.Right)
		b.WriteString(")")
	}
	fmt.Fprintf(b, "from(%s %s)", q.Source.Table, q.Source.Alias)
	for _, j := range q.Joins {
		fmt.Fprintf(b, "join(%s %s %s ", j.Type, j.Table, j.Alias)
		writeExpr(b, j.Left)
		writeExpr(b, j.Right)
		b.WriteString(")")
	}
	b.WriteString("select(")
	for _, p := range q.Projection {
		writeExpr(b, p.Expr)
		fmt.Fprintf(b, " as %s,", p.As)
	}
	fmt.Fprintf(b, ")distinct(%t)where", q.Distinct)
	writeFilter(b, q.Filter)
	b.WriteString("group(")
	for _, e := range q.GroupBy {
		writeExpr(b, e)
	}
	b.WriteString(")having")
	writeFilter(b, q.Having)
	b.WriteString("order(")
	for _, o := range q.Ordering {
		writeExpr(b, o.Expr)
		fmt.Fprintf(b, " %s,", o.Direction)
	}
	b.WriteString(")page(")
	if q.Pagination.Skip != nil {
		fmt.Fprintf(b, "skip %d", *q.Pagination.Skip)
	}
	if q.Pagination.Take != nil {
		fmt.Fprintf(b, "take %d", *q.Pagination.Take)
	}
	b.WriteString(")include(")
	writeIncludes(b, q.Includes)
	b.WriteString(")")
}

func writeIncludes(b *strings.Builder, includes []RelationInclusion) {
	for _, inc := range includes {
		b.WriteString(inc.Relation)
		b.WriteString("{")
		writeIncludes(b, inc.Nested)
		b.WriteString("}")
	}
}

func writeFilter(b *strings.Builder, f Filter) {
	fmt.Fprintf(b, "(%s ", f.Operator)
	for _, c := range f.Conditions {
		writeExpr(b, c.Left)
		fmt.Fprintf(b, " %s ", c.Operator)
		switch v := c.Value.(type) {
		case *Query:
			writeQuery(b, v)
		case Expr:
			writeExpr(b, v)
		default:
			writeValue(b, v)
		}
		b.WriteString(";")
	}
	for _, nested := range f.NestedFilters {
		writeFilter(b, nested)
	}
	b.WriteString(")")
}

func writeExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case nil:
		b.WriteString("nil")
	case Column:
		fmt.Fprintf(b, "col(%s.%s)", v.Alias, v.Path)
	case Entity:
		fmt.Fprintf(b, "ent(%s.%s)", v.Alias, v.Path)
	case Aggregate:
		fmt.Fprintf(b, "agg(%s ", v.Function)
		writeExpr(b, v.Arg)
		b.WriteString(")")
	case NavigationCount:
		fmt.Fprintf(b, "navcount(%s.%s)", v.Alias, v.Relation)
	case Literal:
		b.WriteString("lit(")
		writeValue(b, v.Value)
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "%T", v)
	}
}

// writeValue writes a bound value with its type. Slices are written element by element with
// their length so that differently split lists never share a key.
func writeValue(b *strings.Builder, v interface{}) {
	if v == nil {
		b.WriteString("nil")
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if bytes, ok := v.([]byte); ok {
			fmt.Fprintf(b, "bytes:%q", bytes)
			return
		}
		fmt.Fprintf(b, "%T[%d]{", v, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			writeValue(b, rv.Index(i).Interface())
			b.WriteString(",")
		}
		b.WriteString("}")
	case reflect.Pointer:
		if rv.IsNil() {
			fmt.Fprintf(b, "%T:nil", v)
			return
		}
		fmt.Fprintf(b, "%T:", v)
		writeValue(b, rv.Elem().Interface())
	default:
		fmt.Fprintf(b, "%T:%s", v, strconv.Quote(fmt.Sprint(v)))
	}
}
