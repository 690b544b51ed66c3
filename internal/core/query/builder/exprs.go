package builder

import "github.com/satishbabariya/querycatalog/internal/core/query/domain"

// Col references a column of alias. path may go through reference navigations.
func Col(alias, path string) domain.Column {
	return domain.Column{Alias: alias, Path: path}
}

// Output references a column of the enclosing result by name.
func Output(name string) domain.Column {
	return domain.Column{Path: name}
}

// Row references the whole row of alias.
func Row(alias string) domain.Entity {
	return domain.Entity{Alias: alias}
}

// Ref references the entity reached from alias through the navigations in path.
func Ref(alias, path string) domain.Entity {
	return domain.Entity{Alias: alias, Path: path}
}

// CountAll counts the rows of a group.
func CountAll() domain.Aggregate {
	return domain.Aggregate{Function: domain.Count}
}

// Agg applies fn to expr.
func Agg(fn domain.AggregateFunc, expr domain.Expr) domain.Aggregate {
	return domain.Aggregate{Function: fn, Arg: expr}
}

// CountOf counts the rows of the collection navigation relation of alias.
func CountOf(alias, relation string) domain.NavigationCount {
	return domain.NavigationCount{Alias: alias, Relation: relation}
}

// Value wraps a constant.
func Value(v interface{}) domain.Literal {
	return domain.Literal{Value: v}
}

// As names a projected expression.
func As(expr domain.Expr, name string) domain.Projection {
	return domain.Projection{Expr: expr, As: name}
}

// Field projects a column of alias under its own name.
func Field(alias, column string) domain.Projection {
	return domain.Projection{Expr: Col(alias, column), As: column}
}
