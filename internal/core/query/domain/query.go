// Package domain contains the query model the builder produces and the compiler translates.
package domain

import "context"

// Query represents a read query against the sample schema.
//
// Filter is applied before grouping (WHERE) and Having after aggregation (HAVING). When
// SetOperation is set the query is a combination of two operands and only Ordering and
// Pagination of the outer query are used.
type Query struct {
	Source       Source
	Joins        []Join
	Projection   []Projection
	Distinct     bool
	Filter       Filter
	GroupBy      []Expr
	Having       Filter
	Ordering     []OrderBy
	Pagination   Pagination
	Includes     []RelationInclusion
	SetOperation *SetOperation
}

// Model returns the root table of the query.
func (q *Query) Model() string {
	if q == nil {
		return ""
	}
	if q.SetOperation != nil && q.SetOperation.Left != nil {
		return q.SetOperation.Left.Model()
	}
	return q.Source.Table
}

// Source is the root table of a query and the alias expressions refer to it by.
type Source struct {
	Table string
	Alias string
}

// JoinType represents the kind of join.
type JoinType string

const (
	// InnerJoin keeps rows with a match on both sides.
	InnerJoin JoinType = "INNER"
	// LeftJoin keeps every row of the left side.
	LeftJoin JoinType = "LEFT"
)

// Join is an explicit join written by the caller.
type Join struct {
	Type  JoinType
	Table string
	Alias string
	Left  Column
	Right Column
}

// Expr is a scalar or entity expression.
type Expr interface {
	isExpr()
}

// Column references a column of an aliased source. Path may traverse reference navigations
// ("StateProvince.StateProvinceCode"), which the compiler turns into implicit joins. An empty
// Alias refers to an output column of the enclosing result, as used when ordering a set operation.
type Column struct {
	Alias string
	Path  string
}

// Entity references a whole row: the aliased source itself when Path is empty, or the entity
// reached through the reference navigations in Path.
type Entity struct {
	Alias string
	Path  string
}

// Aggregate applies an aggregate function. A nil Arg means COUNT(*).
type Aggregate struct {
	Function AggregateFunc
	Arg      Expr
}

// NavigationCount counts the rows of a collection navigation of the aliased source.
type NavigationCount struct {
	Alias    string
	Relation string
}

// Literal is a parameterized constant.
type Literal struct {
	Value interface{}
}

func (Column) isExpr()          {}
func (Entity) isExpr()          {}
func (Aggregate) isExpr()       {}
func (NavigationCount) isExpr() {}
func (Literal) isExpr()         {}

// AggregateFunc represents aggregation functions.
type AggregateFunc string

const (
	// Count counts records.
	Count AggregateFunc = "COUNT"
	// Sum sums field values.
	Sum AggregateFunc = "SUM"
	// Avg calculates average.
	Avg AggregateFunc = "AVG"
	// Min finds minimum value.
	Min AggregateFunc = "MIN"
	// Max finds maximum value.
	Max AggregateFunc = "MAX"
)

// Projection is one entry of the select list.
type Projection struct {
	Expr Expr
	As   string
}

// Filter represents query conditions with support for nested logical combinations.
type Filter struct {
	Conditions    []Condition
	NestedFilters []Filter
	Operator      LogicalOperator
}

// IsEmpty reports whether the filter has nothing to render.
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0 && len(f.NestedFilters) == 0
}

// LogicalOperator represents logical operators for combining conditions.
type LogicalOperator string

const (
	// AND combines conditions with AND.
	AND LogicalOperator = "AND"
	// OR combines conditions with OR.
	OR LogicalOperator = "OR"
)

// Condition represents a single predicate. Value is a scalar, a slice for In/NotIn, an Expr for
// column comparisons, or a *Query for In/NotIn/Exists against a subquery.
type Condition struct {
	Left     Expr
	Operator ComparisonOperator
	Value    interface{}
}

// ComparisonOperator represents comparison operators.
type ComparisonOperator string

const (
	// Equals checks equality.
	Equals ComparisonOperator = "equals"
	// NotEquals checks inequality.
	NotEquals ComparisonOperator = "not"
	// In checks membership in a list or subquery.
	In ComparisonOperator = "in"
	// NotIn is the negation of In.
	NotIn ComparisonOperator = "notIn"
	// Lt checks if value is less than.
	Lt ComparisonOperator = "lt"
	// Lte checks if value is less than or equal.
	Lte ComparisonOperator = "lte"
	// Gt checks if value is greater than.
	Gt ComparisonOperator = "gt"
	// Gte checks if value is greater than or equal.
	Gte ComparisonOperator = "gte"
	// Contains checks if string contains substring.
	Contains ComparisonOperator = "contains"
	// StartsWith checks if string starts with.
	StartsWith ComparisonOperator = "startsWith"
	// EndsWith checks if string ends with.
	EndsWith ComparisonOperator = "endsWith"
	// IsNull checks if field is null.
	IsNull ComparisonOperator = "isNull"
	// IsNotNull checks if field is not null.
	IsNotNull ComparisonOperator = "isNotNull"
	// Exists checks that a subquery returns rows.
	Exists ComparisonOperator = "exists"
)

// RelationInclusion eager loads a navigation of the root, and further navigations of it.
type RelationInclusion struct {
	Relation string
	Nested   []RelationInclusion
}

// OrderBy defines sorting.
type OrderBy struct {
	Expr      Expr
	Direction SortDirection
}

// SortDirection represents sort direction.
type SortDirection string

const (
	// Asc sorts ascending.
	Asc SortDirection = "asc"
	// Desc sorts descending.
	Desc SortDirection = "desc"
)

// Pagination defines result pagination.
type Pagination struct {
	Skip *int
	Take *int
}

// IsSet reports whether skip or take was requested.
func (p Pagination) IsSet() bool {
	return p.Skip != nil || p.Take != nil
}

// SetKind selects duplicate handling for a set operation.
type SetKind string

const (
	// Union removes duplicate rows.
	Union SetKind = "UNION"
	// UnionAll keeps duplicate rows.
	UnionAll SetKind = "UNION ALL"
)

// SetOperation combines two same-shaped operands.
type SetOperation struct {
	Kind  SetKind
	Left  *Query
	Right *Query
}

// SQL represents generated SQL.
type SQL struct {
	Query   string
	Args    []interface{}
	Dialect SQLDialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// CompiledQuery represents a compiled query ready for execution.
type CompiledQuery struct {
	SQL      SQL
	Mapping  ResultMapping
	CacheKey string
}

// ResultMapping tells the executor how to shape flat rows. Without includes, output columns
// named "A.B" are nested into a map under "A".
type ResultMapping struct {
	Model    string
	Key      []string
	Includes []IncludeMapping
}

// IncludeMapping describes one eager-loaded navigation in the flat result. Columns of the
// related entity are named Path + "." + column.
type IncludeMapping struct {
	Path       string
	Table      string
	Key        []string
	Collection bool
}

// QueryCompiler defines the interface for query compilation.
type QueryCompiler interface {
	// Compile translates a query to SQL for one dialect.
	Compile(ctx context.Context, query *Query) (*CompiledQuery, error)
}

// QueryExecutor defines the interface for query execution.
type QueryExecutor interface {
	// Execute runs a compiled query and returns its rows.
	Execute(ctx context.Context, query *CompiledQuery) ([]map[string]interface{}, error)
}
