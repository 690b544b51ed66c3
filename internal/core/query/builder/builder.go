// Package builder implements the query builder.
package builder

import (
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// QueryBuilder constructs a domain.Query fluently.
type QueryBuilder struct {
	query *domain.Query
}

// From creates a new query builder rooted at table, referred to by alias.
func From(table, alias string) *QueryBuilder {
	return &QueryBuilder{
		query: &domain.Query{
			Source: domain.Source{Table: table, Alias: alias},
			Filter: domain.Filter{
				Conditions: []domain.Condition{},
				Operator:   domain.AND,
			},
			Having: domain.Filter{
				Conditions: []domain.Condition{},
				Operator:   domain.AND,
			},
		},
	}
}

// Join adds an explicit join on left = right.
func (b *QueryBuilder) Join(typ domain.JoinType, table, alias string, left, right domain.Column) *QueryBuilder {
	b.query.Joins = append(b.query.Joins, domain.Join{
		Type:  typ,
		Table: table,
		Alias: alias,
		Left:  left,
		Right: right,
	})
	return b
}

// InnerJoin adds an explicit inner join.
func (b *QueryBuilder) InnerJoin(table, alias string, left, right domain.Column) *QueryBuilder {
	return b.Join(domain.InnerJoin, table, alias, left, right)
}

// LeftJoin adds an explicit left outer join.
func (b *QueryBuilder) LeftJoin(table, alias string, left, right domain.Column) *QueryBuilder {
	return b.Join(domain.LeftJoin, table, alias, left, right)
}

// Select sets the projection. Without one, every column of the root is selected.
func (b *QueryBuilder) Select(projections ...domain.Projection) *QueryBuilder {
	b.query.Projection = projections
	return b
}

// Distinct removes duplicate rows from the result.
func (b *QueryBuilder) Distinct() *QueryBuilder {
	b.query.Distinct = true
	return b
}

// Where adds filter conditions applied before grouping.
func (b *QueryBuilder) Where(conditions ...domain.Condition) *QueryBuilder {
	b.query.Filter.Conditions = append(b.query.Filter.Conditions, conditions...)
	return b
}

// WhereAny adds a group of conditions of which at least one must hold.
func (b *QueryBuilder) WhereAny(conditions ...domain.Condition) *QueryBuilder {
	b.query.Filter.NestedFilters = append(b.query.Filter.NestedFilters, domain.Filter{
		Conditions: conditions,
		Operator:   domain.OR,
	})
	return b
}

// GroupBy sets the grouping key.
func (b *QueryBuilder) GroupBy(exprs ...domain.Expr) *QueryBuilder {
	b.query.GroupBy = exprs
	return b
}

// Having adds conditions applied after aggregation.
func (b *QueryBuilder) Having(conditions ...domain.Condition) *QueryBuilder {
	b.query.Having.Conditions = append(b.query.Having.Conditions, conditions...)
	return b
}

// OrderBy replaces any existing ordering.
func (b *QueryBuilder) OrderBy(expr domain.Expr, direction domain.SortDirection) *QueryBuilder {
	b.query.Ordering = []domain.OrderBy{{Expr: expr, Direction: direction}}
	return b
}

// ThenBy appends a secondary ordering.
func (b *QueryBuilder) ThenBy(expr domain.Expr, direction domain.SortDirection) *QueryBuilder {
	b.query.Ordering = append(b.query.Ordering, domain.OrderBy{Expr: expr, Direction: direction})
	return b
}

// Skip sets the number of records to skip.
func (b *QueryBuilder) Skip(skip int) *QueryBuilder {
	b.query.Pagination.Skip = &skip
	return b
}

// Take sets the number of records to take.
func (b *QueryBuilder) Take(take int) *QueryBuilder {
	b.query.Pagination.Take = &take
	return b
}

// Include eager loads a navigation path such as "ProductSubcategory.ProductCategory". Every
// segment of the path is loaded; paths sharing a prefix are merged.
func (b *QueryBuilder) Include(paths ...string) *QueryBuilder {
	for _, path := range paths {
		b.query.Includes = mergeInclude(b.query.Includes, strings.Split(path, "."))
	}
	return b
}

func mergeInclude(includes []domain.RelationInclusion, segments []string) []domain.RelationInclusion {
	if len(segments) == 0 || segments[0] == "" {
		return includes
	}
	for i := range includes {
		if includes[i].Relation == segments[0] {
			includes[i].Nested = mergeInclude(includes[i].Nested, segments[1:])
			return includes
		}
	}
	return append(includes, domain.RelationInclusion{
		Relation: segments[0],
		Nested:   mergeInclude(nil, segments[1:]),
	})
}

// Union combines this query with other, removing duplicates. Ordering and pagination added to
// the returned builder apply to the combined set.
func (b *QueryBuilder) Union(other *QueryBuilder) *QueryBuilder {
	return b.combine(domain.Union, other)
}

// UnionAll combines this query with other, keeping duplicates.
func (b *QueryBuilder) UnionAll(other *QueryBuilder) *QueryBuilder {
	return b.combine(domain.UnionAll, other)
}

func (b *QueryBuilder) combine(kind domain.SetKind, other *QueryBuilder) *QueryBuilder {
	return &QueryBuilder{
		query: &domain.Query{
			SetOperation: &domain.SetOperation{
				Kind:  kind,
				Left:  b.query,
				Right: other.query,
			},
		},
	}
}

// GetQuery returns the built query.
func (b *QueryBuilder) GetQuery() *domain.Query {
	return b.query
}
