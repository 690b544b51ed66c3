package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/session"
)

// topProducts is the shared shape of the containment entries: the first ten products by name
// projected to id, name, class and number.
func topProducts(where domain.Condition) *domain.Query {
	return builder.From(schema.Product, "p").
		Where(where).
		Select(builder.Field("p", "ProductID"), builder.Field("p", "Name"), builder.Field("p", "Class"), builder.Field("p", "ProductNumber")).
		OrderBy(builder.Col("p", "Name"), domain.Asc).
		Take(10).
		GetQuery()
}

func productsInClasses(classes []string) *domain.Query {
	return topProducts(builder.In(builder.Col("p", "Class"), classes))
}

func distinctClasses() *domain.Query {
	return builder.From(schema.Product, "p").
		Where(builder.IsNotNull(builder.Col("p", "Class"))).
		Select(builder.Field("p", "Class")).
		Distinct().
		GetQuery()
}

func productsInClassSubquery() *domain.Query {
	return topProducts(builder.In(builder.Col("p", "Class"), distinctClasses()))
}

// materializedClasses reads the distinct classes first and filters by the resulting list in a
// second statement.
func materializedClasses(ctx context.Context, s *session.Session) ([]map[string]interface{}, error) {
	rows, err := s.Query(ctx, distinctClasses())
	if err != nil {
		return nil, err
	}

	classes := make([]string, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, fmt.Sprint(row["Class"]))
	}
	sort.Strings(classes)

	return s.Query(ctx, productsInClasses(classes))
}

func containmentEntries(opts Options) []Entry {
	classes := opts.classes()

	return []Entry{
		{
			Name:     "ProductsInClassList",
			Category: Containment,
			Summary:  "Top ten products by name whose class is in a literal list",
			Note:     "A literal list becomes `IN (?, ?)` with one parameter per value.",
			Plan:     single(func() *domain.Query { return productsInClasses(classes) }),
		},
		{
			Name:     "ProductsInMaterializedClasses",
			Category: Containment,
			Summary:  "Top ten products whose class is one of the classes read beforehand",
			Note: "Materializing the distinct classes first costs **two round trips**; the second " +
				"statement is the same `IN` list filter. The plan shows it with the classes " +
				"`H` and `M`.",
			Plan: func() []*domain.Query {
				return []*domain.Query{distinctClasses(), productsInClasses([]string{"H", "M"})}
			},
			run: materializedClasses,
		},
		{
			Name:     "ProductsInClassSubquery",
			Category: Containment,
			Summary:  "Top ten products whose class appears in an unmaterialized subquery",
			Note: "Reusing the unmaterialized subquery inside the predicate gives one round trip: " +
				"the containment is rewritten to a correlated `EXISTS (SELECT DISTINCT 1 ...)`.",
			Plan: single(productsInClassSubquery),
		},
	}
}
