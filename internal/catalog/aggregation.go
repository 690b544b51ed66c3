package catalog

import (
	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

func subcategoryCountsByNavigation() *domain.Query {
	return builder.From(schema.ProductSubcategory, "s").
		Select(builder.Field("s", "Name"), builder.As(builder.CountOf("s", "Products"), "Count")).
		OrderBy(builder.Col("s", "Name"), domain.Asc).
		GetQuery()
}

func subcategoryCountsByJoin() *domain.Query {
	return builder.From(schema.Product, "p").
		InnerJoin(schema.ProductSubcategory, "s", builder.Col("p", "ProductSubcategoryID"), builder.Col("s", "ProductSubcategoryID")).
		GroupBy(builder.Col("s", "Name")).
		Select(builder.Field("s", "Name"), builder.As(builder.CountAll(), "Count")).
		OrderBy(builder.Col("s", "Name"), domain.Asc).
		GetQuery()
}

func categoryProductCounts() *domain.Query {
	return builder.From(schema.ProductSubcategory, "s").
		Select(
			builder.As(builder.Ref("s", "ProductCategory"), "ProductCategory"),
			builder.As(builder.CountOf("s", "Products"), "ProductCount"),
		).
		OrderBy(builder.Col("s", "Name"), domain.Asc).
		GetQuery()
}

// vendorProductCounts groups vendor links by vendor. Callers add the having stage.
func vendorProductCounts() *builder.QueryBuilder {
	return builder.From(schema.ProductVendor, "p").
		GroupBy(builder.Col("p", "BusinessEntityID")).
		Select(builder.As(builder.Col("p", "BusinessEntityID"), "Key"), builder.As(builder.CountAll(), "Count"))
}

func vendorsWithMoreThanThreeProducts() *domain.Query {
	return vendorProductCounts().
		Having(builder.Gt(builder.CountAll(), 3)).
		OrderBy(builder.Col("p", "BusinessEntityID"), domain.Asc).
		OrderBy(builder.CountAll(), domain.Asc).
		GetQuery()
}

func vendorsGroupedByAccount() *domain.Query {
	return builder.From(schema.ProductVendor, "p").
		InnerJoin(schema.Vendor, "v", builder.Col("p", "BusinessEntityID"), builder.Col("v", "BusinessEntityID")).
		GroupBy(builder.Col("p", "BusinessEntityID"), builder.Col("v", "AccountNumber"), builder.Col("v", "Name")).
		Having(builder.Gt(builder.CountAll(), 3)).
		Select(builder.Field("p", "BusinessEntityID"), builder.Field("v", "AccountNumber"), builder.Field("v", "Name"), builder.As(builder.CountAll(), "Count")).
		OrderBy(builder.Col("v", "Name"), domain.Asc).
		OrderBy(builder.CountAll(), domain.Asc).
		GetQuery()
}

func aggregationEntries() []Entry {
	return []Entry{
		{
			Name:     "CountPerSubcategoryNavigation",
			Category: Aggregation,
			Summary:  "Subcategory names with the size of their Products navigation",
			Note: "Counting a collection navigation in a projection becomes a **correlated subquery** " +
				"evaluated once per subcategory row instead of a single grouped pass. " +
				"See `CountPerSubcategoryJoin` for the grouped form.",
			NoTracking: true,
			Plan:       single(subcategoryCountsByNavigation),
		},
		{
			Name:     "CountPerSubcategoryJoin",
			Category: Aggregation,
			Summary:  "Product count per subcategory name with an explicit join and GROUP BY",
			Note: "The explicit `INNER JOIN` plus `GROUP BY` aggregates in one pass. " +
				"This is the recommended form; subcategories without products do not appear.",
			Plan: single(subcategoryCountsByJoin),
		},
		{
			Name:     "CountPerCategoryReference",
			Category: Aggregation,
			Summary:  "Each subcategory's parent category with the subcategory's product count",
			Note: "Projecting the `ProductCategory` reference expands to every column of the " +
				"category through an implicit `INNER JOIN` (the relation is required). " +
				"The count is still a correlated subquery.",
			Plan: single(categoryProductCounts),
		},
		{
			Name:     "VendorsWithMoreThanThreeProducts",
			Category: Aggregation,
			Summary:  "Vendors linked to more than three products, by ascending count",
			Note: "`Where` filters rows before grouping and `Having` filters groups after it; " +
				"they are separate stages. The first ordering by key is replaced by the later " +
				"`OrderBy` on the count.",
			NoTracking: true,
			Plan:       single(vendorsWithMoreThanThreeProducts),
		},
		{
			Name:     "VendorsGroupedByAccount",
			Category: Aggregation,
			Summary:  "Vendors with more than three products grouped by id, account and name",
			Note: "A composite grouping key over both sides of an `INNER JOIN`. " +
				"Ordering by name and then calling `OrderBy` again keeps only the count ordering; " +
				"use `ThenBy` to append.",
			NoTracking: true,
			Plan:       single(vendorsGroupedByAccount),
		},
	}
}
