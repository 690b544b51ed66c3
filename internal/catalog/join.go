package catalog

import (
	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

func productsWithCategory() *builder.QueryBuilder {
	return builder.From(schema.Product, "p").
		Include("ProductSubcategory.ProductCategory").
		OrderBy(builder.Col("p", "ProductID"), domain.Asc)
}

func subcategoriesWithProducts(n int) *domain.Query {
	return builder.From(schema.ProductSubcategory, "s").
		Include("Products").
		OrderBy(builder.Col("s", "Name"), domain.Asc).
		Take(n).
		GetQuery()
}

func subcategoriesWithCategory(n int) *domain.Query {
	return builder.From(schema.ProductSubcategory, "s").
		Include("ProductCategory").
		OrderBy(builder.Col("s", "ProductSubcategoryID"), domain.Asc).
		Take(n).
		GetQuery()
}

// productsJoinedToCategory is the hand-written equivalent of the include: a left join to the
// optional subcategory followed by an inner join to its category.
func productsJoinedToCategory() *builder.QueryBuilder {
	return builder.From(schema.Product, "p").
		LeftJoin(schema.ProductSubcategory, "s", builder.Col("p", "ProductSubcategoryID"), builder.Col("s", "ProductSubcategoryID")).
		InnerJoin(schema.ProductCategory, "c", builder.Col("s", "ProductCategoryID"), builder.Col("c", "ProductCategoryID")).
		Select(
			builder.As(builder.Row("p"), "Product"),
			builder.As(builder.Row("s"), "Subcategory"),
			builder.As(builder.Row("c"), "Category"),
		).
		OrderBy(builder.Col("p", "ProductID"), domain.Asc)
}

func addressesInState(code string) *domain.Query {
	return builder.From(schema.Address, "a").
		Where(builder.Equals(builder.Col("a", "StateProvince.StateProvinceCode"), code)).
		OrderBy(builder.Col("a", "AddressID"), domain.Asc).
		GetQuery()
}

func joinEntries(opts Options) []Entry {
	includeTop := opts.top(5)
	subcategoryTop := opts.top(3)
	categoryTop := opts.top(2)
	joinTop := opts.top(10)
	state := opts.state()

	return []Entry{
		{
			Name:     "ProductsWithCategoryInclude",
			Category: Join,
			Summary:  "Products with their subcategory and category eager loaded",
			Note: "`Include` picks the join type from the relation: the optional subcategory is " +
				"`LEFT JOIN`ed and so is the category hanging off it, so products without a " +
				"subcategory come back with nil related entities.",
			NoTracking: true,
			Plan:       single(func() *domain.Query { return productsWithCategory().GetQuery() }),
		},
		{
			Name:     "ProductsWithCategoryIncludeTop",
			Category: Join,
			Summary:  "The first products by id with subcategory and category eager loaded",
			Note: "With `Take` the root is limited inside a derived table before the includes are " +
				"joined, which keeps the number of roots right but produces a subquery. " +
				"`ProductsWithCategoryJoinTop` gives a flat statement.",
			NoTracking: true,
			Plan:       single(func() *domain.Query { return productsWithCategory().Take(includeTop).GetQuery() }),
		},
		{
			Name:     "SubcategoriesWithProductsTop",
			Category: Join,
			Summary:  "The first subcategories by name with their products",
			Note: "A collection include multiplies rows per subcategory. Limiting the derived root " +
				"table returns exactly the requested number of subcategories; the outer query is " +
				"ordered by the root key so a subcategory's rows stay together.",
			Plan: single(func() *domain.Query { return subcategoriesWithProducts(subcategoryTop) }),
		},
		{
			Name:       "SubcategoriesWithCategoryTop",
			Category:   Join,
			Summary:    "The first subcategories with their category",
			Note:       "A required reference include is an `INNER JOIN` onto the limited root.",
			NoTracking: true,
			Plan:       single(func() *domain.Query { return subcategoriesWithCategory(categoryTop) }),
		},
		{
			Name:     "ProductsWithCategoryJoin",
			Category: Join,
			Summary:  "Products, subcategories and categories as flat joined rows",
			Note: "Explicit joins return one flat row of correlated entities per product. " +
				"The `INNER JOIN` to the category removes products without a subcategory.",
			Plan: single(func() *domain.Query { return productsJoinedToCategory().GetQuery() }),
		},
		{
			Name:     "ProductsWithCategoryJoinTop",
			Category: Join,
			Summary:  "The first flat joined product rows",
			Note:     "The recommended form for limited flat results: a plain `LIMIT` with no derived table.",
			Plan:     single(func() *domain.Query { return productsJoinedToCategory().Take(joinTop).GetQuery() }),
		},
		{
			Name:     "AddressesInState",
			Category: Join,
			Summary:  "Addresses filtered by their state or province code",
			Note: "A relationship path inside a predicate (`StateProvince.StateProvinceCode`) " +
				"becomes an implicit `INNER JOIN`.",
			Plan: single(func() *domain.Query { return addressesInState(state) }),
		},
	}
}
