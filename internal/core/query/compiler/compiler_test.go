package compiler_test

import (
	"context"
	"testing"

	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/cache"
	"github.com/satishbabariya/querycatalog/internal/core/query/compiler"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registry = schema.AdventureWorks()

func compile(t *testing.T, d domain.SQLDialect, b *builder.QueryBuilder) *domain.CompiledQuery {
	t.Helper()
	compiled, err := compiler.NewSQLCompiler(d, registry).Compile(context.Background(), b.GetQuery())
	require.NoError(t, err)
	return compiled
}

func compileErr(t *testing.T, b *builder.QueryBuilder) error {
	t.Helper()
	compiled, err := compiler.NewSQLCompiler(domain.SQLite, registry).Compile(context.Background(), b.GetQuery())
	require.Error(t, err)
	assert.Nil(t, compiled)
	assert.True(t, domain.IsTranslationFailure(err), "expected translation failure, got %v", err)
	return err
}

func TestCompile_NavigationCountIsCorrelatedSubquery(t *testing.T) {
	q := builder.From(schema.ProductSubcategory, "s").
		Select(builder.Field("s", "Name"), builder.As(builder.CountOf("s", "Products"), "Count")).
		OrderBy(builder.Col("s", "Name"), domain.Asc)

	compiled := compile(t, domain.SQLite, q)

	assert.Equal(t,
		`SELECT "s"."Name", (SELECT COUNT(*) FROM "Product" AS "p" WHERE "s"."ProductSubcategoryID" = "p"."ProductSubcategoryID") AS "Count" FROM "ProductSubcategory" AS "s" ORDER BY "s"."Name" ASC`,
		compiled.SQL.Query)
	assert.Empty(t, compiled.SQL.Args)
	assert.Nil(t, compiled.Mapping.Key)
}

func TestCompile_JoinGroupBy(t *testing.T) {
	q := builder.From(schema.Product, "p").
		InnerJoin(schema.ProductSubcategory, "s", builder.Col("p", "ProductSubcategoryID"), builder.Col("s", "ProductSubcategoryID")).
		GroupBy(builder.Col("s", "Name")).
		Select(builder.Field("s", "Name"), builder.As(builder.CountAll(), "Count")).
		OrderBy(builder.Col("s", "Name"), domain.Asc)

	compiled := compile(t, domain.SQLite, q)

	assert.Equal(t,
		`SELECT "s"."Name", COUNT(*) AS "Count" FROM "Product" AS "p" INNER JOIN "ProductSubcategory" AS "s" ON "p"."ProductSubcategoryID" = "s"."ProductSubcategoryID" GROUP BY "s"."Name" ORDER BY "s"."Name" ASC`,
		compiled.SQL.Query)
}

func TestCompile_WhereAndHavingStages(t *testing.T) {
	q := builder.From(schema.ProductVendor, "p").
		Where(builder.Gt(builder.Col("p", "StandardPrice"), 1)).
		GroupBy(builder.Col("p", "BusinessEntityID")).
		Having(builder.Gt(builder.CountAll(), 3)).
		Select(builder.As(builder.Col("p", "BusinessEntityID"), "Key"), builder.As(builder.CountAll(), "Count")).
		OrderBy(builder.Col("p", "BusinessEntityID"), domain.Asc).
		OrderBy(builder.CountAll(), domain.Asc)

	compiled := compile(t, domain.PostgreSQL, q)

	assert.Equal(t,
		`SELECT "p"."BusinessEntityID" AS "Key", COUNT(*) AS "Count" FROM "ProductVendor" AS "p" WHERE "p"."StandardPrice" > $1 GROUP BY "p"."BusinessEntityID" HAVING COUNT(*) > $2 ORDER BY COUNT(*) ASC`,
		compiled.SQL.Query)
	assert.Equal(t, []interface{}{1, 3}, compiled.SQL.Args)
}

func TestCompile_EntityReferenceProjection(t *testing.T) {
	q := builder.From(schema.ProductSubcategory, "s").
		Select(
			builder.As(builder.Ref("s", "ProductCategory"), "ProductCategory"),
			builder.As(builder.CountOf("s", "Products"), "ProductCount"),
		)

	compiled := compile(t, domain.SQLite, q)

	assert.Equal(t,
		`SELECT "p"."ProductCategoryID" AS "ProductCategory.ProductCategoryID", "p"."Name" AS "ProductCategory.Name", (SELECT COUNT(*) FROM "Product" AS "p0" WHERE "s"."ProductSubcategoryID" = "p0"."ProductSubcategoryID") AS "ProductCount" FROM "ProductSubcategory" AS "s" INNER JOIN "ProductCategory" AS "p" ON "s"."ProductCategoryID" = "p"."ProductCategoryID"`,
		compiled.SQL.Query)
}

func TestCompile_ImplicitJoins(t *testing.T) {
	t.Run("required relation joins inner", func(t *testing.T) {
		q := builder.From(schema.Address, "a").
			Where(builder.Equals(builder.Col("a", "StateProvince.StateProvinceCode"), "WA"))

		compiled := compile(t, domain.SQLite, q)

		assert.Equal(t,
			`SELECT "a"."AddressID", "a"."AddressLine1", "a"."City", "a"."StateProvinceID", "a"."PostalCode" FROM "Address" AS "a" INNER JOIN "StateProvince" AS "s" ON "a"."StateProvinceID" = "s"."StateProvinceID" WHERE "s"."StateProvinceCode" = ?`,
			compiled.SQL.Query)
		assert.Equal(t, []interface{}{"WA"}, compiled.SQL.Args)
		assert.Equal(t, []string{"AddressID"}, compiled.Mapping.Key)
	})

	t.Run("optional relation and everything past it joins left", func(t *testing.T) {
		q := builder.From(schema.Product, "p").
			Select(builder.Field("p", "Name")).
			Where(builder.Equals(builder.Col("p", "ProductSubcategory.ProductCategory.Name"), "Bikes"))

		compiled := compile(t, domain.SQLite, q)

		assert.Equal(t,
			`SELECT "p"."Name" FROM "Product" AS "p" LEFT JOIN "ProductSubcategory" AS "p0" ON "p"."ProductSubcategoryID" = "p0"."ProductSubcategoryID" LEFT JOIN "ProductCategory" AS "p1" ON "p0"."ProductCategoryID" = "p1"."ProductCategoryID" WHERE "p1"."Name" = ?`,
			compiled.SQL.Query)
	})

	t.Run("navigation joined once", func(t *testing.T) {
		q := builder.From(schema.Address, "a").
			Select(builder.Field("a", "City"), builder.As(builder.Col("a", "StateProvince.Name"), "State")).
			Where(builder.Equals(builder.Col("a", "StateProvince.StateProvinceCode"), "WA"))

		compiled := compile(t, domain.SQLite, q)

		assert.Equal(t,
			`SELECT "a"."City", "s"."Name" AS "State" FROM "Address" AS "a" INNER JOIN "StateProvince" AS "s" ON "a"."StateProvinceID" = "s"."StateProvinceID" WHERE "s"."StateProvinceCode" = ?`,
			compiled.SQL.Query)
	})
}

func TestCompile_IncludeWithTakeUsesDerivedRoot(t *testing.T) {
	q := builder.From(schema.Product, "p").
		Include("ProductSubcategory.ProductCategory").
		OrderBy(builder.Col("p", "Name"), domain.Asc).
		Take(10)

	compiled := compile(t, domain.PostgreSQL, q)

	assert.Equal(t,
		`SELECT "t"."ProductID", "t"."Name", "t"."ProductNumber", "t"."Class", "t"."Color", "t"."ListPrice", "t"."ProductSubcategoryID", `+
			`"p0"."ProductSubcategoryID" AS "ProductSubcategory.ProductSubcategoryID", "p0"."ProductCategoryID" AS "ProductSubcategory.ProductCategoryID", "p0"."Name" AS "ProductSubcategory.Name", `+
			`"p1"."ProductCategoryID" AS "ProductSubcategory.ProductCategory.ProductCategoryID", "p1"."Name" AS "ProductSubcategory.ProductCategory.Name" `+
			`FROM (SELECT "p"."ProductID", "p"."Name", "p"."ProductNumber", "p"."Class", "p"."Color", "p"."ListPrice", "p"."ProductSubcategoryID" FROM "Product" AS "p" ORDER BY "p"."Name" ASC LIMIT $1) AS "t" `+
			`LEFT JOIN "ProductSubcategory" AS "p0" ON "t"."ProductSubcategoryID" = "p0"."ProductSubcategoryID" `+
			`LEFT JOIN "ProductCategory" AS "p1" ON "p0"."ProductCategoryID" = "p1"."ProductCategoryID" `+
			`ORDER BY "t"."Name" ASC`,
		compiled.SQL.Query)
	assert.Equal(t, []interface{}{10}, compiled.SQL.Args)

	require.Len(t, compiled.Mapping.Includes, 2)
	assert.Equal(t, domain.IncludeMapping{Path: "ProductSubcategory", Table: schema.ProductSubcategory, Key: []string{"ProductSubcategoryID"}}, compiled.Mapping.Includes[0])
	assert.Equal(t, "ProductSubcategory.ProductCategory", compiled.Mapping.Includes[1].Path)
	assert.Equal(t, []string{"ProductID"}, compiled.Mapping.Key)
}

func TestCompile_CollectionIncludeOrdersByRootKey(t *testing.T) {
	q := builder.From(schema.ProductSubcategory, "s").Include("Products")

	compiled := compile(t, domain.SQLite, q)

	assert.Contains(t, compiled.SQL.Query, `FROM "ProductSubcategory" AS "s" LEFT JOIN "Product" AS "p" ON "s"."ProductSubcategoryID" = "p"."ProductSubcategoryID"`)
	assert.Contains(t, compiled.SQL.Query, `"p"."Name" AS "Products.Name"`)
	assert.True(t, compiled.Mapping.Includes[0].Collection)
	assert.Regexp(t, `ORDER BY "s"."ProductSubcategoryID" ASC$`, compiled.SQL.Query)
}

func TestCompile_IncludeIgnoredWithProjection(t *testing.T) {
	q := builder.From(schema.Product, "p").
		Include("ProductSubcategory").
		Select(builder.Field("p", "Name"))

	compiled := compile(t, domain.SQLite, q)

	assert.Equal(t, `SELECT "p"."Name" FROM "Product" AS "p"`, compiled.SQL.Query)
	assert.Empty(t, compiled.Mapping.Includes)
}

func TestCompile_ExplicitJoinWithTake(t *testing.T) {
	q := builder.From(schema.Product, "p").
		LeftJoin(schema.ProductSubcategory, "s", builder.Col("p", "ProductSubcategoryID"), builder.Col("s", "ProductSubcategoryID")).
		InnerJoin(schema.ProductCategory, "c", builder.Col("s", "ProductCategoryID"), builder.Col("c", "ProductCategoryID")).
		Select(
			builder.As(builder.Row("p"), "Product"),
			builder.As(builder.Row("s"), "Subcategory"),
			builder.As(builder.Row("c"), "Category"),
		).
		Take(5)

	compiled := compile(t, domain.MySQL, q)

	assert.Contains(t, compiled.SQL.Query, "SELECT `p`.`ProductID` AS `Product.ProductID`, ")
	assert.Contains(t, compiled.SQL.Query, "FROM `Product` AS `p` LEFT JOIN `ProductSubcategory` AS `s` ON `p`.`ProductSubcategoryID` = `s`.`ProductSubcategoryID` INNER JOIN `ProductCategory` AS `c` ON `s`.`ProductCategoryID` = `c`.`ProductCategoryID` LIMIT ?")
	assert.NotContains(t, compiled.SQL.Query, "(SELECT")
	assert.Equal(t, []interface{}{5}, compiled.SQL.Args)
}

func TestCompile_SetOperations(t *testing.T) {
	regions := func(prefix string) *builder.QueryBuilder {
		return builder.From(schema.CountryRegion, "c").Where(builder.StartsWith(builder.Col("c", "Name"), prefix))
	}

	t.Run("union", func(t *testing.T) {
		compiled := compile(t, domain.SQLite, regions("C").Union(regions("P")))

		assert.Equal(t,
			`SELECT "c"."CountryRegionCode", "c"."Name" FROM "CountryRegion" AS "c" WHERE "c"."Name" LIKE ? ESCAPE '\' UNION SELECT "c0"."CountryRegionCode", "c0"."Name" FROM "CountryRegion" AS "c0" WHERE "c0"."Name" LIKE ? ESCAPE '\'`,
			compiled.SQL.Query)
		assert.Equal(t, []interface{}{"C%", "P%"}, compiled.SQL.Args)
		assert.Equal(t, []string{"CountryRegionCode"}, compiled.Mapping.Key)
	})

	t.Run("ordered and limited union all wraps the combined set", func(t *testing.T) {
		q := regions("C").UnionAll(regions("P")).OrderBy(builder.Output("Name"), domain.Desc).Take(3)
		compiled := compile(t, domain.MySQL, q)

		assert.Equal(t,
			"SELECT `u`.`CountryRegionCode`, `u`.`Name` FROM (SELECT `c`.`CountryRegionCode`, `c`.`Name` FROM `CountryRegion` AS `c` WHERE `c`.`Name` LIKE ? UNION ALL SELECT `c0`.`CountryRegionCode`, `c0`.`Name` FROM `CountryRegion` AS `c0` WHERE `c0`.`Name` LIKE ?) AS `u` ORDER BY `u`.`Name` DESC LIMIT ?",
			compiled.SQL.Query)
		assert.Equal(t, []interface{}{"C%", "P%", 3}, compiled.SQL.Args)
	})

	t.Run("same store types across tables", func(t *testing.T) {
		q := builder.From(schema.Vendor, "v").
			Select(builder.As(builder.Col("v", "BusinessEntityID"), "Id"), builder.Field("v", "Name")).
			Union(builder.From(schema.ShipMethod, "s").
				Select(builder.As(builder.Col("s", "ShipMethodID"), "Id"), builder.Field("s", "Name")))

		compiled := compile(t, domain.SQLite, q)
		assert.Equal(t,
			`SELECT "v"."BusinessEntityID" AS "Id", "v"."Name" FROM "Vendor" AS "v" UNION SELECT "s"."ShipMethodID" AS "Id", "s"."Name" FROM "ShipMethod" AS "s"`,
			compiled.SQL.Query)
		assert.Nil(t, compiled.Mapping.Key)
	})

	t.Run("different store types fail", func(t *testing.T) {
		q := builder.From(schema.ShipMethod, "s").
			Select(builder.Field("s", "ShipMethodID"), builder.Field("s", "Name")).
			Union(builder.From(schema.SpecialOffer, "s").
				Select(builder.Field("s", "SpecialOfferID"), builder.Field("s", "Description")))

		err := compileErr(t, q)
		assert.Contains(t, err.Error(), "nvarchar(50)")
		assert.Contains(t, err.Error(), "nvarchar(255)")
	})

	t.Run("different column counts fail", func(t *testing.T) {
		q := builder.From(schema.ShipMethod, "s").
			Select(builder.Field("s", "Name")).
			Union(builder.From(schema.Vendor, "v").Select(builder.Field("v", "Name"), builder.Field("v", "AccountNumber")))

		compileErr(t, q)
	})

	t.Run("ordered operand fails", func(t *testing.T) {
		q := regions("C").OrderBy(builder.Col("c", "Name"), domain.Asc).Union(regions("P"))
		compileErr(t, q)
	})

	t.Run("ordering must use output columns", func(t *testing.T) {
		q := regions("C").Union(regions("P")).OrderBy(builder.Col("c", "Name"), domain.Asc)
		compileErr(t, q)
	})
}

func TestCompile_Containment(t *testing.T) {
	top := func(b *builder.QueryBuilder) *builder.QueryBuilder {
		return b.Select(builder.Field("p", "ProductID"), builder.Field("p", "Name"), builder.Field("p", "Class"), builder.Field("p", "ProductNumber")).
			OrderBy(builder.Col("p", "Name"), domain.Asc).
			Take(10)
	}

	t.Run("literal list", func(t *testing.T) {
		q := top(builder.From(schema.Product, "p").Where(builder.In(builder.Col("p", "Class"), []string{"H", "M"})))
		compiled := compile(t, domain.SQLite, q)

		assert.Equal(t,
			`SELECT "p"."ProductID", "p"."Name", "p"."Class", "p"."ProductNumber" FROM "Product" AS "p" WHERE "p"."Class" IN (?, ?) ORDER BY "p"."Name" ASC LIMIT ?`,
			compiled.SQL.Query)
		assert.Equal(t, []interface{}{"H", "M", 10}, compiled.SQL.Args)
	})

	t.Run("empty list matches nothing", func(t *testing.T) {
		q := builder.From(schema.Product, "p").Select(builder.Field("p", "Name")).Where(builder.In(builder.Col("p", "Class"), []string{}))
		compiled := compile(t, domain.SQLite, q)
		assert.Equal(t, `SELECT "p"."Name" FROM "Product" AS "p" WHERE 1 = 0`, compiled.SQL.Query)
	})

	t.Run("subquery becomes correlated exists", func(t *testing.T) {
		classes := builder.From(schema.Product, "p").
			Select(builder.Field("p", "Class")).
			Distinct().
			Where(builder.IsNotNull(builder.Col("p", "Class")))
		q := top(builder.From(schema.Product, "p").Where(builder.In(builder.Col("p", "Class"), classes.GetQuery())))

		compiled := compile(t, domain.SQLite, q)

		assert.Equal(t,
			`SELECT "p"."ProductID", "p"."Name", "p"."Class", "p"."ProductNumber" FROM "Product" AS "p" WHERE EXISTS (SELECT DISTINCT 1 FROM "Product" AS "p0" WHERE "p0"."Class" IS NOT NULL AND "p0"."Class" = "p"."Class") ORDER BY "p"."Name" ASC LIMIT ?`,
			compiled.SQL.Query)
		assert.Equal(t, []interface{}{10}, compiled.SQL.Args)
	})

	t.Run("subquery must project one column", func(t *testing.T) {
		classes := builder.From(schema.Product, "p").Select(builder.Field("p", "Class"), builder.Field("p", "Name"))
		compileErr(t, builder.From(schema.Product, "p").Where(builder.In(builder.Col("p", "Class"), classes.GetQuery())))
	})
}

func TestCompile_Pagination(t *testing.T) {
	q := func() *builder.QueryBuilder {
		return builder.From(schema.ShipMethod, "s").Select(builder.Field("s", "Name")).Skip(2)
	}

	assert.Equal(t, `SELECT "s"."Name" FROM "ShipMethod" AS "s" LIMIT -1 OFFSET ?`, compile(t, domain.SQLite, q()).SQL.Query)
	assert.Equal(t, "SELECT `s`.`Name` FROM `ShipMethod` AS `s` LIMIT 18446744073709551615 OFFSET ?", compile(t, domain.MySQL, q()).SQL.Query)
	assert.Equal(t, `SELECT "s"."Name" FROM "ShipMethod" AS "s" OFFSET $1`, compile(t, domain.PostgreSQL, q()).SQL.Query)

	both := compile(t, domain.PostgreSQL, q().Take(2))
	assert.Equal(t, `SELECT "s"."Name" FROM "ShipMethod" AS "s" LIMIT $1 OFFSET $2`, both.SQL.Query)
	assert.Equal(t, []interface{}{2, 2}, both.SQL.Args)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    *builder.QueryBuilder
	}{
		{"unknown table", builder.From("Customer", "c")},
		{"unknown column", builder.From(schema.Product, "p").Where(builder.Equals(builder.Col("p", "Weight"), 1))},
		{"unknown alias", builder.From(schema.Product, "p").Where(builder.Equals(builder.Col("x", "Name"), "a"))},
		{"collection in column path", builder.From(schema.ProductSubcategory, "s").Where(builder.Equals(builder.Col("s", "Products.Name"), "a"))},
		{"count of reference", builder.From(schema.Product, "p").Select(builder.As(builder.CountOf("p", "ProductSubcategory"), "n"))},
		{"unnamed aggregate", builder.From(schema.Product, "p").Select(builder.As(builder.CountAll(), ""))},
		{"entity as scalar", builder.From(schema.Product, "p").Where(builder.Equals(builder.Row("p"), 1))},
		{"in requires slice", builder.From(schema.Product, "p").Where(builder.In(builder.Col("p", "Class"), "H"))},
		{"bad direction", builder.From(schema.Product, "p").OrderBy(builder.Col("p", "Name"), "sideways")},
		{"paged include ordered by navigation", builder.From(schema.Product, "p").Include("ProductSubcategory").OrderBy(builder.Col("p", "ProductSubcategory.Name"), domain.Asc).Take(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compileErr(t, tt.q)
		})
	}

	_, err := compiler.NewSQLCompiler(domain.SQLite, registry).Compile(context.Background(), nil)
	assert.True(t, domain.IsTranslationFailure(err))
}

func TestCached(t *testing.T) {
	c := compiler.NewCached(compiler.NewSQLCompiler(domain.SQLite, registry), cache.NewLRUCache(8, 0))
	q := func() *domain.Query {
		return builder.From(schema.ShipMethod, "s").OrderBy(builder.Col("s", "Name"), domain.Asc).GetQuery()
	}

	first, err := c.Compile(context.Background(), q())
	require.NoError(t, err)
	second, err := c.Compile(context.Background(), q())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), c.Stats().Hits)
	assert.Equal(t, int64(1), c.Stats().Misses)
	assert.Equal(t, cache.Key(domain.SQLite, schema.ShipMethod, domain.Fingerprint(q())), first.CacheKey)

	_, err = c.Compile(context.Background(), builder.From("Customer", "c").GetQuery())
	assert.True(t, domain.IsTranslationFailure(err))
	assert.Equal(t, 1, c.Stats().Size)
}

func TestCached_ListValuesAreDistinctKeys(t *testing.T) {
	c := compiler.NewCached(compiler.NewSQLCompiler(domain.SQLite, registry), cache.NewLRUCache(8, 0))
	classes := func(values []string) *domain.Query {
		return builder.From(schema.Product, "p").
			Select(builder.Field("p", "Name")).
			Where(builder.In(builder.Col("p", "Class"), values)).
			GetQuery()
	}

	joined, err := c.Compile(context.Background(), classes([]string{"H M"}))
	require.NoError(t, err)
	split, err := c.Compile(context.Background(), classes([]string{"H", "M"}))
	require.NoError(t, err)

	assert.NotEqual(t, joined.CacheKey, split.CacheKey)
	assert.Equal(t, `SELECT "p"."Name" FROM "Product" AS "p" WHERE "p"."Class" IN (?)`, joined.SQL.Query)
	assert.Equal(t, `SELECT "p"."Name" FROM "Product" AS "p" WHERE "p"."Class" IN (?, ?)`, split.SQL.Query)
	assert.Equal(t, []interface{}{"H", "M"}, split.SQL.Args)
	assert.Equal(t, int64(0), c.Stats().Hits)
	assert.Equal(t, int64(2), c.Stats().Misses)
}

func TestCompile_LikePatternsAreEscaped(t *testing.T) {
	names := func(c domain.Condition) *builder.QueryBuilder {
		return builder.From(schema.CountryRegion, "c").Select(builder.Field("c", "Name")).Where(c)
	}

	tests := []struct {
		name string
		cond domain.Condition
		want string
	}{
		{"starts with", builder.StartsWith(builder.Col("c", "Name"), "C_"), `C\_%`},
		{"contains", builder.Contains(builder.Col("c", "Name"), "50%"), `%50\%%`},
		{"ends with", builder.EndsWith(builder.Col("c", "Name"), `a\b`), `%a\\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := compile(t, domain.SQLite, names(tt.cond))
			assert.Equal(t, `SELECT "c"."Name" FROM "CountryRegion" AS "c" WHERE "c"."Name" LIKE ? ESCAPE '\'`, compiled.SQL.Query)
			assert.Equal(t, []interface{}{tt.want}, compiled.SQL.Args)
		})
	}

	compiled := compile(t, domain.MySQL, names(builder.StartsWith(builder.Col("c", "Name"), "C_")))
	assert.Equal(t, "SELECT `c`.`Name` FROM `CountryRegion` AS `c` WHERE `c`.`Name` LIKE ?", compiled.SQL.Query)
	assert.Equal(t, []interface{}{`C\_%`}, compiled.SQL.Args)
}

func TestCompile_NotInSubqueryRejected(t *testing.T) {
	classes := builder.From(schema.Product, "p").
		Select(builder.Field("p", "Class")).
		Where(builder.IsNotNull(builder.Col("p", "Class")))
	q := builder.From(schema.Product, "p").Where(builder.NotIn(builder.Col("p", "Class"), classes.GetQuery()))

	err := compileErr(t, q)
	assert.Contains(t, err.Error(), "NOT IN with a subquery")

	literal := compile(t, domain.SQLite, builder.From(schema.Product, "p").
		Select(builder.Field("p", "Name")).
		Where(builder.NotIn(builder.Col("p", "Class"), []string{"H"})))
	assert.Equal(t, `SELECT "p"."Name" FROM "Product" AS "p" WHERE "p"."Class" NOT IN (?)`, literal.SQL.Query)
}
