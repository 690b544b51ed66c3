package catalog

import (
	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
)

func regionsStartingWith(prefix string) *builder.QueryBuilder {
	return builder.From(schema.CountryRegion, "c").
		Where(builder.StartsWith(builder.Col("c", "Name"), prefix))
}

func countryRegionsUnion() *domain.Query {
	return regionsStartingWith("C").
		Union(regionsStartingWith("P")).
		OrderBy(builder.Output("Name"), domain.Asc).
		GetQuery()
}

func countryRegionsConcat() *domain.Query {
	return regionsStartingWith("C").
		UnionAll(regionsStartingWith("P")).
		OrderBy(builder.Output("Name"), domain.Asc).
		GetQuery()
}

func vendorAndShipMethodNames() *domain.Query {
	vendors := builder.From(schema.Vendor, "v").
		Select(builder.As(builder.Col("v", "BusinessEntityID"), "ID"), builder.Field("v", "Name"))
	methods := builder.From(schema.ShipMethod, "s").
		Select(builder.As(builder.Col("s", "ShipMethodID"), "ID"), builder.Field("s", "Name"))

	return vendors.Union(methods).
		OrderBy(builder.Output("Name"), domain.Asc).
		GetQuery()
}

func shipMethodsAndOffers() *domain.Query {
	methods := builder.From(schema.ShipMethod, "s").
		Select(builder.As(builder.Col("s", "ShipMethodID"), "ID"), builder.Field("s", "Name"))
	offers := builder.From(schema.SpecialOffer, "o").
		Select(builder.As(builder.Col("o", "SpecialOfferID"), "ID"), builder.As(builder.Col("o", "Description"), "Name"))

	return methods.Union(offers).GetQuery()
}

func setEntries() []Entry {
	return []Entry{
		{
			Name:     "CountryRegionsUnion",
			Category: Set,
			Summary:  "Country regions named C% or P%, without duplicates",
			Note: "`UNION` removes duplicates. Ordering the combined set wraps it in an outer " +
				"query; the operands themselves cannot be ordered or paginated.",
			Plan: single(countryRegionsUnion),
		},
		{
			Name:     "CountryRegionsConcat",
			Category: Set,
			Summary:  "Country regions named C% or P%, keeping duplicates",
			Note:     "`UNION ALL` keeps every row of both operands.",
			Plan:     single(countryRegionsConcat),
		},
		{
			Name:     "VendorAndShipMethodNames",
			Category: Set,
			Summary:  "Vendor and ship method ids and names in one list",
			Note: "Operands from different tables combine when their columns line up with the " +
				"same store types: both names are `nvarchar(50)`.",
			Plan: single(vendorAndShipMethodNames),
		},
		{
			Name:     "UnionDifferentStoreTypes",
			Category: Set,
			Summary:  "Ship methods combined with special offers",
			Note: "Known not to work: `ShipMethod.Name` is `nvarchar(50)` and " +
				"`SpecialOffer.Description` is `nvarchar(255)`, so translation fails before " +
				"anything is sent to the database.",
			KnownFailure: true,
			Plan:         single(shipMethodsAndOffers),
		},
	}
}
