package schema

// Table names of the sample commerce schema.
const (
	ProductCategory    = "ProductCategory"
	ProductSubcategory = "ProductSubcategory"
	Product            = "Product"
	Vendor             = "Vendor"
	ProductVendor      = "ProductVendor"
	CountryRegion      = "CountryRegion"
	StateProvince      = "StateProvince"
	Address            = "Address"
	ShipMethod         = "ShipMethod"
	SpecialOffer       = "SpecialOffer"
)

func key(name string) Column { return Column{Name: name, Type: Int} }

func str(name string, n int) Column { return Column{Name: name, Type: String, MaxLength: n} }

func nullable(c Column) Column {
	c.Nullable = true
	return c
}

func reference(name, from, to, fk, pk string, optional bool) Relation {
	return Relation{Name: name, From: from, To: to, FromColumns: []string{fk}, ToColumns: []string{pk}, Optional: optional}
}

func collection(name, from, to, pk, fk string) Relation {
	return Relation{Name: name, From: from, To: to, FromColumns: []string{pk}, ToColumns: []string{fk}, Collection: true, Optional: true}
}

// AdventureWorks returns the registry for the Production, Purchasing and Person tables the
// catalog queries. It panics if the built-in definitions are inconsistent.
func AdventureWorks() *Registry {
	tables := []Table{
		{
			Name:    ProductCategory,
			Key:     []string{"ProductCategoryID"},
			Columns: []Column{key("ProductCategoryID"), str("Name", 50)},
			Relations: []Relation{
				collection("ProductSubcategories", ProductCategory, ProductSubcategory, "ProductCategoryID", "ProductCategoryID"),
			},
		},
		{
			Name:    ProductSubcategory,
			Key:     []string{"ProductSubcategoryID"},
			Columns: []Column{key("ProductSubcategoryID"), key("ProductCategoryID"), str("Name", 50)},
			Relations: []Relation{
				reference("ProductCategory", ProductSubcategory, ProductCategory, "ProductCategoryID", "ProductCategoryID", false),
				collection("Products", ProductSubcategory, Product, "ProductSubcategoryID", "ProductSubcategoryID"),
			},
		},
		{
			Name: Product,
			Key:  []string{"ProductID"},
			Columns: []Column{
				key("ProductID"),
				str("Name", 50),
				str("ProductNumber", 25),
				nullable(Column{Name: "Class", Type: FixedString, MaxLength: 2}),
				nullable(str("Color", 15)),
				{Name: "ListPrice", Type: Decimal},
				nullable(key("ProductSubcategoryID")),
			},
			Relations: []Relation{
				reference("ProductSubcategory", Product, ProductSubcategory, "ProductSubcategoryID", "ProductSubcategoryID", true),
				collection("ProductVendors", Product, ProductVendor, "ProductID", "ProductID"),
			},
		},
		{
			Name:    Vendor,
			Key:     []string{"BusinessEntityID"},
			Columns: []Column{key("BusinessEntityID"), str("AccountNumber", 15), str("Name", 50)},
			Relations: []Relation{
				collection("ProductVendors", Vendor, ProductVendor, "BusinessEntityID", "BusinessEntityID"),
			},
		},
		{
			Name:    ProductVendor,
			Key:     []string{"ProductID", "BusinessEntityID"},
			Columns: []Column{key("ProductID"), key("BusinessEntityID"), {Name: "StandardPrice", Type: Decimal}},
			Relations: []Relation{
				reference("Product", ProductVendor, Product, "ProductID", "ProductID", false),
				reference("Vendor", ProductVendor, Vendor, "BusinessEntityID", "BusinessEntityID", false),
			},
		},
		{
			Name:    CountryRegion,
			Key:     []string{"CountryRegionCode"},
			Columns: []Column{str("CountryRegionCode", 3), str("Name", 50)},
			Relations: []Relation{
				collection("StateProvinces", CountryRegion, StateProvince, "CountryRegionCode", "CountryRegionCode"),
			},
		},
		{
			Name: StateProvince,
			Key:  []string{"StateProvinceID"},
			Columns: []Column{
				key("StateProvinceID"),
				{Name: "StateProvinceCode", Type: FixedString, MaxLength: 3},
				str("CountryRegionCode", 3),
				str("Name", 50),
			},
			Relations: []Relation{
				reference("CountryRegion", StateProvince, CountryRegion, "CountryRegionCode", "CountryRegionCode", false),
				collection("Addresses", StateProvince, Address, "StateProvinceID", "StateProvinceID"),
			},
		},
		{
			Name: Address,
			Key:  []string{"AddressID"},
			Columns: []Column{
				key("AddressID"),
				str("AddressLine1", 60),
				str("City", 30),
				key("StateProvinceID"),
				str("PostalCode", 15),
			},
			Relations: []Relation{
				reference("StateProvince", Address, StateProvince, "StateProvinceID", "StateProvinceID", false),
			},
		},
		{
			Name:    ShipMethod,
			Key:     []string{"ShipMethodID"},
			Columns: []Column{key("ShipMethodID"), str("Name", 50)},
		},
		{
			Name:    SpecialOffer,
			Key:     []string{"SpecialOfferID"},
			Columns: []Column{key("SpecialOfferID"), str("Description", 255)},
		},
	}

	r := NewRegistry()
	for _, t := range tables {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}
