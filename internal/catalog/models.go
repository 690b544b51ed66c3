package catalog

// ProductCategory is a top-level product category.
type ProductCategory struct {
	ProductCategoryID int
	Name              string
}

// ProductSubcategory belongs to a category and groups products.
type ProductSubcategory struct {
	ProductSubcategoryID int
	ProductCategoryID    int
	Name                 string
	ProductCategory      *ProductCategory
	Products             []Product
}

// Product is a sellable item. Class, Color and subcategory are optional.
type Product struct {
	ProductID            int
	Name                 string
	ProductNumber        string
	Class                *string
	Color                *string
	ListPrice            float64
	ProductSubcategoryID *int
	ProductSubcategory   *ProductSubcategory
}

// CountryRegion is a country or region.
type CountryRegion struct {
	CountryRegionCode string
	Name              string
}

// Address is a postal address.
type Address struct {
	AddressID       int
	AddressLine1    string
	City            string
	StateProvinceID int
	PostalCode      string
}

// NameCount is a name with a count.
type NameCount struct {
	Name  string
	Count int
}

// CategoryCount is a category with the product count of one of its subcategories.
type CategoryCount struct {
	ProductCategory *ProductCategory
	ProductCount    int
}

// VendorCount is a vendor id with the number of products it supplies.
type VendorCount struct {
	Key   int
	Count int
}

// VendorAccountCount is VendorCount with the vendor's account and name.
type VendorAccountCount struct {
	BusinessEntityID int
	AccountNumber    string
	Name             string
	Count            int
}

// ProductRow is a flat joined row of a product and its classification.
type ProductRow struct {
	Product     Product
	Subcategory *ProductSubcategory
	Category    *ProductCategory
}

// IDName is an id and a name from any table.
type IDName struct {
	ID   int
	Name string
}

// ProductClass is the containment projection of a product.
type ProductClass struct {
	ProductID     int
	Name          string
	Class         *string
	ProductNumber string
}
