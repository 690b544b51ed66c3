package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	ProductCategoryID int
	Name              string
}

type subcategory struct {
	ProductSubcategoryID int
	Name                 string
	ProductCategory      *category
	Products             []product
}

type product struct {
	ID                 int64   `db:"ProductID"`
	Name               string  `json:"name,omitempty"`
	Class              *string `db:"Class"`
	ListPrice          float64
	ProductSubcategory *subcategory
	Ignored            string `db:"-"`
}

func TestMapToStruct(t *testing.T) {
	m := NewResultMapper()
	row := map[string]interface{}{
		"ProductID": int64(3),
		"Name":      "Mountain-100 Silver, 38",
		"Class":     "H",
		"ListPrice": "3399.99",
		"ProductSubcategory": map[string]interface{}{
			"ProductSubcategoryID": int64(1),
			"Name":                 "Mountain Bikes",
			"ProductCategory": map[string]interface{}{
				"ProductCategoryID": int64(1),
				"Name":              "Bikes",
			},
		},
		"Ignored": "x",
	}

	var p product
	require.NoError(t, m.MapToStruct(row, &p))

	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Mountain-100 Silver, 38", p.Name)
	require.NotNil(t, p.Class)
	assert.Equal(t, "H", *p.Class)
	assert.InDelta(t, 3399.99, p.ListPrice, 0.0001)
	require.NotNil(t, p.ProductSubcategory)
	assert.Equal(t, "Mountain Bikes", p.ProductSubcategory.Name)
	require.NotNil(t, p.ProductSubcategory.ProductCategory)
	assert.Equal(t, 1, p.ProductSubcategory.ProductCategory.ProductCategoryID)
	assert.Empty(t, p.Ignored)
}

func TestMapToStruct_NullsAndCollections(t *testing.T) {
	m := NewResultMapper()
	row := map[string]interface{}{
		"ProductSubcategoryID": int64(3),
		"Name":                 "Handlebars",
		"ProductCategory":      nil,
		"Products": []map[string]interface{}{
			{"ProductID": int64(8), "Name": "HL Mountain Handlebars", "Class": nil},
			{"ProductID": int64(9), "Name": "ML Road Handlebars", "Class": "M"},
		},
	}

	var s subcategory
	require.NoError(t, m.MapToStruct(row, &s))

	assert.Nil(t, s.ProductCategory)
	require.Len(t, s.Products, 2)
	assert.Nil(t, s.Products[0].Class)
	assert.Equal(t, "M", *s.Products[1].Class)
}

func TestMapToStructSlice(t *testing.T) {
	m := NewResultMapper()
	rows := []map[string]interface{}{
		{"name": "Bikes", "productcategoryid": int64(1)},
		{"Name": "Components", "ProductCategoryID": "2"},
	}

	var values []category
	require.NoError(t, m.MapToStructSlice(rows, &values))
	assert.Equal(t, []category{{1, "Bikes"}, {2, "Components"}}, values)

	var pointers []*category
	require.NoError(t, m.MapToStructSlice(rows, &pointers))
	require.Len(t, pointers, 2)
	assert.Equal(t, "Components", pointers[1].Name)
}

func TestMapErrors(t *testing.T) {
	m := NewResultMapper()

	var c category
	assert.Error(t, m.MapToStruct(map[string]interface{}{}, c))
	assert.Error(t, m.MapToStructSlice(nil, &c))
	assert.Error(t, m.MapToStruct(map[string]interface{}{"ProductCategoryID": "one"}, &c))

	var ints []int
	assert.Error(t, m.MapToStructSlice([]map[string]interface{}{{}}, &ints))
}
