package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("Register and GetTable", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Table{
			Name:    "Widget",
			Key:     []string{"WidgetID"},
			Columns: []Column{key("WidgetID"), str("Label", 20)},
		}))

		w, err := r.GetTable("Widget")
		require.NoError(t, err)
		assert.Equal(t, "Widget", w.Name)
		assert.Len(t, w.Columns, 2)

		_, err = r.GetTable("Gadget")
		assert.Error(t, err)
	})

	t.Run("Register rejects unknown key column", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Table{Name: "Widget", Key: []string{"ID"}, Columns: []Column{str("Label", 20)}})
		assert.Error(t, err)
	})

	t.Run("Validate rejects dangling relation", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Table{
			Name:      "Widget",
			Key:       []string{"WidgetID"},
			Columns:   []Column{key("WidgetID"), key("GadgetID")},
			Relations: []Relation{reference("Gadget", "Widget", "Gadget", "GadgetID", "GadgetID", false)},
		}))
		assert.Error(t, r.Validate())
	})
}

func TestAdventureWorks(t *testing.T) {
	r := AdventureWorks()

	assert.Len(t, r.Tables(), 10)

	t.Run("optional subcategory on product", func(t *testing.T) {
		rel, err := r.GetRelation(Product, "ProductSubcategory")
		require.NoError(t, err)
		assert.True(t, rel.Optional)
		assert.False(t, rel.Collection)
		assert.Equal(t, ProductSubcategory, rel.To)
	})

	t.Run("products collection on subcategory", func(t *testing.T) {
		rel, err := r.GetRelation(ProductSubcategory, "Products")
		require.NoError(t, err)
		assert.True(t, rel.Collection)
		assert.Equal(t, []string{"ProductSubcategoryID"}, rel.FromColumns)
	})

	t.Run("text columns keep declared lengths", func(t *testing.T) {
		name, err := r.GetColumn(ShipMethod, "Name")
		require.NoError(t, err)
		desc, err := r.GetColumn(SpecialOffer, "Description")
		require.NoError(t, err)

		assert.Equal(t, "nvarchar(50)", name.StoreType())
		assert.Equal(t, "nvarchar(255)", desc.StoreType())
	})

	t.Run("unknown relation", func(t *testing.T) {
		_, err := r.GetRelation(Address, "Country")
		assert.Error(t, err)
	})
}
