// Package schema holds the table, column and relation metadata the query compiler resolves
// navigation paths and projection shapes against.
package schema

import "fmt"

// ColumnType is the logical type of a column.
type ColumnType string

const (
	// Int is an integer column.
	Int ColumnType = "int"
	// String is a bounded character column.
	String ColumnType = "nvarchar"
	// FixedString is a fixed-width character column.
	FixedString ColumnType = "nchar"
	// Decimal is a money or numeric column.
	Decimal ColumnType = "decimal"
	// Bool is a flag column.
	Bool ColumnType = "bit"
)

// Column describes a stored column.
type Column struct {
	Name      string
	Type      ColumnType
	MaxLength int // 0 for types without a declared length
	Nullable  bool
}

// StoreType renders the declared store type, e.g. nvarchar(50).
func (c Column) StoreType() string {
	if c.MaxLength > 0 {
		return fmt.Sprintf("%s(%d)", c.Type, c.MaxLength)
	}
	return string(c.Type)
}

// Table describes a table and the relations that start from it.
type Table struct {
	Name      string
	Key       []string
	Columns   []Column
	Relations []Relation
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relation is a foreign-key directed navigation from one table to another.
//
// For a reference navigation FromColumns are the foreign key on the owning table and ToColumns
// the principal key. For a collection navigation FromColumns are the principal key and
// ToColumns the dependent foreign key.
type Relation struct {
	Name        string
	From        string
	To          string
	FromColumns []string
	ToColumns   []string
	Collection  bool
	Optional    bool
}
