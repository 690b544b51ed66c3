package schema

import (
	"fmt"
	"sync"
)

// Registry stores queryable schema metadata for use by the compiler.
// It provides fast lookup of tables, columns and relations.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register adds a table. Registering the same name twice replaces the earlier definition.
func (r *Registry) Register(table Table) error {
	if table.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(table.Key) == 0 {
		return fmt.Errorf("table %s has no key", table.Name)
	}
	for _, k := range table.Key {
		if _, ok := table.Column(k); !ok {
			return fmt.Errorf("key column %s not found in table %s", k, table.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[table.Name]; !exists {
		r.order = append(r.order, table.Name)
	}
	t := table
	r.tables[table.Name] = &t
	return nil
}

// Validate checks that every relation points at registered tables and columns.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		t := r.tables[name]
		for _, rel := range t.Relations {
			target, ok := r.tables[rel.To]
			if !ok {
				return fmt.Errorf("relation %s.%s targets unknown table %s", t.Name, rel.Name, rel.To)
			}
			if len(rel.FromColumns) == 0 || len(rel.FromColumns) != len(rel.ToColumns) {
				return fmt.Errorf("relation %s.%s has mismatched key columns", t.Name, rel.Name)
			}
			for i := range rel.FromColumns {
				if _, ok := t.Column(rel.FromColumns[i]); !ok {
					return fmt.Errorf("relation %s.%s: column %s not found", t.Name, rel.Name, rel.FromColumns[i])
				}
				if _, ok := target.Column(rel.ToColumns[i]); !ok {
					return fmt.Errorf("relation %s.%s: column %s.%s not found", t.Name, rel.Name, rel.To, rel.ToColumns[i])
				}
			}
		}
	}
	return nil
}

// GetTable retrieves a table by name.
func (r *Registry) GetTable(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s not found", name)
	}
	return t, nil
}

// GetColumn retrieves a column from a table.
func (r *Registry) GetColumn(tableName, columnName string) (Column, error) {
	t, err := r.GetTable(tableName)
	if err != nil {
		return Column{}, err
	}
	c, ok := t.Column(columnName)
	if !ok {
		return Column{}, fmt.Errorf("column %s not found in table %s", columnName, tableName)
	}
	return c, nil
}

// GetRelation retrieves a navigation that starts at the given table.
func (r *Registry) GetRelation(tableName, relationName string) (Relation, error) {
	t, err := r.GetTable(tableName)
	if err != nil {
		return Relation{}, err
	}
	for _, rel := range t.Relations {
		if rel.Name == relationName {
			return rel, nil
		}
	}
	return Relation{}, fmt.Errorf("relation %s not found for table %s", relationName, tableName)
}

// Tables returns the registered table names in registration order.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
