package executor

import (
	"fmt"
	"strings"
	"sync"
)

// IdentityMap tracks materialized entities by table and key so that the same row read twice
// within a session resolves to the same map instance.
type IdentityMap struct {
	mu       sync.Mutex
	entities map[string]map[string]interface{}
}

// NewIdentityMap creates an empty identity map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{entities: make(map[string]map[string]interface{})}
}

// Resolve returns the tracked entity for id, tracking entity first if there is none.
func (m *IdentityMap) Resolve(id string, entity map[string]interface{}) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tracked, ok := m.entities[id]; ok {
		return tracked
	}
	m.entities[id] = entity
	return entity
}

// Len returns the number of tracked entities.
func (m *IdentityMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entities)
}

// identity builds "table|v1|v2" from the key columns of values. ok is false when a key value
// is NULL, which means the row has no entity.
func identity(table string, key []string, values map[string]interface{}) (string, bool) {
	var b strings.Builder
	b.WriteString(table)
	for _, k := range key {
		v, present := values[k]
		if !present || v == nil {
			return "", false
		}
		fmt.Fprintf(&b, "|%v", v)
	}
	return b.String(), true
}
