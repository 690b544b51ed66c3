package executor

import (
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// shaper turns flat result rows into entities following a result mapping.
type shaper struct {
	mapping    domain.ResultMapping
	identities *IdentityMap
}

func (s *shaper) shape(rows []map[string]interface{}) []map[string]interface{} {
	if len(s.mapping.Includes) > 0 {
		return s.shapeIncludes(rows)
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		shaped := nest(row)
		if s.identities != nil && len(s.mapping.Key) > 0 {
			if id, ok := identity(s.mapping.Model, s.mapping.Key, shaped); ok {
				shaped = s.identities.Resolve(id, shaped)
			}
		}
		out = append(out, shaped)
	}
	return out
}

// nest moves columns named "A.B" into a map under "A". A nested map whose values are all
// NULL came from an unmatched outer join and becomes nil.
func nest(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	groups := make(map[string]map[string]interface{})
	for name, v := range row {
		head, rest, found := strings.Cut(name, ".")
		if !found {
			out[name] = v
			continue
		}
		g, ok := groups[head]
		if !ok {
			g = make(map[string]interface{})
			groups[head] = g
		}
		g[rest] = v
	}
	for head, g := range groups {
		nested := nest(g)
		if allNil(nested) {
			out[head] = nil
		} else {
			out[head] = nested
		}
	}
	return out
}

func allNil(m map[string]interface{}) bool {
	for _, v := range m {
		if v != nil {
			return false
		}
	}
	return true
}

// shapeIncludes groups rows by root identity and attaches included navigations. Reference
// navigations become a nested map (or nil), collections a slice without duplicates.
func (s *shaper) shapeIncludes(rows []map[string]interface{}) []map[string]interface{} {
	var roots []map[string]interface{}
	seen := make(map[string]map[string]interface{})
	members := make(map[string]bool)
	// Entities whose collections were rebuilt in this pass. A tracked entity keeps the
	// collections of an earlier query, so they are reset on first visit.
	visited := make(map[string]bool)

	for _, row := range rows {
		rootValues := columnsAt(row, "")
		rootID, ok := identity(s.mapping.Model, s.mapping.Key, rootValues)
		if !ok {
			continue
		}
		root, exists := seen[rootID]
		if !exists {
			root = s.resolve(rootID, rootValues)
			seen[rootID] = root
			roots = append(roots, root)
			visited[rootID] = true
			s.collections(root, "", true)
		}

		byPath := map[string]map[string]interface{}{"": root}
		ids := map[string]string{"": rootID}
		for _, inc := range s.mapping.Includes {
			parentPath, name := splitPath(inc.Path)
			parent, ok := byPath[parentPath]
			if !ok || parent == nil {
				continue
			}

			values := columnsAt(row, inc.Path)
			id, ok := identity(inc.Table, inc.Key, values)
			if !ok {
				if inc.Collection {
					ensureCollection(parent, name)
				} else if _, set := parent[name]; !set {
					parent[name] = nil
				}
				continue
			}

			entity := s.resolve(id, values)
			byPath[inc.Path] = entity
			ids[inc.Path] = id
			key := inc.Path + "|" + id
			s.collections(entity, inc.Path, !visited[key])
			visited[key] = true

			if !inc.Collection {
				parent[name] = entity
				continue
			}
			member := ids[parentPath] + "/" + name + "/" + id
			if !members[member] {
				members[member] = true
				parent[name] = append(parent[name].([]map[string]interface{}), entity)
			}
		}
	}
	return roots
}

// resolve returns the tracked instance of an entity or a fresh one when tracking is off.
func (s *shaper) resolve(id string, values map[string]interface{}) map[string]interface{} {
	if s.identities == nil {
		return values
	}
	return s.identities.Resolve(id, values)
}

// collections prepares the collections included directly below path on entity: reset to
// empty, or only created when missing.
func (s *shaper) collections(entity map[string]interface{}, path string, reset bool) {
	for _, inc := range s.mapping.Includes {
		if !inc.Collection {
			continue
		}
		parent, name := splitPath(inc.Path)
		if parent != path {
			continue
		}
		if reset {
			entity[name] = []map[string]interface{}{}
		} else {
			ensureCollection(entity, name)
		}
	}
}

func ensureCollection(entity map[string]interface{}, name string) {
	if _, ok := entity[name].([]map[string]interface{}); !ok {
		entity[name] = []map[string]interface{}{}
	}
}

// columnsAt collects the columns named path + "." + column, or the unprefixed columns when
// path is empty.
func columnsAt(row map[string]interface{}, path string) map[string]interface{} {
	out := make(map[string]interface{})
	for name, v := range row {
		col := name
		if path != "" {
			rest, found := strings.CutPrefix(name, path+".")
			if !found {
				continue
			}
			col = rest
		}
		if !strings.Contains(col, ".") {
			out[col] = v
		}
	}
	return out
}

func splitPath(path string) (parent, name string) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
