package types

import "strings"

// Lookup resolves a field name against the record. An exact key wins;
// otherwise a dotted name walks nested objects, so "distributor.name"
// reads record["distributor"]["name"].
func (r Record) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if value, exists := r[name]; exists {
		return value, true
	}
	if !strings.Contains(name, ".") {
		return nil, false
	}

	var current any = map[string]any(r)
	for _, part := range strings.Split(name, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, exists := node[part]
			if !exists {
				return nil, false
			}
			current = next
		case Record:
			next, exists := node[part]
			if !exists {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Value is Lookup without the presence flag
func (r Record) Value(name string) any {
	value, _ := r.Lookup(name)
	return value
}
