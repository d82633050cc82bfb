package visibility

// Scope determines where a condition's controller reference resolves. A
// reference is searched in the nearest enclosing repeater row or group record
// first; if not found there and the scope is not a repeater row, resolution
// falls back to the top-level form. A reference from inside a repeater row
// never falls back to the top level, which keeps one row's rule from binding
// to a same-named field outside the row.
type Scope struct {
	local map[string]any
	isRow bool
	top   map[string]any
}

// TopScope resolves references against the top-level form only.
func TopScope(values map[string]any) Scope {
	return Scope{top: values}
}

// GroupScope resolves references against a group record first, then the
// top-level form.
func GroupScope(group, top map[string]any) Scope {
	return Scope{local: group, top: top}
}

// RowScope resolves references against a single repeater row, with no
// top-level fallback.
func RowScope(row map[string]any) Scope {
	return Scope{local: row, isRow: true}
}

// Lookup implements the scoped resolution order.
func (s Scope) Lookup(field string) (any, bool) {
	if s.local != nil {
		if value, ok := s.local[field]; ok {
			return value, true
		}
	}
	if s.isRow {
		return nil, false
	}
	if s.top != nil {
		if value, ok := s.top[field]; ok {
			return value, true
		}
	}
	return nil, false
}
