package runtime

import (
	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/rows"
	"github.com/goliatone/go-fieldset/pkg/visibility"
)

// refreshTopLevel recomputes visibility for every conditional field outside
// repeater rows: top-level scalars against the top-level scope, group
// members against their group scope with top-level fallback. Rows are not
// touched; a row rule can only reference row-local fields, so no top-level
// change can affect it.
//
// Conditional fields within one scope never depend on each other's
// visibility, so a single unordered pass is sufficient.
func (s *FormState) refreshTopLevel() {
	topScope := visibility.TopScope(s.top)
	for _, field := range s.schema {
		switch field.Kind {
		case fields.KindGroup:
			groupScope := visibility.GroupScope(s.groups[field.Key], s.top)
			for _, child := range field.Children {
				s.apply(groupPath(field.Key, child.Key), child.Visibility, groupScope)
			}
		case fields.KindRepeater:
			// row scopes are refreshed on row events only.
		default:
			s.apply(field.Key, field.Visibility, topScope)
		}
	}
}

// refreshRow recomputes visibility for the conditional fields of a single
// row. References resolve against the row record only; a row rule never
// falls back to the top level, which keeps it from binding to another row's
// sibling or a same-named top-level field.
func (s *FormState) refreshRow(repeaterKey string, index int) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return
	}
	row, ok := coordinator.Row(index)
	if !ok {
		return
	}
	repeater, _ := s.fieldByKey(repeaterKey)
	scope := visibility.RowScope(row.Values)
	for _, child := range repeater.Children {
		s.apply(rows.FieldPath(repeaterKey, index, child.Key), child.Visibility, scope)
	}
}

// refreshAllRows rebuilds the hidden flags for every row of one repeater.
// Runs after remove and reorder, when renumbering shifts row paths.
func (s *FormState) refreshAllRows(repeaterKey string) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return
	}
	// drop flags for paths that no longer exist before recomputing.
	prefix := repeaterKey + "["
	for path := range s.hidden {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			delete(s.hidden, path)
		}
	}
	for _, row := range coordinator.Rows() {
		s.refreshRow(repeaterKey, row.Index)
	}
}

// apply evaluates one field's conditions in the given scope and records the
// resulting hidden flag. Unconditional fields are always visible and carry
// no flag at all.
func (s *FormState) apply(path string, conditions []fields.Condition, scope visibility.Scope) {
	if len(conditions) == 0 {
		delete(s.hidden, path)
		return
	}
	if visibility.IsSatisfied(conditions, scope.Lookup) {
		delete(s.hidden, path)
	} else {
		s.hidden[path] = true
	}
}
