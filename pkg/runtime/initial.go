package runtime

import (
	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/rows"
	"github.com/goliatone/go-fieldset/pkg/visibility"
)

// ComputeInitialVisibility runs the one-shot server-side visibility pass: it
// resolves every conditional field's flag against persisted values supplied
// by lookup and returns visible-or-not per field path. The same evaluator
// drives the live controller afterwards, which is what keeps the two
// contexts in agreement.
//
// Group records and repeater row lists are fetched through lookup under the
// container's key, shaped like the value tree the sanitizer produces.
func ComputeInitialVisibility(schema []fields.Field, lookup visibility.Lookup) map[string]bool {
	out := make(map[string]bool)
	if lookup == nil {
		lookup = func(string) (any, bool) { return nil, false }
	}

	top := make(map[string]any)
	for _, field := range schema {
		if value, ok := lookup(field.Key); ok {
			top[field.Key] = value
		}
	}
	topScope := visibility.TopScope(top)

	for _, field := range schema {
		switch field.Kind {
		case fields.KindGroup:
			record, _ := top[field.Key].(map[string]any)
			scope := visibility.GroupScope(record, top)
			for _, child := range field.Children {
				out[groupPath(field.Key, child.Key)] = visibility.IsSatisfied(child.Visibility, scope.Lookup)
			}

		case fields.KindRepeater:
			for index, record := range seedRows(top[field.Key]) {
				scope := visibility.RowScope(record)
				for _, child := range field.Children {
					out[rows.FieldPath(field.Key, index, child.Key)] = visibility.IsSatisfied(child.Visibility, scope.Lookup)
				}
			}

		default:
			out[field.Key] = visibility.IsSatisfied(field.Visibility, topScope.Lookup)
		}
	}
	return out
}
