// Package visibility evaluates canonical visibility conditions against a
// caller-supplied value lookup. The evaluator is a pure function with no I/O,
// which lets the same logic run against a server-side persisted-value lookup
// and a client-side live form state.
package visibility

import "github.com/goliatone/go-fieldset/pkg/fields"

// Lookup resolves a controller field key to its current value. The second
// return reports whether the key resolved at all; an unresolved key evaluates
// as an empty value.
type Lookup func(field string) (any, bool)

// MapLookup adapts a flat value map into a Lookup.
func MapLookup(values map[string]any) Lookup {
	return func(field string) (any, bool) {
		value, ok := values[field]
		return value, ok
	}
}

// IsSatisfied reports whether every condition passes against the supplied
// lookup. Conditions AND-combine and evaluation short-circuits on the first
// failure. An empty condition list is always satisfied.
func IsSatisfied(conditions []fields.Condition, lookup Lookup) bool {
	for _, cond := range conditions {
		var actual any
		if lookup != nil {
			actual, _ = lookup(cond.Field)
		}
		if !Evaluate(actual, cond.Operator, cond.Value) {
			return false
		}
	}
	return true
}
