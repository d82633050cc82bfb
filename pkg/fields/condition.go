package fields

import (
	"sort"
	"strings"
)

// NormalizeConditions converts the accepted visibility shorthands into a
// canonical AND-combined condition list. Three shapes are accepted:
//
//  1. a shorthand map {field: value, ...}, one equality condition per entry,
//  2. a single explicit object {field, operator?, value},
//  3. a list mixing either of the above.
//
// Absent or empty input yields nil, meaning always visible. path scopes error
// messages only.
func NormalizeConditions(raw any, path string) ([]Condition, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil

	case []Condition:
		out := make([]Condition, 0, len(typed))
		for _, cond := range typed {
			out = append(out, canonicalCondition(cond))
		}
		return out, nil

	case Condition:
		return []Condition{canonicalCondition(typed)}, nil

	case map[string]any:
		if isExplicitCondition(typed) {
			cond, err := explicitCondition(typed, path)
			if err != nil {
				return nil, err
			}
			return []Condition{cond}, nil
		}
		return shorthandConditions(typed), nil

	case []any:
		var out []Condition
		for _, entry := range typed {
			nested, err := NormalizeConditions(entry, path)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
		return out, nil

	default:
		return nil, configErrorf(path, "unsupported visibility declaration %T", raw)
	}
}

// isExplicitCondition distinguishes shape 2 from shape 1. A map is explicit
// when it names the controller under "field"; shorthand maps use the
// controller key itself as the map key.
func isExplicitCondition(decl map[string]any) bool {
	if _, ok := decl["field"]; !ok {
		return false
	}
	for key := range decl {
		switch key {
		case "field", "operator", "value":
		default:
			return false
		}
	}
	return true
}

func explicitCondition(decl map[string]any, path string) (Condition, error) {
	field, ok := stringValue(decl["field"])
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return Condition{}, configErrorf(path, "visibility condition requires a field name")
	}

	operator := OpEqual
	if raw, present := decl["operator"]; present {
		text, ok := stringValue(raw)
		if !ok {
			return Condition{}, configErrorf(path, "visibility operator must be a string")
		}
		operator = Operator(strings.TrimSpace(text))
	}

	return Condition{Field: field, Operator: operator, Value: decl["value"]}, nil
}

func shorthandConditions(decl map[string]any) []Condition {
	keys := make([]string, 0, len(decl))
	for key := range decl {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Condition, 0, len(keys))
	for _, key := range keys {
		out = append(out, Condition{
			Field:    strings.TrimSpace(key),
			Operator: OpEqual,
			Value:    decl[key],
		})
	}
	return out
}

func canonicalCondition(cond Condition) Condition {
	cond.Field = strings.TrimSpace(cond.Field)
	if cond.Operator == "" {
		cond.Operator = OpEqual
	}
	return cond
}
