package fields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Raw is one field declaration as written by an integrator: a loosely typed
// map, typically decoded from YAML or JSON, with most members optional.
type Raw = map[string]any

// Normalize turns raw declarations into canonical fields. parentPrefix is the
// dotted path of the enclosing container ("" at the top level); it scopes
// error messages and enforces the single container nesting level.
//
// Normalize is a pure transform: it never mutates its input and the same raw
// input always yields the same canonical output.
func Normalize(raw []Raw, parentPrefix string) ([]Field, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]Field, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, decl := range raw {
		path := fmt.Sprintf("%s.%d", parentPrefix, i)
		if parentPrefix == "" {
			path = strconv.Itoa(i)
		}

		field, err := normalizeField(decl, path, parentPrefix)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[field.Key]; dup {
			return nil, configErrorf(path, "duplicate key %q", field.Key)
		}
		seen[field.Key] = struct{}{}
		out = append(out, field)
	}
	return out, nil
}

func normalizeField(decl Raw, path, parentPrefix string) (Field, error) {
	key, ok := stringValue(decl["key"])
	if !ok || strings.TrimSpace(key) == "" {
		return Field{}, configErrorf(path, "field key is required and must be a non-empty string")
	}
	key = strings.TrimSpace(key)
	if path != "" {
		path = path + "(" + key + ")"
	}

	kindRaw, _ := stringValue(decl["kind"])
	kind := Kind(strings.TrimSpace(kindRaw))
	if !knownKind(kind) {
		return Field{}, configErrorf(path, "unknown kind %q", kindRaw)
	}
	if kind.IsContainer() && parentPrefix != "" {
		return Field{}, configErrorf(path, "container kind %q may not be nested inside another container", kind)
	}

	field := Field{
		Key:     key,
		Kind:    kind,
		Default: decl["default"],
	}
	if label, ok := stringValue(decl["label"]); ok {
		field.Label = strings.TrimSpace(label)
	}
	if desc, ok := stringValue(decl["description"]); ok {
		field.Description = strings.TrimSpace(desc)
	}
	if capability, ok := stringValue(decl["capability"]); ok {
		field.Capability = strings.TrimSpace(capability)
	}
	if override, ok := decl["sanitize"].(Sanitizer); ok {
		field.Sanitize = override
	} else if override, ok := decl["sanitize"].(func(any) any); ok {
		field.Sanitize = override
	}

	if err := normalizeConstraints(&field, decl, path); err != nil {
		return Field{}, err
	}

	conditions, err := NormalizeConditions(decl["visible"], path)
	if err != nil {
		return Field{}, err
	}
	field.Visibility = conditions

	if kind.IsContainer() {
		children, err := childDeclarations(decl["fields"])
		if err != nil {
			return Field{}, configErrorf(path, "%v", err)
		}
		if len(children) == 0 {
			return Field{}, configErrorf(path, "container kind %q requires at least one child field", kind)
		}
		nested, err := Normalize(children, joinPrefix(parentPrefix, key))
		if err != nil {
			return Field{}, err
		}
		field.Children = nested
	}

	return field, nil
}

func normalizeConstraints(field *Field, decl Raw, path string) error {
	c := &field.Constraints

	c.Min = floatConstraint(decl["min"])
	c.Max = floatConstraint(decl["max"])
	c.Step = floatConstraint(decl["step"])
	if multiple, ok := decl["multiple"].(bool); ok {
		c.Multiple = multiple
	}
	if placeholder, ok := stringValue(decl["placeholder"]); ok {
		c.Placeholder = placeholder
	}

	switch field.Kind {
	case KindTextarea:
		c.Rows = intOrDefault(decl["rows"], 5)

	case KindSelect, KindRadio, KindMultiSelect:
		display, _ := stringValue(decl["display"])
		c.Display = strings.TrimSpace(display)
		if c.Display == "" {
			c.Display = "select"
		}
		if field.Kind == KindMultiSelect {
			c.Multiple = true
		}
		provider, err := optionProvider(decl["options"])
		if err != nil {
			return configErrorf(path, "%v", err)
		}
		if provider == nil {
			return configErrorf(path, "choice kind %q requires options", field.Kind)
		}
		c.Options = provider

	case KindSearch, KindSearchMulti:
		if provider, err := optionProvider(decl["options"]); err == nil && provider != nil {
			c.Options = provider
		}
		if field.Kind == KindSearchMulti {
			c.Multiple = true
		}

	case KindDimension:
		units, ok := unitMap(decl["units"])
		if !ok || len(units) == 0 {
			return configErrorf(path, "dimension kind requires a units map")
		}
		companion, _ := stringValue(decl["companion_key"])
		companion = strings.TrimSpace(companion)
		if companion == "" {
			return configErrorf(path, "dimension kind requires companion_key")
		}
		c.Units = units
		c.CompanionKey = companion

	case KindRepeater:
		c.MinItems = intOrDefault(decl["min_items"], 0)
		c.MaxItems = intOrDefault(decl["max_items"], 0)
		if c.MinItems < 0 || c.MaxItems < 0 {
			return configErrorf(path, "min_items and max_items must not be negative")
		}
		if c.MaxItems > 0 && c.MinItems > c.MaxItems {
			return configErrorf(path, "min_items %d exceeds max_items %d", c.MinItems, c.MaxItems)
		}
		if title, ok := stringValue(decl["row_title"]); ok {
			c.RowTitle = title
		}
		if titleField, ok := stringValue(decl["row_title_field"]); ok {
			c.RowTitleField = strings.TrimSpace(titleField)
		}
	}

	return nil
}

// childDeclarations accepts the decoded forms a "fields" list can take after
// YAML or JSON unmarshalling.
func childDeclarations(value any) ([]Raw, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []Raw:
		return typed, nil
	case []any:
		out := make([]Raw, 0, len(typed))
		for i, entry := range typed {
			decl, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("child %d is not a field declaration", i)
			}
			out = append(out, decl)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("fields must be a list of declarations, got %T", value)
	}
}

func optionProvider(value any) (OptionProvider, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case OptionProvider:
		return typed, nil
	case map[string]any:
		options := make([]Option, 0, len(typed))
		for _, key := range sortedKeys(typed) {
			label, _ := stringValue(typed[key])
			if label == "" {
				label = key
			}
			options = append(options, Option{Value: key, Label: label})
		}
		return StaticOptions(options...), nil
	case map[string]string:
		options := make([]Option, 0, len(typed))
		for _, key := range sortedStringKeys(typed) {
			options = append(options, Option{Value: key, Label: typed[key]})
		}
		return StaticOptions(options...), nil
	case []any:
		options := make([]Option, 0, len(typed))
		for i, entry := range typed {
			value, ok := stringValue(entry)
			if !ok {
				return nil, fmt.Errorf("option %d is not a string", i)
			}
			options = append(options, Option{Value: value, Label: value})
		}
		return StaticOptions(options...), nil
	case []string:
		return StaticValues(typed...), nil
	case []Option:
		return StaticOptions(typed...), nil
	default:
		return nil, fmt.Errorf("unsupported options declaration %T", value)
	}
}

func unitMap(value any) (map[string]string, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case map[string]string:
		out := make(map[string]string, len(typed))
		for key, label := range typed {
			out[key] = label
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(typed))
		for key, label := range typed {
			text, _ := stringValue(label)
			if text == "" {
				text = key
			}
			out[key] = text
		}
		return out, true
	case []any:
		out := make(map[string]string, len(typed))
		for _, entry := range typed {
			unit, ok := stringValue(entry)
			if !ok {
				return nil, false
			}
			out[unit] = unit
		}
		return out, true
	case []string:
		out := make(map[string]string, len(typed))
		for _, unit := range typed {
			out[unit] = unit
		}
		return out, true
	default:
		return nil, false
	}
}

func knownKind(kind Kind) bool {
	switch kind {
	case KindText, KindTextarea, KindNumber, KindCheckbox, KindDate,
		KindColor, KindURL, KindEmail, KindRichText,
		KindSelect, KindRadio, KindMultiSelect,
		KindMedia, KindMediaList, KindSearch, KindSearchMulti,
		KindDimension, KindGroup, KindRepeater:
		return true
	default:
		return false
	}
}

func joinPrefix(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func stringValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}

func floatConstraint(value any) *float64 {
	switch typed := value.(type) {
	case nil:
		return nil
	case float64:
		return &typed
	case float32:
		v := float64(typed)
		return &v
	case int:
		v := float64(typed)
		return &v
	case int64:
		v := float64(typed)
		return &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func intOrDefault(value any, fallback int) int {
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
