package fields

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// rawFromField rebuilds a raw declaration out of a canonical field, which is
// how the idempotence property is exercised: a canonical tree fed back
// through Normalize must come out unchanged.
func rawFromField(f Field) Raw {
	decl := Raw{
		"key":  f.Key,
		"kind": string(f.Kind),
	}
	if f.Label != "" {
		decl["label"] = f.Label
	}
	if f.Default != nil {
		decl["default"] = f.Default
	}
	if len(f.Visibility) > 0 {
		decl["visible"] = append([]Condition(nil), f.Visibility...)
	}
	c := f.Constraints
	if c.Min != nil {
		decl["min"] = *c.Min
	}
	if c.Max != nil {
		decl["max"] = *c.Max
	}
	if c.Step != nil {
		decl["step"] = *c.Step
	}
	if c.Rows != 0 {
		decl["rows"] = c.Rows
	}
	if c.Display != "" {
		decl["display"] = c.Display
	}
	if c.Options != nil {
		decl["options"] = c.Options
	}
	if len(c.Units) > 0 {
		decl["units"] = c.Units
		decl["companion_key"] = c.CompanionKey
	}
	if c.MinItems != 0 {
		decl["min_items"] = c.MinItems
	}
	if c.MaxItems != 0 {
		decl["max_items"] = c.MaxItems
	}
	if c.RowTitle != "" {
		decl["row_title"] = c.RowTitle
	}
	if c.RowTitleField != "" {
		decl["row_title_field"] = c.RowTitleField
	}
	if len(f.Children) > 0 {
		children := make([]Raw, 0, len(f.Children))
		for _, child := range f.Children {
			children = append(children, rawFromField(child))
		}
		decl["fields"] = children
	}
	return decl
}

func sampleDeclarations() []Raw {
	return []Raw{
		{"key": "title", "kind": "text", "label": "Title"},
		{"key": "summary", "kind": "textarea"},
		{
			"key":     "status",
			"kind":    "select",
			"options": map[string]string{"draft": "Draft", "published": "Published"},
			"default": "draft",
		},
		{
			"key":  "weight",
			"kind": "number",
			"min":  0,
			"max":  100,
			"visible": map[string]any{
				"field": "status", "operator": "=", "value": "published",
			},
		},
		{
			"key":             "sections",
			"kind":            "repeater",
			"min_items":       1,
			"max_items":       4,
			"row_title":       "Section {index}: {value}",
			"row_title_field": "heading",
			"fields": []Raw{
				{"key": "heading", "kind": "text"},
				{"key": "body", "kind": "richtext"},
			},
		},
	}
}

func TestNormalize_Idempotence(t *testing.T) {
	t.Parallel()

	first, err := Normalize(sampleDeclarations(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	refed := make([]Raw, 0, len(first))
	for _, field := range first {
		refed = append(refed, rawFromField(field))
	}
	second, err := Normalize(refed, "")
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(Field{}, "Sanitize"),
		cmpopts.IgnoreFields(Constraints{}, "Options"),
	}
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Fatalf("normalization is not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalize_KindDefaults(t *testing.T) {
	t.Parallel()

	normalized, err := Normalize([]Raw{
		{"key": "notes", "kind": "textarea"},
		{"key": "status", "kind": "select", "options": []string{"a", "b"}},
		{"key": "tags", "kind": "multiselect", "options": []string{"x"}},
	}, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if rows := normalized[0].Constraints.Rows; rows != 5 {
		t.Fatalf("expected textarea rows default 5, got %d", rows)
	}
	if display := normalized[1].Constraints.Display; display != "select" {
		t.Fatalf("expected display default %q, got %q", "select", display)
	}
	if !normalized[2].Constraints.Multiple {
		t.Fatal("expected multiselect to imply multiple")
	}
}

func TestNormalize_ConfigErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     []Raw
		wantSub string
	}{
		{
			name:    "missing key",
			raw:     []Raw{{"kind": "text"}},
			wantSub: "key is required",
		},
		{
			name:    "blank key",
			raw:     []Raw{{"key": "   ", "kind": "text"}},
			wantSub: "key is required",
		},
		{
			name:    "unknown kind",
			raw:     []Raw{{"key": "x", "kind": "hologram"}},
			wantSub: `unknown kind "hologram"`,
		},
		{
			name:    "duplicate keys",
			raw:     []Raw{{"key": "x", "kind": "text"}, {"key": "x", "kind": "text"}},
			wantSub: `duplicate key "x"`,
		},
		{
			name:    "choice without options",
			raw:     []Raw{{"key": "x", "kind": "select"}},
			wantSub: "requires options",
		},
		{
			name:    "dimension without units",
			raw:     []Raw{{"key": "x", "kind": "dimension", "companion_key": "amount"}},
			wantSub: "requires a units map",
		},
		{
			name:    "dimension without companion",
			raw:     []Raw{{"key": "x", "kind": "dimension", "units": []string{"px"}}},
			wantSub: "requires companion_key",
		},
		{
			name:    "container without children",
			raw:     []Raw{{"key": "x", "kind": "group"}},
			wantSub: "requires at least one child",
		},
		{
			name: "container nested in container",
			raw: []Raw{{
				"key": "outer", "kind": "group",
				"fields": []Raw{{
					"key": "inner", "kind": "repeater",
					"fields": []Raw{{"key": "leaf", "kind": "text"}},
				}},
			}},
			wantSub: "may not be nested",
		},
		{
			name:    "negative row bounds",
			raw:     []Raw{{"key": "x", "kind": "repeater", "min_items": -1, "fields": []Raw{{"key": "y", "kind": "text"}}}},
			wantSub: "must not be negative",
		},
		{
			name:    "row floor above cap",
			raw:     []Raw{{"key": "x", "kind": "repeater", "min_items": 3, "max_items": 2, "fields": []Raw{{"key": "y", "kind": "text"}}}},
			wantSub: "exceeds max_items",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tc.raw, "")
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestNormalize_ContainerChildren(t *testing.T) {
	t.Parallel()

	normalized, err := Normalize([]Raw{{
		"key":  "address",
		"kind": "group",
		"fields": []Raw{
			{"key": "street", "kind": "text"},
			{"key": "zip", "kind": "text"},
		},
	}}, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	group := normalized[0]
	if !group.Kind.IsContainer() {
		t.Fatalf("expected container kind, got %q", group.Kind)
	}
	if len(group.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(group.Children))
	}
	if _, ok := group.Child("zip"); !ok {
		t.Fatal("expected Child to find zip")
	}
	if _, ok := group.Child("country"); ok {
		t.Fatal("expected Child miss for country")
	}
}

func TestNormalize_ChildDeclarationShapes(t *testing.T) {
	t.Parallel()

	// Raw aliases map[string]any, so a plain map slice and the []any shape
	// json/yaml produce must both land in the same canonical children.
	shapes := map[string]any{
		"map slice": []map[string]any{{"key": "a", "kind": "text"}},
		"any slice": []any{map[string]any{"key": "a", "kind": "text"}},
	}

	for name, children := range shapes {
		children := children
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			normalized, err := Normalize([]Raw{{
				"key": "g", "kind": "group", "fields": children,
			}}, "")
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if len(normalized[0].Children) != 1 || normalized[0].Children[0].Key != "a" {
				t.Fatalf("unexpected children %+v", normalized[0].Children)
			}
		})
	}
}

func TestNormalize_SanitizerOverrideResolved(t *testing.T) {
	t.Parallel()

	override := func(raw any) any { return "fixed" }
	normalized, err := Normalize([]Raw{
		{"key": "x", "kind": "text", "sanitize": override},
	}, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized[0].Sanitize == nil {
		t.Fatal("expected the sanitizer override to be resolved at normalization time")
	}
	if got := normalized[0].Sanitize("anything"); got != "fixed" {
		t.Fatalf("unexpected override output %v", got)
	}
}
