package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/rows"
	"github.com/goliatone/go-fieldset/pkg/sanitize"
)

func productSchema() []fields.Field {
	return []fields.Field{
		{
			Key:  "product_type",
			Kind: fields.KindSelect,
			Constraints: fields.Constraints{
				Options: fields.StaticValues("physical", "digital"),
			},
			Default: "physical",
		},
		{
			Key:  "weight",
			Kind: fields.KindNumber,
			Visibility: []fields.Condition{
				{Field: "product_type", Operator: fields.OpEqual, Value: "physical"},
			},
		},
	}
}

func variantsSchema() []fields.Field {
	return []fields.Field{
		{Key: "x", Kind: fields.KindText},
		{
			Key:  "variants",
			Kind: fields.KindRepeater,
			Children: []fields.Field{
				{Key: "on_sale", Kind: fields.KindCheckbox, Default: false},
				{
					Key:  "sale_price",
					Kind: fields.KindNumber,
					Visibility: []fields.Condition{
						{Field: "on_sale", Operator: fields.OpEqual, Value: true},
					},
				},
				{
					Key:  "needs_top",
					Kind: fields.KindText,
					Visibility: []fields.Condition{
						{Field: "x", Operator: fields.OpEqual, Value: "on"},
					},
				},
			},
		},
	}
}

func TestFormState_TopLevelChangeTogglesVisibility(t *testing.T) {
	t.Parallel()

	state, err := New(productSchema())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// the default product_type is "physical", so weight starts visible.
	if state.Hidden("weight") {
		t.Fatal("expected weight visible initially")
	}

	if err := state.SetValue("product_type", "digital"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if !state.Hidden("weight") {
		t.Fatal("expected weight hidden after switching to digital")
	}

	if err := state.SetValue("product_type", "physical"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if state.Hidden("weight") {
		t.Fatal("expected weight visible again")
	}
}

func TestFormState_HiddenFieldValueIsNotCleared(t *testing.T) {
	t.Parallel()

	// visibility and persistence are separate concerns: hiding weight must
	// not remove its value from the tree, and the sanitizer applies its own
	// content rules independently of the flag.
	state, err := New(productSchema())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := state.SetValue("weight", "12"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := state.SetValue("product_type", "digital"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	if !state.Hidden("weight") {
		t.Fatal("expected weight hidden")
	}
	values := state.Values()
	if values["weight"] != "12" {
		t.Fatalf("expected the stale weight value retained, got %v", values["weight"])
	}

	clean := sanitize.Submission(context.Background(), productSchema(), values)
	if clean["weight"] != 12 {
		t.Fatalf("sanitizer decides persistence on its own terms, got %v", clean["weight"])
	}
}

func TestFormState_RowScopedChangeRefreshesThatRowOnly(t *testing.T) {
	t.Parallel()

	state, err := New(variantsSchema(), WithValues(map[string]any{
		"variants": []map[string]any{
			{"on_sale": false, "sale_price": nil},
			{"on_sale": false, "sale_price": nil},
		},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !state.Hidden("variants[0][sale_price]") || !state.Hidden("variants[1][sale_price]") {
		t.Fatal("expected sale_price hidden in both rows initially")
	}

	if err := state.SetValue("variants[1][on_sale]", true); err != nil {
		t.Fatalf("set value: %v", err)
	}

	if state.Hidden("variants[1][sale_price]") {
		t.Fatal("expected row 1 sale_price visible after its own toggle")
	}
	if !state.Hidden("variants[0][sale_price]") {
		t.Fatal("expected row 0 sale_price to stay hidden")
	}
}

func TestFormState_RowRuleNeverBindsTopLevel(t *testing.T) {
	t.Parallel()

	state, err := New(variantsSchema(), WithValues(map[string]any{
		"x": "on",
		"variants": []map[string]any{
			{"on_sale": false},
		},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// a top-level x with the matching value exists, but the row-scoped rule
	// must not see it: the reference resolves inside the row or not at all.
	if !state.Hidden("variants[0][needs_top]") {
		t.Fatal("expected the row rule to stay unsatisfied despite the top-level x")
	}
}

func TestFormState_InsertedRowIsEvaluated(t *testing.T) {
	t.Parallel()

	state, err := New(variantsSchema())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	updated, err := state.InsertRow("variants")
	if err != nil {
		t.Fatalf("insert row: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 row, got %d", len(updated))
	}
	// the new row's on_sale defaults to false, so its sale_price starts
	// hidden without any further event.
	if !state.Hidden("variants[0][sale_price]") {
		t.Fatal("expected the inserted row's conditional field to be evaluated")
	}
}

func TestFormState_RemoveShiftsHiddenFlags(t *testing.T) {
	t.Parallel()

	state, err := New(variantsSchema(), WithValues(map[string]any{
		"variants": []map[string]any{
			{"on_sale": true},
			{"on_sale": false},
		},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if state.Hidden("variants[0][sale_price]") {
		t.Fatal("expected row 0 sale_price visible")
	}
	if !state.Hidden("variants[1][sale_price]") {
		t.Fatal("expected row 1 sale_price hidden")
	}

	if _, err := state.RemoveRow("variants", 0); err != nil {
		t.Fatalf("remove row: %v", err)
	}

	// the surviving row renumbered from 1 to 0 and its flag moved with it.
	if !state.Hidden("variants[0][sale_price]") {
		t.Fatal("expected the renumbered row's flag at its new path")
	}
	if state.Hidden("variants[1][sale_price]") {
		t.Fatal("expected no flag left at the stale path")
	}
}

func TestFormState_ReorderMovesFlagsWithRows(t *testing.T) {
	t.Parallel()

	state, err := New(variantsSchema(), WithValues(map[string]any{
		"variants": []map[string]any{
			{"on_sale": true},
			{"on_sale": false},
		},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := state.ReorderRows("variants", []int{1, 0}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if !state.Hidden("variants[0][sale_price]") {
		t.Fatal("expected the off-sale row's flag to follow it to position 0")
	}
	if state.Hidden("variants[1][sale_price]") {
		t.Fatal("expected the on-sale row visible at position 1")
	}
}

func TestFormState_RowBoundsSurface(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{{
		Key:  "entries",
		Kind: fields.KindRepeater,
		Constraints: fields.Constraints{
			MinItems: 1,
			MaxItems: 2,
		},
		Children: []fields.Field{{Key: "name", Kind: fields.KindText}},
	}}

	state, err := New(schema, WithValues(map[string]any{
		"entries": []map[string]any{{"name": "seed"}},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := state.RemoveRow("entries", 0); !errors.Is(err, rows.ErrRowFloor) {
		t.Fatalf("expected ErrRowFloor, got %v", err)
	}
	if _, err := state.InsertRow("entries"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := state.InsertRow("entries"); !errors.Is(err, rows.ErrRowCap) {
		t.Fatalf("expected ErrRowCap, got %v", err)
	}
}

func TestFormState_ValuesAssemblesSchemaShape(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "title", Kind: fields.KindText, Default: "untitled"},
		{Key: "meta", Kind: fields.KindGroup, Children: []fields.Field{
			{Key: "author", Kind: fields.KindText, Default: "anonymous"},
		}},
		{Key: "entries", Kind: fields.KindRepeater, Children: []fields.Field{
			{Key: "name", Kind: fields.KindText},
		}},
	}

	state, err := New(schema, WithValues(map[string]any{
		"entries": []map[string]any{{"name": "one"}},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := state.SetValue("meta.author", "Ada"); err != nil {
		t.Fatalf("set group value: %v", err)
	}

	want := map[string]any{
		"title": "untitled",
		"meta":  map[string]any{"author": "Ada"},
		"entries": []map[string]any{
			{"name": "one"},
		},
	}
	if diff := cmp.Diff(want, state.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFormState_ContainerKeyRejectedAsScalarPath(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "x", Kind: fields.KindText},
		{Key: "meta", Kind: fields.KindGroup, Children: []fields.Field{
			{Key: "author", Kind: fields.KindText},
		}},
		{Key: "entries", Kind: fields.KindRepeater, Children: []fields.Field{
			{Key: "name", Kind: fields.KindText},
		}},
	}

	state, err := New(schema)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// a bare container key is not a scalar path: writing through it must be
	// refused, not slipped into the top-level record where condition lookups
	// would see it.
	for _, path := range []string{"meta", "entries"} {
		if err := state.SetValue(path, "oops"); err == nil {
			t.Fatalf("expected container key %q to be rejected", path)
		}
	}
	if err := state.SetValue("x", "still fine"); err != nil {
		t.Fatalf("scalar set: %v", err)
	}
}

func TestFormState_AccessCheckerExcludesFields(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "title", Kind: fields.KindText},
		{Key: "secret", Kind: fields.KindText, Capability: "manage_secrets"},
	}

	state, err := New(schema, WithAccessChecker(fields.AccessCheckerFunc(func(capability string) bool {
		return capability != "manage_secrets"
	})))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := state.SetValue("secret", "x"); err == nil {
		t.Fatal("expected an inaccessible field to be absent, not settable")
	}
	if _, present := state.Values()["secret"]; present {
		t.Fatal("expected the inaccessible field out of the value tree")
	}
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	valid := map[string]fieldRef{
		"title":             {index: -1, key: "title"},
		"meta.author":       {container: "meta", index: -1, key: "author"},
		"sections[3][name]": {container: "sections", index: 3, key: "name"},
	}
	for path, want := range valid {
		got, err := parsePath(path)
		if err != nil {
			t.Fatalf("parsePath(%q): %v", path, err)
		}
		if got != want {
			t.Fatalf("parsePath(%q) = %+v, want %+v", path, got, want)
		}
	}

	invalid := []string{"", "a.b.c", "x[", "x[y]", "x[-1][y]", "[0][y]", "x[0][]", ".author"}
	for _, path := range invalid {
		if _, err := parsePath(path); err == nil {
			t.Fatalf("expected parsePath(%q) to fail", path)
		}
	}
}
