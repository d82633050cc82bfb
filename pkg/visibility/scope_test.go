package visibility

import (
	"testing"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

func TestScope_RowNeverFallsBackToTopLevel(t *testing.T) {
	t.Parallel()

	scope := RowScope(map[string]any{"y": "row"})

	if value, ok := scope.Lookup("y"); !ok || value != "row" {
		t.Fatalf("expected row-local resolution, got %v %v", value, ok)
	}
	if value, ok := scope.Lookup("x"); ok {
		t.Fatalf("expected no fallback from a row scope, resolved %v", value)
	}
}

func TestScope_GroupFallsBackToTopLevel(t *testing.T) {
	t.Parallel()

	top := map[string]any{"x": "top"}
	group := map[string]any{"y": "group"}

	scope := GroupScope(group, top)

	if value, ok := scope.Lookup("y"); !ok || value != "group" {
		t.Fatalf("expected group-local resolution first, got %v %v", value, ok)
	}
	if value, ok := scope.Lookup("x"); !ok || value != "top" {
		t.Fatalf("expected top-level fallback from a group scope, got %v %v", value, ok)
	}
}

func TestScope_LocalShadowsTopLevel(t *testing.T) {
	t.Parallel()

	scope := GroupScope(map[string]any{"x": "local"}, map[string]any{"x": "top"})
	if value, _ := scope.Lookup("x"); value != "local" {
		t.Fatalf("expected the local record to shadow the top level, got %v", value)
	}
}

func TestScope_RowAsymmetryDrivesSatisfaction(t *testing.T) {
	t.Parallel()

	conditions := []fields.Condition{
		{Field: "x", Operator: fields.OpEqual, Value: "on"},
	}

	// top-level x would satisfy the rule, but from inside a row the
	// reference must not find it: the unresolved controller reads as empty.
	rowScope := RowScope(map[string]any{"other": 1})
	if IsSatisfied(conditions, rowScope.Lookup) {
		t.Fatal("expected row-scoped rule to stay unsatisfied")
	}

	topScope := TopScope(map[string]any{"x": "on"})
	if !IsSatisfied(conditions, topScope.Lookup) {
		t.Fatal("expected top-level rule to be satisfied")
	}
}
