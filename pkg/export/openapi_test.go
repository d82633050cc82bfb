package export

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

func floatPtr(v float64) *float64 { return &v }

func typeOf(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	values := ref.Value.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func TestOpenAPISchema_ScalarMapping(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "title", Kind: fields.KindText},
		{Key: "starts", Kind: fields.KindDate},
		{Key: "homepage", Kind: fields.KindURL},
		{Key: "contact", Kind: fields.KindEmail},
		{Key: "featured", Kind: fields.KindCheckbox},
		{Key: "cover", Kind: fields.KindMedia},
		{Key: "rating", Kind: fields.KindNumber, Constraints: fields.Constraints{
			Min: floatPtr(1), Max: floatPtr(5), Step: floatPtr(0.5),
		}},
		{Key: "count", Kind: fields.KindNumber},
	}

	doc := OpenAPISchema(context.Background(), schema)

	if got := typeOf(openapi3.NewSchemaRef("", doc)); got != openapi3.TypeObject {
		t.Fatalf("expected an object root, got %q", got)
	}

	wantTypes := map[string]string{
		"title":    openapi3.TypeString,
		"starts":   openapi3.TypeString,
		"homepage": openapi3.TypeString,
		"contact":  openapi3.TypeString,
		"featured": openapi3.TypeBoolean,
		"cover":    openapi3.TypeInteger,
		"rating":   openapi3.TypeNumber,
		"count":    openapi3.TypeInteger,
	}
	for key, want := range wantTypes {
		if got := typeOf(doc.Properties[key]); got != want {
			t.Fatalf("property %q: type %q, want %q", key, got, want)
		}
	}

	if format := doc.Properties["starts"].Value.Format; format != "date" {
		t.Fatalf("expected date format, got %q", format)
	}
	rating := doc.Properties["rating"].Value
	if rating.Min == nil || *rating.Min != 1 || rating.Max == nil || *rating.Max != 5 {
		t.Fatalf("expected bounds carried, got %+v", rating)
	}
}

func TestOpenAPISchema_ChoiceEnum(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "status", Kind: fields.KindSelect, Constraints: fields.Constraints{
			Options: fields.StaticValues("draft", "published"),
		}},
	}

	doc := OpenAPISchema(context.Background(), schema)
	status := doc.Properties["status"].Value
	if diff := cmp.Diff([]any{"draft", "published"}, status.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAPISchema_ProviderFailureSkipsEnum(t *testing.T) {
	t.Parallel()

	failing := fields.OptionProviderFunc(func(context.Context) ([]fields.Option, error) {
		return nil, context.DeadlineExceeded
	})
	schema := []fields.Field{
		{Key: "status", Kind: fields.KindSelect, Constraints: fields.Constraints{Options: failing}},
	}

	doc := OpenAPISchema(context.Background(), schema)
	if enum := doc.Properties["status"].Value.Enum; enum != nil {
		t.Fatalf("expected no enum on provider failure, got %v", enum)
	}
}

func TestOpenAPISchema_Containers(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "meta", Kind: fields.KindGroup, Children: []fields.Field{
			{Key: "author", Kind: fields.KindText},
		}},
		{Key: "sections", Kind: fields.KindRepeater,
			Constraints: fields.Constraints{MinItems: 1, MaxItems: 4},
			Children: []fields.Field{
				{Key: "heading", Kind: fields.KindText},
			}},
	}

	doc := OpenAPISchema(context.Background(), schema)

	meta := doc.Properties["meta"].Value
	if got := typeOf(doc.Properties["meta"]); got != openapi3.TypeObject {
		t.Fatalf("expected object group, got %q", got)
	}
	if _, ok := meta.Properties["author"]; !ok {
		t.Fatal("expected the group child property")
	}

	sections := doc.Properties["sections"].Value
	if got := typeOf(doc.Properties["sections"]); got != openapi3.TypeArray {
		t.Fatalf("expected array repeater, got %q", got)
	}
	if sections.MinItems != 1 {
		t.Fatalf("expected minItems 1, got %d", sections.MinItems)
	}
	if sections.MaxItems == nil || *sections.MaxItems != 4 {
		t.Fatalf("expected maxItems 4, got %v", sections.MaxItems)
	}
	if got := typeOf(sections.Items); got != openapi3.TypeObject {
		t.Fatalf("expected object rows, got %q", got)
	}
	if _, ok := sections.Items.Value.Properties["heading"]; !ok {
		t.Fatal("expected the row child property")
	}
}

func TestOpenAPISchema_Dimension(t *testing.T) {
	t.Parallel()

	schema := []fields.Field{
		{Key: "width", Kind: fields.KindDimension, Constraints: fields.Constraints{
			Units:        map[string]string{"px": "Pixels", "em": "Ems"},
			CompanionKey: "amount",
		}},
	}

	doc := OpenAPISchema(context.Background(), schema)
	width := doc.Properties["width"].Value
	if _, ok := width.Properties["amount"]; !ok {
		t.Fatal("expected the companion property")
	}
	unit := width.Properties["unit"].Value
	if diff := cmp.Diff([]any{"em", "px"}, unit.Enum); diff != "" {
		t.Fatalf("unit enum mismatch (-want +got):\n%s", diff)
	}
}
