package export

import (
	"context"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// OpenAPISchema converts a canonical schema into an OpenAPI object schema
// describing the sanitized value tree. Option providers are resolved to
// enumerate choice kinds; a provider failure leaves the property without an
// enum rather than failing the export.
func OpenAPISchema(ctx context.Context, schema []fields.Field) *openapi3.Schema {
	out := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(schema)),
	}
	for _, field := range schema {
		out.Properties[field.Key] = openapi3.NewSchemaRef("", fieldSchema(ctx, field))
	}
	return out
}

func fieldSchema(ctx context.Context, field fields.Field) *openapi3.Schema {
	switch field.Kind {
	case fields.KindGroup:
		return groupSchema(ctx, field)
	case fields.KindRepeater:
		return repeaterSchema(ctx, field)
	case fields.KindNumber:
		return numberSchema(field)
	case fields.KindCheckbox:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}}
	case fields.KindDate:
		return stringSchema(field, "date")
	case fields.KindURL:
		return stringSchema(field, "uri")
	case fields.KindEmail:
		return stringSchema(field, "email")
	case fields.KindSelect, fields.KindRadio:
		s := stringSchema(field, "")
		s.Enum = optionEnum(ctx, field)
		return s
	case fields.KindMultiSelect:
		items := stringSchema(field, "")
		items.Enum = optionEnum(ctx, field)
		return arraySchema(items, 0, 0)
	case fields.KindSearchMulti:
		return arraySchema(stringSchema(fields.Field{}, ""), 0, 0)
	case fields.KindMedia:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}
	case fields.KindMediaList:
		return arraySchema(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}, 0, 0)
	case fields.KindDimension:
		return dimensionSchema(field)
	default:
		return stringSchema(field, "")
	}
}

func groupSchema(ctx context.Context, field fields.Field) *openapi3.Schema {
	s := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(field.Children)),
	}
	for _, child := range field.Children {
		s.Properties[child.Key] = openapi3.NewSchemaRef("", fieldSchema(ctx, child))
	}
	return s
}

func repeaterSchema(ctx context.Context, field fields.Field) *openapi3.Schema {
	return arraySchema(
		groupSchema(ctx, field),
		field.Constraints.MinItems,
		field.Constraints.MaxItems,
	)
}

func numberSchema(field fields.Field) *openapi3.Schema {
	s := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}
	c := field.Constraints
	if c.Step == nil || *c.Step == float64(int64(*c.Step)) {
		s.Type = &openapi3.Types{openapi3.TypeInteger}
	}
	if c.Min != nil {
		value := *c.Min
		s.Min = &value
	}
	if c.Max != nil {
		value := *c.Max
		s.Max = &value
	}
	return s
}

func stringSchema(field fields.Field, format string) *openapi3.Schema {
	s := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: format}
	if text, ok := field.Default.(string); ok && text != "" {
		s.Default = text
	}
	return s
}

func arraySchema(items *openapi3.Schema, minItems, maxItems int) *openapi3.Schema {
	s := &openapi3.Schema{
		Type:  &openapi3.Types{openapi3.TypeArray},
		Items: openapi3.NewSchemaRef("", items),
	}
	if minItems > 0 {
		s.MinItems = uint64(minItems)
	}
	if maxItems > 0 {
		value := uint64(maxItems)
		s.MaxItems = &value
	}
	return s
}

func dimensionSchema(field fields.Field) *openapi3.Schema {
	names := make([]string, 0, len(field.Constraints.Units))
	for unit := range field.Constraints.Units {
		names = append(names, unit)
	}
	sort.Strings(names)
	units := make([]any, 0, len(names))
	for _, name := range names {
		units = append(units, name)
	}

	unit := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Enum: units}
	amount := numberSchema(field)

	return &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{
			field.Constraints.CompanionKey: openapi3.NewSchemaRef("", amount),
			"unit":                         openapi3.NewSchemaRef("", unit),
		},
	}
}

func optionEnum(ctx context.Context, field fields.Field) []any {
	provider := field.Constraints.Options
	if provider == nil {
		return nil
	}
	options, err := provider.Resolve(ctx)
	if err != nil {
		return nil
	}
	enum := make([]any, 0, len(options))
	for _, option := range options {
		enum = append(enum, option.Value)
	}
	return enum
}
