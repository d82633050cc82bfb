// Package fieldset is a declarative field schema and conditional visibility
// engine: integrators declare a tree of form fields (flat, grouped, or
// repeated) attached to a content item, and the engine keeps three behaviors
// mutually consistent: initial visibility, live visibility under edits, and
// sanitization of submitted values back into a schema-shaped value tree.
//
// The root package re-exports the entry points hosts wire up; the packages
// under pkg/ carry the implementation.
package fieldset

import (
	"context"

	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/runtime"
	"github.com/goliatone/go-fieldset/pkg/sanitize"
	"github.com/goliatone/go-fieldset/pkg/visibility"
)

// Field is one canonical field declaration.
type Field = fields.Field

// Condition is one canonical visibility test.
type Condition = fields.Condition

// ConfigError reports an integrator mistake found at normalization time.
type ConfigError = fields.ConfigError

// Option is one selectable value/label pair.
type Option = fields.Option

// Lookup resolves a controller field key to its current value.
type Lookup = visibility.Lookup

// FormState owns one form's live value tree and visibility flags.
type FormState = runtime.FormState

// NormalizeSchema turns raw field declarations into canonical schema nodes.
// Configuration errors are fatal and returned as *ConfigError values.
func NormalizeSchema(raw []fields.Raw) ([]Field, error) {
	return fields.Normalize(raw, "")
}

// ComputeInitialVisibility runs the one-shot server-side visibility pass
// against persisted values and returns visible-or-not per field path.
func ComputeInitialVisibility(schema []Field, lookup Lookup) map[string]bool {
	return runtime.ComputeInitialVisibility(schema, lookup)
}

// SanitizeSubmission cleans a raw submitted value tree against the schema.
// The output shape always matches the schema shape; untrusted input never
// raises.
func SanitizeSubmission(ctx context.Context, schema []Field, raw map[string]any, opts ...sanitize.Option) map[string]any {
	return sanitize.Submission(ctx, schema, raw, opts...)
}

// NewFormState builds the client runtime for a schema: the visibility
// controller plus the row mutation entry points.
func NewFormState(schema []Field, opts ...runtime.Option) (*FormState, error) {
	return runtime.New(schema, opts...)
}

// WithValues seeds a form state with an initial value tree.
func WithValues(values map[string]any) runtime.Option {
	return runtime.WithValues(values)
}

// WithAccessChecker excludes fields the checker denies from the form state.
func WithAccessChecker(checker fields.AccessChecker) runtime.Option {
	return runtime.WithAccessChecker(checker)
}
