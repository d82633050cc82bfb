package sanitize

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// SubmissionJSON sanitizes a raw JSON submission body against the schema.
// Decoding is tolerant: a body that is not a JSON object, or fields of the
// wrong shape, degrade to the same fallbacks Submission applies. Trailing
// garbage after the object is ignored rather than rejected, matching how the
// rest of the pipeline treats untrusted input.
func SubmissionJSON(ctx context.Context, schema []fields.Field, body []byte, opts ...Option) map[string]any {
	return Submission(ctx, schema, decodeObject(body), opts...)
}

func decodeObject(body []byte) map[string]any {
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil
	}
	record, _ := parsed.Value().(map[string]any)
	return record
}
