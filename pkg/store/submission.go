package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/sanitize"
	"github.com/goliatone/go-fieldset/pkg/visibility"
)

// SaveSubmission sanitizes a raw submission against the schema and persists
// the resulting value tree, one top-level key per store entry. Keys the
// sanitizer dropped (inaccessible fields) are deleted so stale values do not
// survive a capability change.
func SaveSubmission(ctx context.Context, s Store, item uuid.UUID, schema []fields.Field, raw map[string]any, opts ...sanitize.Option) (map[string]any, error) {
	clean := sanitize.Submission(ctx, schema, raw, opts...)

	for _, field := range schema {
		value, kept := clean[field.Key]
		if !kept {
			if err := s.Delete(ctx, item, field.Key); err != nil {
				return nil, fmt.Errorf("store: clear %s: %w", field.Key, err)
			}
			continue
		}
		if err := s.Set(ctx, item, field.Key, value); err != nil {
			return nil, fmt.Errorf("store: save %s: %w", field.Key, err)
		}
	}
	return clean, nil
}

// Lookup adapts a store to the visibility evaluator's lookup contract for
// one content item, for the server-side initial visibility pass. Read
// failures surface as unresolved keys; the evaluator treats those as empty
// values.
func Lookup(ctx context.Context, s Store, item uuid.UUID) visibility.Lookup {
	return func(field string) (any, bool) {
		value, err := s.Get(ctx, item, field)
		if err != nil {
			return nil, false
		}
		return value, true
	}
}
