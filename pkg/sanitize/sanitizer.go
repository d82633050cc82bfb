package sanitize

import (
	"context"
	"sort"
	"strconv"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// TemplatePlaceholder marks a repeater row emitted by the client-side row
// template before it is instantiated. Rows keyed by it are never real input
// and are always skipped.
const TemplatePlaceholder = "{{row}}"

// Option customises a sanitizer run.
type Option func(*config)

type config struct {
	access fields.AccessChecker
}

// WithAccessChecker restricts sanitization to fields the checker grants.
// Inaccessible fields are treated as absent: their keys never appear in the
// output tree.
func WithAccessChecker(checker fields.AccessChecker) Option {
	return func(c *config) {
		c.access = checker
	}
}

// Submission sanitizes a raw submitted value tree against the schema. The
// output holds exactly the accessible schema keys: no extra keys, no missing
// keys for groups, and only rows that pass the content test for repeaters.
func Submission(ctx context.Context, schema []fields.Field, raw map[string]any, opts ...Option) map[string]any {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make(map[string]any, len(schema))
	for _, field := range schema {
		if !fields.Accessible(cfg.access, field) {
			continue
		}
		out[field.Key] = Value(ctx, field, raw[field.Key], cfg.access)
	}
	return out
}

// Value sanitizes one raw value against one schema node. A caller-supplied
// sanitizer override on the node fully replaces the kind default; it is not
// additionally post-processed.
func Value(ctx context.Context, field fields.Field, raw any, access fields.AccessChecker) any {
	if field.Sanitize != nil {
		return field.Sanitize(raw)
	}

	switch field.Kind {
	case fields.KindGroup:
		return sanitizeGroup(ctx, field, raw, access)
	case fields.KindRepeater:
		return sanitizeRepeater(ctx, field, raw, access)
	default:
		return sanitizeScalar(ctx, field, raw)
	}
}

// sanitizeGroup always returns a full record, never partial and never
// dropped. Missing members take the child default.
func sanitizeGroup(ctx context.Context, field fields.Field, raw any, access fields.AccessChecker) map[string]any {
	record, _ := raw.(map[string]any)

	out := make(map[string]any, len(field.Children))
	for _, child := range field.Children {
		if !fields.Accessible(access, child) {
			continue
		}
		memberRaw, present := record[child.Key]
		if !present || memberRaw == nil {
			memberRaw = child.Default
		}
		out[child.Key] = Value(ctx, child, memberRaw, access)
	}
	return out
}

// sanitizeRepeater sanitizes every row, keeps only rows with at least one
// meaningful member, and truncates to the configured cap.
func sanitizeRepeater(ctx context.Context, field fields.Field, raw any, access fields.AccessChecker) []map[string]any {
	rows := submittedRows(raw)

	kept := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]any, len(field.Children))
		meaningful := false
		for _, child := range field.Children {
			if !fields.Accessible(access, child) {
				continue
			}
			memberRaw, present := row[child.Key]
			if !present || memberRaw == nil {
				memberRaw = child.Default
			}
			value := Value(ctx, child, memberRaw, access)
			clean[child.Key] = value
			if Meaningful(child, value) {
				meaningful = true
			}
		}
		if meaningful {
			kept = append(kept, clean)
		}
	}

	if limit := field.Constraints.MaxItems; limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// submittedRows accepts the shapes a repeater value arrives in: an ordered
// list, or an index-keyed map as produced by bracketed form encodings. Rows
// keyed by the unresolved template placeholder are skipped; so is anything
// that is not a record.
func submittedRows(raw any) []map[string]any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case []map[string]any:
		return typed
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, entry := range typed {
			if row, ok := entry.(map[string]any); ok {
				out = append(out, row)
			}
		}
		return out
	case map[string]any:
		indices := make([]int, 0, len(typed))
		byIndex := make(map[int]map[string]any, len(typed))
		for key, entry := range typed {
			if key == TemplatePlaceholder {
				continue
			}
			index, err := strconv.Atoi(key)
			if err != nil || index < 0 {
				continue
			}
			row, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			indices = append(indices, index)
			byIndex[index] = row
		}
		sort.Ints(indices)
		out := make([]map[string]any, 0, len(indices))
		for _, index := range indices {
			out = append(out, byIndex[index])
		}
		return out
	default:
		return nil
	}
}
