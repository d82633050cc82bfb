package remotesearch

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// Provider answers type-ahead queries and hydrates labels for values that
// were selected earlier.
type Provider interface {
	// Search returns up to limit options matching the query. limit <= 0
	// means no cap.
	Search(ctx context.Context, query string, limit int) ([]fields.Option, error)

	// Hydrate returns the options for a set of known values, so a
	// pre-selected value can render its label without a search round trip.
	// Unknown values are omitted, not errors.
	Hydrate(ctx context.Context, values []string) ([]fields.Option, error)
}

// TopProvider is the optional capability behind EmptySearchTop endpoints: a
// provider that can list its leading options without a query. Providers that
// do not implement it serve an empty result for empty queries regardless of
// the configured mode.
type TopProvider interface {
	Top(limit int) []fields.Option
}

// Static is a Provider over a fixed option list. Matching is
// case-insensitive substring with prefix matches ranked first.
type Static struct {
	options []fields.Option
}

// NewStatic builds a static provider. The option list is copied.
func NewStatic(options []fields.Option) *Static {
	return &Static{options: append([]fields.Option(nil), options...)}
}

// Search implements Provider.
func (s *Static) Search(_ context.Context, query string, limit int) ([]fields.Option, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	type match struct {
		option   fields.Option
		isPrefix bool
	}
	matches := make([]match, 0, 16)
	for _, option := range s.options {
		label := strings.ToLower(option.Label)
		value := strings.ToLower(option.Value)
		if !strings.Contains(label, query) && !strings.Contains(value, query) {
			continue
		}
		matches = append(matches, match{
			option:   option,
			isPrefix: strings.HasPrefix(label, query) || strings.HasPrefix(value, query),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].option.Label < matches[j].option.Label
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]fields.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.option)
	}
	return out, nil
}

// Hydrate implements Provider.
func (s *Static) Hydrate(_ context.Context, values []string) ([]fields.Option, error) {
	byValue := make(map[string]fields.Option, len(s.options))
	for _, option := range s.options {
		byValue[option.Value] = option
	}

	out := make([]fields.Option, 0, len(values))
	for _, value := range values {
		if option, ok := byValue[value]; ok {
			out = append(out, option)
		}
	}
	return out, nil
}

// Top returns the first options up to limit, for EmptySearchTop endpoints.
func (s *Static) Top(limit int) []fields.Option {
	if limit <= 0 || limit >= len(s.options) {
		return append([]fields.Option(nil), s.options...)
	}
	return append([]fields.Option(nil), s.options[:limit]...)
}

// FieldProvider adapts a Provider into the schema's OptionProvider
// capability, so a search field's sanitize-time membership check resolves
// against the same source the type-ahead uses.
func FieldProvider(p Provider, hydrateValues ...string) fields.OptionProvider {
	return fields.OptionProviderFunc(func(ctx context.Context) ([]fields.Option, error) {
		return p.Hydrate(ctx, hydrateValues)
	})
}
