package fields

import "context"

// Option is one selectable value/label pair.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionProvider resolves the option set for a choice field. Resolve is
// called fresh at each point of use (render, sanitize, evaluate) because
// dynamic sources may change between requests.
type OptionProvider interface {
	Resolve(ctx context.Context) ([]Option, error)
}

// OptionProviderFunc adapts a function into an OptionProvider.
type OptionProviderFunc func(ctx context.Context) ([]Option, error)

// Resolve delegates to the underlying function.
func (fn OptionProviderFunc) Resolve(ctx context.Context) ([]Option, error) {
	return fn(ctx)
}

// StaticOptions returns a provider backed by a fixed option list. The list is
// copied so later mutation of the argument cannot leak into resolved sets.
func StaticOptions(options ...Option) OptionProvider {
	copied := append([]Option(nil), options...)
	return OptionProviderFunc(func(context.Context) ([]Option, error) {
		return copied, nil
	})
}

// StaticValues returns a provider whose labels equal their values.
func StaticValues(values ...string) OptionProvider {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Value: value, Label: value})
	}
	return StaticOptions(options...)
}
