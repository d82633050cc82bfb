package remotesearch

import "net/http"

// Component bundles a provider with its endpoint configuration and routing
// helpers.
type Component struct {
	provider Provider
	opts     Options
}

// New constructs a component over the given provider with default options
// plus any overrides.
func New(provider Provider, fns ...OptionFn) *Component {
	return &Component{provider: provider, opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Provider returns the underlying option source.
func (c *Component) Provider() Provider {
	if c == nil {
		return nil
	}
	return c.provider
}

// Handler returns a net/http handler for search queries.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.provider, c.opts)
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.provider, c.opts)
}
