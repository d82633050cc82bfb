package remotesearch

import "net/http"

// EmptySearchMode controls what an empty query returns.
type EmptySearchMode string

const (
	// EmptySearchNone returns no results for an empty query.
	EmptySearchNone EmptySearchMode = "none"
	// EmptySearchTop returns the first options up to the limit.
	EmptySearchTop EmptySearchMode = "top"
)

// GuardFunc vets a request before the handler serves it. A non-nil error
// refuses the request; see StatusError for carrying a status code.
type GuardFunc func(r *http.Request) error

// Options configures the search endpoint.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the baseline endpoint configuration.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/search",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    20,
		MaxLimit:        100,
		EmptySearchMode: EmptySearchNone,
	}
}

// NewOptions applies overrides on top of the defaults and re-applies the
// defaults for any value an override cleared.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchNone
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/search"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	return opts
}

// WithRoutePath overrides the route the handler mounts under.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

// WithSearchParam overrides the query-string parameter carrying the search
// term.
func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		o.SearchParam = name
	}
}

// WithLimitParam overrides the query-string parameter carrying the result
// cap.
func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		o.LimitParam = name
	}
}

// WithDefaultLimit sets the result count used when the request names none.
func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = limit
	}
}

// WithMaxLimit caps the result count a request may ask for.
func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		o.MaxLimit = limit
	}
}

// WithEmptySearchMode selects the empty-query behavior.
func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		o.EmptySearchMode = mode
	}
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
