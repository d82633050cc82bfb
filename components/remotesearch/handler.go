package remotesearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// HTTPError lets guard errors carry a status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a ready-made HTTPError.
type StatusError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

// Unwrap exposes the wrapped error.
func (e StatusError) Unwrap() error { return e.Err }

// StatusCode implements HTTPError.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionsResponse struct {
	Data []fields.Option `json:"data"`
}

// Handler builds a net/http handler serving search queries from the given
// provider, with default options plus any overrides.
func Handler(provider Provider, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(provider, NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
// Callers are expected to pass an Options value produced by NewOptions so
// defaults and clamps apply.
func HandlerWithOptions(provider Provider, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil || provider == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		query := r.URL.Query().Get(opts.SearchParam)
		limit := clampLimit(parseInt(r.URL.Query().Get(opts.LimitParam)), opts)

		results := search(r.Context(), provider, query, limit, opts)
		if results == nil {
			results = []fields.Option{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}

func search(ctx context.Context, provider Provider, query string, limit int, opts Options) []fields.Option {
	if limit == 0 {
		return nil
	}
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if top, ok := provider.(TopProvider); ok {
				return top.Top(limit)
			}
		}
		return nil
	}
	results, err := provider.Search(ctx, query, limit)
	if err != nil {
		// provider failures degrade to an empty result set; the client keeps
		// whatever labels it already has.
		return nil
	}
	return results
}

func writeGuardError(w http.ResponseWriter, err error) {
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
