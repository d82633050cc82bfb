package remotesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// HTTP is a Provider backed by a remote endpoint that speaks the component's
// wire shape: {"data": [{"value": ..., "label": ...}]}. Requests retry on
// transient failures. A failed search or hydration surfaces as an error so
// the caller can keep previously hydrated labels in place and show a
// non-fatal notice; it never blocks the rest of the form.
type HTTP struct {
	endpoint    string
	searchParam string
	limitParam  string
	valuesParam string
	client      *retryablehttp.Client
}

// HTTPOptionFn mutates an HTTP provider during construction.
type HTTPOptionFn func(*HTTP)

// WithClient replaces the underlying retrying client.
func WithClient(client *retryablehttp.Client) HTTPOptionFn {
	return func(h *HTTP) {
		h.client = client
	}
}

// WithParams overrides the query parameter names for search term, limit, and
// hydration values.
func WithParams(search, limit, values string) HTTPOptionFn {
	return func(h *HTTP) {
		if search != "" {
			h.searchParam = search
		}
		if limit != "" {
			h.limitParam = limit
		}
		if values != "" {
			h.valuesParam = values
		}
	}
}

// NewHTTP builds a remote provider for the given endpoint URL.
func NewHTTP(endpoint string, fns ...HTTPOptionFn) *HTTP {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil

	h := &HTTP{
		endpoint:    endpoint,
		searchParam: "q",
		limitParam:  "limit",
		valuesParam: "values",
		client:      client,
	}
	for _, fn := range fns {
		if fn != nil {
			fn(h)
		}
	}
	return h
}

// Search implements Provider.
func (h *HTTP) Search(ctx context.Context, query string, limit int) ([]fields.Option, error) {
	params := url.Values{}
	params.Set(h.searchParam, query)
	if limit > 0 {
		params.Set(h.limitParam, strconv.Itoa(limit))
	}
	return h.fetch(ctx, params)
}

// Hydrate implements Provider.
func (h *HTTP) Hydrate(ctx context.Context, values []string) ([]fields.Option, error) {
	if len(values) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set(h.valuesParam, strings.Join(values, ","))
	return h.fetch(ctx, params)
}

func (h *HTTP) fetch(ctx context.Context, params url.Values) ([]fields.Option, error) {
	target := h.endpoint
	if strings.Contains(target, "?") {
		target += "&" + params.Encode()
	} else {
		target += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("remotesearch: build request: %w", err)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotesearch: %s: %w", h.endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotesearch: %s: unexpected status %d", h.endpoint, res.StatusCode)
	}

	var payload optionsResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("remotesearch: decode %s: %w", h.endpoint, err)
	}
	return payload.Data, nil
}
