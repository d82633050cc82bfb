package remotesearch

import (
	"context"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// Result carries search results together with the generation token of the
// request that produced them.
type Result struct {
	Generation uint64
	Options    []fields.Option
}

// Session serializes keystroke-driven searches for one field instance. Each
// search is stamped with a monotonically increasing generation; Accept
// discards results that were superseded by a later request, so a slow early
// response can never overwrite a faster later one.
//
// Sessions live inside the single-threaded client runtime and need no
// locking: searches are issued and results accepted from the same event
// loop.
type Session struct {
	provider Provider
	issued   uint64
	applied  uint64
}

// NewSession wraps a provider for one field instance.
func NewSession(provider Provider) *Session {
	return &Session{provider: provider}
}

// Search issues the next-generation query and stamps its result.
func (s *Session) Search(ctx context.Context, query string, limit int) (Result, error) {
	s.issued++
	generation := s.issued

	options, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		return Result{Generation: generation}, err
	}
	return Result{Generation: generation, Options: options}, nil
}

// Accept reports whether a result should be applied: true only when no
// newer result has been applied yet. Accepted results advance the applied
// generation.
func (s *Session) Accept(result Result) bool {
	if result.Generation <= s.applied {
		return false
	}
	s.applied = result.Generation
	return true
}
