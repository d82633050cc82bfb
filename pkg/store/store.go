package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no value exists for the item and field key.
var ErrNotFound = errors.New("store: value not found")

// Store persists sanitized field values per content item.
type Store interface {
	// Get returns the value stored for one field of one item. ErrNotFound
	// when nothing was stored.
	Get(ctx context.Context, item uuid.UUID, key string) (any, error)

	// Set stores the value for one field of one item, replacing any
	// previous value.
	Set(ctx context.Context, item uuid.UUID, key string, value any) error

	// Delete removes the stored value, if any. Deleting an absent value is
	// not an error.
	Delete(ctx context.Context, item uuid.UUID, key string) error

	// Keys lists the field keys stored for one item.
	Keys(ctx context.Context, item uuid.UUID) ([]string, error)
}
