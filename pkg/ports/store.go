package ports

import "context"

// BlobStore is a key/value storage origin holding opaque serialized records.
// It plays the part browser local storage plays for a page.
type BlobStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key in a single call.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
