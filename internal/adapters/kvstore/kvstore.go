// Package kvstore is the local key-value persistence boundary: whole
// collections are written as opaque serialized blobs under a collection key
// and read back once at startup.
package kvstore

import "context"

// Store saves and loads opaque blobs by collection key. Save replaces the
// whole blob; there are no partial or delta writes.
type Store interface {
	// Save durably writes the blob under the key, replacing any previous
	// value.
	Save(ctx context.Context, key string, blob []byte) error

	// Load reads the blob stored under the key. The second return value is
	// false when the key has never been written.
	Load(ctx context.Context, key string) ([]byte, bool, error)
}
