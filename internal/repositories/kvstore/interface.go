// Package kvstore provides the local persistent key-value store backing
// every synced data category. Keys are plain strings; values are opaque
// bytes (usually JSON-encoded records).
package kvstore

import "context"

// Store is the narrow persistence interface the category services depend
// on. Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically: either every key is updated or
	// none is.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
