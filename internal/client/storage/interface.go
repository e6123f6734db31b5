package storage

import "context"

// KV is the get/set/remove surface over string keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is a KV that can also apply a group of writes atomically.
type Store interface {
	KV
	// Update runs fn against a transaction-bound KV. All writes made through
	// that KV are committed together if fn returns nil and discarded otherwise.
	Update(ctx context.Context, fn func(ctx context.Context, kv KV) error) error
}
