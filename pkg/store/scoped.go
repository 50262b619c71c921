package store

import "context"

// Scoped wraps a Store with a key prefix for isolation between workspaces
// sharing one backend.
//
// Example usage:
//
//	// Per-user layouts in a shared Redis
//	s := NewScoped(redisStore, "user:abc123:")
//	mosaic.Save(ctx, s, "main", layout) // stored as "user:abc123:main"
type Scoped struct {
	inner  Store
	prefix string
}

// NewScoped creates a store that prepends prefix to every key. A nil inner
// store is replaced by a MemoryStore.
func NewScoped(inner Store, prefix string) *Scoped {
	if inner == nil {
		inner = NewMemoryStore()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Prefix returns the key prefix.
func (s *Scoped) Prefix() string { return s.prefix }

// Get reads the prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set writes the prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

// Delete removes the prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the wrapped store.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Store = (*Scoped)(nil)
