package store

import (
	"context"
	"time"

	"github.com/matzehuels/mosaic/pkg/observability"
)

// Instrumented reports every operation of the wrapped store to
// observability.Store(), tagged with the backend name.
type Instrumented struct {
	inner   Store
	backend string
}

// Instrument wraps s so its operations emit storage hooks.
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{inner: s, backend: backend}
}

// Backend returns the backend name used in hook events.
func (s *Instrumented) Backend() string { return s.backend }

// Get reads key and emits OnStoreGet.
func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := s.inner.Get(ctx, key)
	observability.Store().OnStoreGet(ctx, s.backend, ok, time.Since(start), err)
	return data, ok, err
}

// Set writes key and emits OnStoreSet.
func (s *Instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, data)
	observability.Store().OnStoreSet(ctx, s.backend, len(data), time.Since(start), err)
	return err
}

// Delete removes key and emits OnStoreDelete.
func (s *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	observability.Store().OnStoreDelete(ctx, s.backend, time.Since(start), err)
	return err
}

// Close closes the wrapped store.
func (s *Instrumented) Close() error {
	return s.inner.Close()
}

var _ Store = (*Instrumented)(nil)
