// Package store provides keyed blob storage backends for layout snapshots.
//
// Every backend implements [Store], which satisfies [mosaic.Storage], so any
// of them can be handed to [mosaic.Save], [mosaic.Load] and [mosaic.Clear].
//
// # Backends
//
//   - [FileStore]: one file per key under a directory, for CLI usage
//   - [MemoryStore]: process-local map, for tests and ephemeral sessions
//   - [NullStore]: stores nothing, for running without persistence
//   - [RedisStore]: Redis strings via go-redis
//   - [MongoStore]: one MongoDB document per key
//   - [SQLiteStore]: a single kv table in an SQLite file
//
// [Scoped] wraps any backend with a key prefix so several workspaces can
// share one backend, and [Instrument] reports every operation to the
// observability hooks.
//
// Use [Open] to construct a backend from a [Config].
package store

import (
	"context"

	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Store is a keyed blob store.
//
// Get reports a missing key as (nil, false, nil). Delete of a missing key is
// not an error. Close releases connections; the store must not be used
// afterwards.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var _ mosaic.Storage = Store(nil)
