package store

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists the names accepted by Open.
var Backends = []string{BackendFile, BackendMemory, BackendNull, BackendRedis, BackendMongo, BackendSQLite}

// Config selects and configures a backend.
type Config struct {
	Backend string // defaults to "file"

	Dir string // file

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	SQLitePath string

	// Prefix, when set, wraps the backend in a Scoped store.
	Prefix string
}

// Open constructs the backend named by cfg.Backend. The result is
// instrumented and, with a non-empty Prefix, scoped.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("%w: file store directory", ErrMissingConfig)
		}
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendNull:
		s = NewNullStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, cfg.Backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}

	s = Instrument(s, backend)
	if cfg.Prefix != "" {
		s = NewScoped(s, cfg.Prefix)
	}
	return s, nil
}
