package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v, want miss", ok, err)
	}

	if err := s.Set(ctx, "key", []byte("v1")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, ok, err := s.Get(ctx, "key")
	if err != nil || !ok || string(data) != "v1" {
		t.Fatalf("Get(key) = %q, %v, %v", data, ok, err)
	}

	if err := s.Set(ctx, "key", []byte("v2")); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if data, _, _ := s.Get(ctx, "key"); string(data) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", data)
	}

	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "key"); ok {
		t.Error("key still present after Delete")
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	// Layout snapshots round-trip through the store.
	l := mosaic.New("editor")
	l.SplitTile("editor", mosaic.Vertical, "terminal", 70)
	if err := mosaic.Save(ctx, s, "layout", l); err != nil {
		t.Fatalf("mosaic.Save error: %v", err)
	}
	loaded, ok := mosaic.Load(ctx, s, "layout")
	if !ok {
		t.Fatal("mosaic.Load = false")
	}
	if got := loaded.AllTiles(); !slices.Equal(got, []mosaic.TileID{"editor", "terminal"}) {
		t.Errorf("loaded tiles = %v", got)
	}
	if err := mosaic.Clear(ctx, s, "layout"); err != nil {
		t.Fatalf("mosaic.Clear error: %v", err)
	}
	if _, ok := mosaic.Load(ctx, s, "layout"); ok {
		t.Error("mosaic.Load after Clear = true")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf)
	buf[0] = 'x'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
	got[0] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased stored buffer: %q", again)
	}
	if keys := s.Keys(); !slices.Equal(keys, []string{"k"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "store"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, _ := NewFileStore(dir)
	if err := s1.Set(ctx, "weird/key with spaces", []byte("data")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	s2, _ := NewFileStore(dir)
	data, ok, err := s2.Get(ctx, "weird/key with spaces")
	if err != nil || !ok || string(data) != "data" {
		t.Errorf("second store Get = %q, %v, %v", data, ok, err)
	}

	// No temporary files are left behind.
	matches, _ := filepath.Glob(filepath.Join(dir, "*", ".tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Set(ctx, "key", []byte("value")); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, ok, err := s.Get(ctx, "key")
	if err != nil || ok || data != nil {
		t.Errorf("Get = %q, %v, %v, want miss", data, ok, err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "mosaic.sqlite")
	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	exerciseStore(t, s)

	if err := s.Set(ctx, "kept", []byte("yes")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	reopened, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()
	if data, ok, _ := reopened.Get(ctx, "kept"); !ok || string(data) != "yes" {
		t.Errorf("reopened Get = %q, %v", data, ok)
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	a := NewScoped(inner, "user:a:")
	b := NewScoped(inner, "user:b:")

	exerciseStore(t, a)

	_ = a.Set(ctx, "layout", []byte("A"))
	_ = b.Set(ctx, "layout", []byte("B"))
	if got := inner.Keys(); !slices.Equal(got, []string{"user:a:layout", "user:b:layout"}) {
		t.Errorf("inner keys = %v", got)
	}
	if data, _, _ := a.Get(ctx, "layout"); string(data) != "A" {
		t.Errorf("scope a sees %q", data)
	}
	if a.Prefix() != "user:a:" {
		t.Errorf("Prefix() = %q", a.Prefix())
	}
}

func TestScopedNilInner(t *testing.T) {
	s := NewScoped(nil, "p:")
	exerciseStore(t, s)
}

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	gets, sets, deletes int
	hits                int
}

func (h *recordingStoreHooks) OnStoreGet(_ context.Context, _ string, hit bool, _ time.Duration, _ error) {
	h.gets++
	if hit {
		h.hits++
	}
}

func (h *recordingStoreHooks) OnStoreSet(context.Context, string, int, time.Duration, error) {
	h.sets++
}

func (h *recordingStoreHooks) OnStoreDelete(context.Context, string, time.Duration, error) {
	h.deletes++
}

func TestInstrument(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), "memory")
	_, _, _ = s.Get(ctx, "k")
	_ = s.Set(ctx, "k", []byte("v"))
	_, _, _ = s.Get(ctx, "k")
	_ = s.Delete(ctx, "k")

	if hooks.gets != 2 || hooks.hits != 1 || hooks.sets != 1 || hooks.deletes != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
	if s.Backend() != "memory" {
		t.Errorf("Backend() = %q", s.Backend())
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"default file", Config{Dir: dir}},
		{"file", Config{Backend: "FILE", Dir: dir}},
		{"memory", Config{Backend: "memory"}},
		{"sqlite", Config{Backend: "sqlite", SQLitePath: filepath.Join(dir, "s.db")}},
		{"scoped memory", Config{Backend: "memory", Prefix: "ws1:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			defer s.Close()
			exerciseStore(t, s)
		})
	}

	s, err := Open(ctx, Config{Backend: "null"})
	if err != nil {
		t.Fatalf("Open(null) error: %v", err)
	}
	if _, ok := s.(*Instrumented); !ok {
		t.Errorf("Open returned %T, want *Instrumented", s)
	}
	scoped, _ := Open(ctx, Config{Backend: "null", Prefix: "x:"})
	if _, ok := scoped.(*Scoped); !ok {
		t.Errorf("Open with prefix returned %T, want *Scoped", scoped)
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown", Config{Backend: "etcd"}, ErrUnknownBackend},
		{"file without dir", Config{Backend: "file"}, ErrMissingConfig},
		{"redis without addr", Config{Backend: "redis"}, ErrMissingConfig},
		{"mongo without uri", Config{Backend: "mongo"}, ErrMissingConfig},
		{"sqlite without path", Config{Backend: "sqlite"}, ErrMissingConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Open error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MOSAIC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOSAIC_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	defer s.Close()
	exerciseStore(t, NewScoped(s, "mosaic-test:"+t.Name()+":"))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MOSAIC_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MOSAIC_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "mosaic_test"})
	if err != nil {
		t.Fatalf("NewMongoStore error: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	boom := errors.New("boom")

	calls := 0
	err := RetryWithBackoff(ctx, fast, func() error {
		calls++
		if calls < 2 {
			return Retryable(boom)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry = %v after %d calls, want success after 2", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, fast, func() error {
		calls++
		return boom
	})
	if err != boom || calls != 1 {
		t.Errorf("non-retryable = %v after %d calls", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, fast, func() error {
		calls++
		return Retryable(boom)
	})
	if !errors.Is(err, boom) || calls != 3 {
		t.Errorf("exhausted = %v after %d calls", err, calls)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	if IsRetryable(boom) {
		t.Error("IsRetryable should return false for unwrapped error")
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = RetryWithBackoff(cctx, Backoff{Attempts: 3, Delay: time.Hour}, func() error {
		return Retryable(boom)
	})
	if err != context.Canceled {
		t.Errorf("canceled = %v, want context.Canceled", err)
	}
}
