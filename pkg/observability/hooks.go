// Package observability provides hooks for metrics, tracing, and logging.
//
// Hosts register hook implementations at startup; the workspace, the storage
// backends and the HTTP host emit events through them. Nothing in the layout
// engine itself depends on this package.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Emitters fetch the current hooks on every event:
//
//	start := time.Now()
//	ok := layout.CloseTile(tile)
//	observability.Layout().OnMutation(ctx, "close", ok, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events about layout mutations made through a
// workspace.
type LayoutHooks interface {
	// OnMutation records one mutation attempt. op names the operation
	// ("split", "close", "resize", "move", "lock", "replace", ...) and ok
	// reports whether the layout accepted it.
	OnMutation(ctx context.Context, op string, ok bool, duration time.Duration)

	// OnLoad records a snapshot load. found is false when no snapshot existed.
	OnLoad(ctx context.Context, key string, found bool, err error)

	// OnSave records a snapshot write.
	OnSave(ctx context.Context, key string, size int, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from storage backends.
type StoreHooks interface {
	// OnStoreGet records a read. hit is false for missing keys.
	OnStoreGet(ctx context.Context, backend string, hit bool, duration time.Duration, err error)

	// OnStoreSet records a write of size bytes.
	OnStoreSet(ctx context.Context, backend string, size int, duration time.Duration, err error)

	// OnStoreDelete records a delete.
	OnStoreDelete(ctx context.Context, backend string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP host.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnMutation(context.Context, string, bool, time.Duration) {}
func (NoopLayoutHooks) OnLoad(context.Context, string, bool, error)             {}
func (NoopLayoutHooks) OnSave(context.Context, string, int, error)              {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreGet(context.Context, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int, time.Duration, error)  {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string, time.Duration, error)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom storage hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered storage hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
