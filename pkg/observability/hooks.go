// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about graph mutations, layout runs, smell scans and API
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the core packages stay
// free of import cycles and of any particular logging or metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart("graph", len(nodes))
//	// ... run the simulation ...
//	observability.Layout().OnLayoutComplete("graph", len(nodes), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the graph store.
type StoreHooks interface {
	// OnMutation records a successful mutation. Key is the component ID or
	// "from->to" for relationships; revision is the store revision afterwards.
	OnMutation(op, key string, revision uint64)

	// OnRejected records a mutation that failed and left the store unchanged.
	OnRejected(op, key string, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	OnLayoutStart(vizType string, nodeCount int)
	OnLayoutComplete(vizType string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Smell Hooks
// =============================================================================

// SmellHooks receives events from the smell detector.
type SmellHooks interface {
	// OnScan records a completed scan over componentCount components that
	// found pairCount mutual dependencies.
	OnScan(componentCount, pairCount int, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the read-only API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMutation(string, string, uint64) {}
func (NoopStoreHooks) OnRejected(string, string, error)  {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(string, int)                   {}
func (NoopLayoutHooks) OnLayoutComplete(string, int, time.Duration) {}

// NoopSmellHooks is a no-op implementation of SmellHooks.
type NoopSmellHooks struct{}

func (NoopSmellHooks) OnScan(int, int, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks  StoreHooks  = NoopStoreHooks{}
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	smellHooks  SmellHooks  = NoopSmellHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSmellHooks registers custom smell detector hooks.
func SetSmellHooks(h SmellHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		smellHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Smell returns the registered smell hooks.
func Smell() SmellHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return smellHooks
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
	storeHooks = NoopStoreHooks{}
	layoutHooks = NoopLayoutHooks{}
	smellHooks = NoopSmellHooks{}
	httpHooks = NoopHTTPHooks{}
}
