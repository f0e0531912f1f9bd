// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout passes, drag interactions, and
// document store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetDragHooks(&myDragHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, nodeCount)
//	// ... run the pass ...
//	observability.Layout().OnLayoutComplete(ctx, nodeCount, slotCount, degraded, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnLayoutStart records the start of a full layout pass.
	OnLayoutStart(ctx context.Context, nodeCount int)

	// OnLayoutComplete records a finished pass. degraded is true when the
	// slot cap was exhausted and nodes were parked on the last slot.
	OnLayoutComplete(ctx context.Context, nodeCount, slotCount int, degraded bool, duration time.Duration)

	// OnRepair records a structural repair performed before a pass.
	OnRepair(ctx context.Context, reanchored, removed, pruned int)
}

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from the drag controller.
type DragHooks interface {
	// OnDragStart records a pointer-down on a node or anchor.
	OnDragStart(ctx context.Context, kind, elementID string)

	// OnDragCommit records a drag that committed a model change.
	OnDragCommit(ctx context.Context, kind, elementID string, duration time.Duration)

	// OnDragRevert records a drag that ended without a commit.
	OnDragRevert(ctx context.Context, kind, elementID, reason string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnLoad records a document read.
	OnLoad(ctx context.Context, backend, documentID string, found bool)

	// OnSave records a document write.
	OnSave(ctx context.Context, backend, documentID string, size int)

	// OnError records a store failure.
	OnError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int)                                 {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, int, bool, time.Duration)    {}
func (NoopLayoutHooks) OnRepair(context.Context, int, int, int)                            {}

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(context.Context, string, string)                 {}
func (NoopDragHooks) OnDragCommit(context.Context, string, string, time.Duration) {}
func (NoopDragHooks) OnDragRevert(context.Context, string, string, string)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, bool) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int)  {}
func (NoopStoreHooks) OnError(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	dragHooks   DragHooks   = NoopDragHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout passes.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetDragHooks registers custom drag hooks.
// This should be called once at application startup before any interaction.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store use.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	dragHooks = NoopDragHooks{}
	storeHooks = NoopStoreHooks{}
}
