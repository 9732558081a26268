// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about token decoding, blow detection and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Libraries never import a metrics backend; main wires one in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(&myCodecHooks{})
//	    observability.SetBlowHooks(&myBlowHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	rep := candle.Inspect(token)
//	observability.Codec().OnDecode(ctx, len(token), len(rep.Candles), rep.Dropped, rep.Malformed)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events about candle tokens crossing a boundary.
type CodecHooks interface {
	// OnEncode records a token built from candles.
	OnEncode(ctx context.Context, candles, tokenLen int)

	// OnDecode records a token read back. dropped counts discarded records;
	// malformed reports that the token as a whole did not decode.
	OnDecode(ctx context.Context, tokenLen, candles, dropped int, malformed bool)
}

// =============================================================================
// Blow Hooks
// =============================================================================

// BlowHooks receives events from blow detection.
type BlowHooks interface {
	// OnSample records a volume reading and whether it counted as a blow.
	OnSample(ctx context.Context, level float64, blowing bool)

	// OnBlow records the candles a blow extinguished.
	OnBlow(ctx context.Context, level float64, extinguished int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnEncode(context.Context, int, int)            {}
func (NoopCodecHooks) OnDecode(context.Context, int, int, int, bool) {}

// NoopBlowHooks is a no-op implementation of BlowHooks.
type NoopBlowHooks struct{}

func (NoopBlowHooks) OnSample(context.Context, float64, bool) {}
func (NoopBlowHooks) OnBlow(context.Context, float64, int)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks CodecHooks = NoopCodecHooks{}
	blowHooks  BlowHooks  = NoopBlowHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetCodecHooks registers custom codec hooks.
// This should be called once at application startup.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetBlowHooks registers custom blow detection hooks.
// This should be called once at application startup.
func SetBlowHooks(h BlowHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		blowHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// Blow returns the registered blow detection hooks.
func Blow() BlowHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return blowHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	blowHooks = NoopBlowHooks{}
	cacheHooks = NoopCacheHooks{}
}
