package nutrition

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// Lookuper is the underlying uncached lookup, satisfied by SiteClient.
type Lookuper interface {
	Lookup(ctx context.Context, foodName string) (model.NutritionPerServing, error)
}

// CachingResolver wraps a Lookuper with a per-run cache keyed by
// normalized food name. Every outcome is cached, including not-found,
// so within one run the underlying lookup runs at most once per
// distinct name. Concurrent callers racing on the same name share a
// single in-flight lookup, and the cache write is first-wins: once a
// name holds an outcome it is never overwritten.
//
// CachingResolver is safe for concurrent use and is shared across all
// location workers for cross-location deduplication.
type CachingResolver struct {
	// lookuper performs the actual external lookup.
	lookuper Lookuper

	// logger is used for structured logging.
	logger *slog.Logger

	// group collapses concurrent lookups of the same name into one call.
	group singleflight.Group

	// mu guards cache.
	mu sync.Mutex

	// cache maps normalized food name to its resolved outcome.
	cache map[string]cacheEntry
}

// cacheEntry is one cached resolution outcome. found is false for
// not-found outcomes, which are cached too: the resolver never retries
// within a run.
type cacheEntry struct {
	nutrition model.NutritionPerServing
	found     bool
}

// NewCachingResolver creates a resolver wrapping the given lookuper.
func NewCachingResolver(lookuper Lookuper, logger *slog.Logger) *CachingResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingResolver{
		lookuper: lookuper,
		logger:   logger,
		cache:    make(map[string]cacheEntry),
	}
}

// Resolve returns the nutrition for the food name, consulting the cache
// first. The name is normalized before lookup, so "Apple  Juice" and
// "apple juice" are one entry.
func (r *CachingResolver) Resolve(ctx context.Context, foodName string) (model.NutritionPerServing, error) {
	key := NormalizeName(foodName)
	if key == "" {
		return model.NutritionPerServing{}, fmt.Errorf("empty food name: %w", ErrNotFound)
	}

	if entry, ok := r.cached(key); ok {
		return entry.result(key)
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		// Another caller may have filled the cache while this call
		// waited on the singleflight slot.
		if entry, ok := r.cached(key); ok {
			return entry, nil
		}

		n, err := r.lookuper.Lookup(ctx, key)
		entry := cacheEntry{nutrition: n, found: err == nil}
		if err != nil {
			r.logger.Debug("lookup failed", "food", key, "error", err)
		}
		r.store(key, entry)
		return r.mustCached(key), nil
	})

	return v.(cacheEntry).result(key)
}

// cached returns the cache entry for a key.
func (r *CachingResolver) cached(key string) (cacheEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[key]
	return entry, ok
}

// store writes an entry unless the key is already present. First
// resolution wins; a slower concurrent resolution of the same name
// never replaces the value handed to earlier callers.
func (r *CachingResolver) store(key string, entry cacheEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.cache[key]; exists {
		return
	}
	r.cache[key] = entry
}

// mustCached returns the entry for a key that store has just ensured.
func (r *CachingResolver) mustCached(key string) cacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[key]
}

// result converts a cache entry into the Resolve return values.
func (e cacheEntry) result(key string) (model.NutritionPerServing, error) {
	if !e.found {
		return model.NutritionPerServing{}, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return e.nutrition, nil
}

// Compile-time interface check.
var _ Resolver = (*CachingResolver)(nil)
