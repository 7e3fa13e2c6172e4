package dashboard

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-hotel-concierge/app/observability/metrics"
)

// ContentCache memoises generated content for one session. Entries are
// stamped with the epoch they were requested in; Clear bumps the epoch so
// completions that started before it are dropped.
type ContentCache[V any] struct {
	name  string
	items *cache.Cache

	mu    sync.Mutex
	epoch uint64
}

func NewContentCache[V any](name string) *ContentCache[V] {
	return &ContentCache[V]{
		name:  name,
		items: cache.New(cache.NoExpiration, 0),
	}
}

func (c *ContentCache[V]) Get(ctx context.Context, key string) (V, bool) {
	result := "miss"
	defer func() {
		metrics.Get().CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cache", c.name), attribute.String("result", result)))
	}()

	var zero V
	v, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}
	result = "hit"
	return v.(V), true
}

// Put stores value if epoch is still current and reports whether it did.
func (c *ContentCache[V]) Put(key string, value V, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	c.items.Set(key, value, cache.NoExpiration)
	return true
}

// Clear drops every entry and returns the new epoch.
func (c *ContentCache[V]) Clear() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Flush()
	c.epoch++
	return c.epoch
}

func (c *ContentCache[V]) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *ContentCache[V]) Len() int {
	return c.items.ItemCount()
}
