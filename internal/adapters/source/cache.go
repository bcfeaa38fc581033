package source

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/pkg/metrics"
)

// Cached keeps the last successful load for a fixed TTL. Errors are never
// cached.
type Cached struct {
	next Loader
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	rows    []model.GameRow
	fetched time.Time
	valid   bool
}

// NewCached wraps next with a TTL cache.
func NewCached(next Loader, ttl time.Duration) *Cached {
	return &Cached{next: next, ttl: ttl, now: time.Now}
}

// Load returns the cached rows while fresh and otherwise reloads. Callers
// get their own copy of the slice.
func (c *Cached) Load(ctx context.Context) ([]model.GameRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetched) < c.ttl {
		metrics.RecordSourceCache(true)
		return slices.Clone(c.rows), nil
	}
	metrics.RecordSourceCache(false)

	rows, err := c.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.rows = rows
	c.fetched = c.now()
	c.valid = true
	return slices.Clone(rows), nil
}

// Invalidate drops the cached rows so the next Load fetches again.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.rows = nil
	c.mu.Unlock()
}

// Invalidate drops any cache in front of l. It is a no-op for uncached loaders.
func Invalidate(l Loader) {
	if c, ok := l.(*Cached); ok {
		c.Invalidate()
	}
}
