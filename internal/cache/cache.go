// Package cache decides whether a stored character snapshot can be served
// as-is or must be refreshed from the upstream API.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/metrics"
)

// DefaultTTL is how long a snapshot is trusted before it is refreshed.
const DefaultTTL = 10 * time.Minute

// Store is the character record persistence used by the cache.
type Store interface {
	FindCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error)
	UpsertCharacter(ctx context.Context, record *domain.CharacterRecord) error
}

// Fetcher loads a fresh snapshot from upstream.
type Fetcher interface {
	GetCharacter(ctx context.Context, id int64) (*domain.Character, error)
}

// Cache serves character snapshots with a fixed TTL.
//
// Concurrent refreshes of the same id share a single upstream call. When the
// upstream fails and a stale record exists, the stale snapshot is served.
type Cache struct {
	store   Store
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger

	group singleflight.Group
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache. A ttl <= 0 falls back to DefaultTTL.
func New(store Store, fetcher Fetcher, ttl time.Duration, log logger.Logger, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Cache{
		store:   store,
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured snapshot lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// IsStale reports whether rec must be refreshed at now.
// A record exactly TTL old is stale.
func (c *Cache) IsStale(rec *domain.CharacterRecord, now time.Time) bool {
	if rec == nil || rec.Snapshot == nil {
		return true
	}
	return now.Sub(rec.FetchedAt) >= c.ttl
}

// Get returns the snapshot of character id.
//
// onRefresh, when non-nil, is called right before a network fetch starts so
// the caller can tell its user to wait. It is not called for fresh records.
func (c *Cache) Get(ctx context.Context, id int64, onRefresh func()) (*domain.Character, error) {
	rec, err := c.store.FindCharacter(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn("character store read failed, fetching upstream",
				logger.Int64("character_id", id),
				logger.Error(err))
		}
		rec = nil
	}

	if rec != nil && !c.IsStale(rec, c.now()) {
		metrics.ObserveCacheLookup(metrics.CacheHit)
		return rec.Snapshot, nil
	}

	if onRefresh != nil {
		onRefresh()
	}

	snapshot, err := c.refresh(ctx, id)
	if err == nil {
		metrics.ObserveCacheLookup(metrics.CacheRefresh)
		return snapshot, nil
	}

	if rec != nil && rec.Snapshot != nil {
		metrics.ObserveCacheLookup(metrics.CacheStale)
		c.log.Warn("serving stale character",
			logger.Int64("character_id", id),
			logger.Duration("age", c.now().Sub(rec.FetchedAt)),
			logger.Error(err))
		return rec.Snapshot, nil
	}

	metrics.ObserveCacheLookup(metrics.CacheMissFailed)
	return nil, fmt.Errorf("character %d: %w", id, err)
}

// refresh fetches and stores a snapshot. Calls for the same id are coalesced;
// the shared fetch is detached from any single caller's cancellation.
func (c *Cache) refresh(ctx context.Context, id int64) (*domain.Character, error) {
	ch := c.group.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		fctx := context.WithoutCancel(ctx)

		snapshot, err := c.fetcher.GetCharacter(fctx, id)
		if err != nil {
			return nil, err
		}

		record := &domain.CharacterRecord{ID: id, Snapshot: snapshot, FetchedAt: c.now()}
		if err := c.store.UpsertCharacter(fctx, record); err != nil {
			c.log.Error("failed to store refreshed character",
				logger.Int64("character_id", id),
				logger.Error(err))
		}
		return snapshot, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Character), nil
	}
}
