// internal/store/cache.go
//
// Process-lifetime cache of the parsed sheet.
//
// State machine:
//   Empty ──(fetch ok)──▶ Populated(records, fetchedAt) ──(fetch ok)──▶ Populated(...)
//
// Characteristics:
//   - Fresh while now-fetchedAt < TTL (1h by default); fresh reads never hit the network.
//   - A failed refresh keeps serving the last good snapshot, flagged Stale.
//   - A failed refresh with nothing cached is a SourceUnavailableError.
//   - Concurrent refreshes are coalesced (singleflight); state is replaced
//     wholesale under a mutex, never partially updated.
//   - A caller waits for a refresh only until its context ends. It then gets
//     the cached snapshot flagged Stale, or the context error when empty.
//   - A forced call that joins a forced refresh already in flight shares its
//     result instead of starting another fetch.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/robalobadob/gumballz/internal/sheet"
	"github.com/robalobadob/gumballz/internal/vocab"
)

// DefaultTTL is how long a fetched snapshot stays fresh.
const DefaultTTL = time.Hour

// Snapshot is the record set handed to views.
// Records is shared between callers and must be treated as read-only.
type Snapshot struct {
	Records   []vocab.Record
	FetchedAt time.Time
	Stale     bool // served from cache after a failed refresh
}

// SourceUnavailableError is a failed fetch/parse with no cached data to fall back to.
type SourceUnavailableError struct {
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return "Không thể tải hoặc xử lý dữ liệu nguồn."
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Reader is what handlers need from the cache.
type Reader interface {
	// Get returns the current snapshot, refreshing it when stale or forced.
	Get(ctx context.Context, forceRefresh bool) (Snapshot, error)
}

// Cache is the fetch-parse-cache pipeline over a sheet.Fetcher.
type Cache struct {
	fetcher      sheet.Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	parse        vocab.ParseOptions
	now          func() time.Time

	mu        sync.RWMutex // guards records, fetchedAt, populated
	records   []vocab.Record
	fetchedAt time.Time
	populated bool

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(d time.Duration) Option { return func(c *Cache) { c.ttl = d } }

// WithClock injects the time source.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// WithParseOptions controls how the fetched CSV is read.
func WithParseOptions(o vocab.ParseOptions) Option { return func(c *Cache) { c.parse = o } }

// WithFetchTimeout bounds one refresh. Zero means the caller's context only.
func WithFetchTimeout(d time.Duration) Option { return func(c *Cache) { c.fetchTimeout = d } }

// New constructs an empty Cache.
func New(f sheet.Fetcher, opts ...Option) *Cache {
	c := &Cache{fetcher: f, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get implements Reader.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (Snapshot, error) {
	if !forceRefresh {
		if snap, ok := c.fresh(); ok {
			cacheHits.Inc()
			return snap, nil
		}
	}

	key := "refresh"
	if forceRefresh {
		key = "force"
	}
	ch := c.group.DoChan(key, func() (any, error) {
		if !forceRefresh {
			// another caller may have refreshed while we waited
			if snap, ok := c.fresh(); ok {
				return snap, nil
			}
		}
		return c.refresh(ctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	case <-ctx.Done():
		return c.abandon(ctx)
	}
}

// abandon answers a caller whose context ended while a refresh was in
// flight. The refresh keeps running for the next reader.
func (c *Cache) abandon(ctx context.Context) (Snapshot, error) {
	if snap, ok := c.Peek(); ok {
		cacheStaleServes.Inc()
		log.Warn().Err(ctx.Err()).
			Time("fetchedAt", snap.FetchedAt).
			Msg("sheet refresh still running; serving cached data")
		snap.Stale = true
		return snap, nil
	}
	return Snapshot{}, fmt.Errorf("store.Get > %w", ctx.Err())
}

// Peek returns the cached snapshot without fetching.
func (c *Cache) Peek() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated {
		return Snapshot{}, false
	}
	return Snapshot{Records: c.records, FetchedAt: c.fetchedAt}, true
}

// fresh returns the cached snapshot when it is still within the TTL.
func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated || c.now().Sub(c.fetchedAt) >= c.ttl {
		return Snapshot{}, false
	}
	return Snapshot{Records: c.records, FetchedAt: c.fetchedAt}, true
}

// refresh runs fetch → parse → filter and swaps the state on success.
// The refresh outlives a cancelled caller since other callers may share it.
func (c *Cache) refresh(ctx context.Context) (Snapshot, error) {
	ctx = context.WithoutCancel(ctx)
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	records, err := c.load(ctx)
	if err != nil {
		cacheRefreshes.WithLabelValues("error").Inc()
		if snap, ok := c.Peek(); ok {
			cacheStaleServes.Inc()
			log.Warn().Err(err).
				Time("fetchedAt", snap.FetchedAt).
				Int("records", len(snap.Records)).
				Msg("sheet refresh failed; serving cached data")
			snap.Stale = true
			return snap, nil
		}
		log.Error().Err(err).Msg("sheet refresh failed; nothing cached")
		return Snapshot{}, &SourceUnavailableError{Err: err}
	}

	now := c.now()
	c.mu.Lock()
	c.records = records
	c.fetchedAt = now
	c.populated = true
	c.mu.Unlock()

	cacheRefreshes.WithLabelValues("ok").Inc()
	cacheRecords.Set(float64(len(records)))
	log.Debug().Int("records", len(records)).Msg("sheet refreshed")
	return Snapshot{Records: records, FetchedAt: now}, nil
}

func (c *Cache) load(ctx context.Context) ([]vocab.Record, error) {
	text, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetcher.Fetch > %w", err)
	}
	records, err := vocab.Load(text, c.parse)
	if err != nil {
		return nil, fmt.Errorf("vocab.Load > %w", err)
	}
	return records, nil
}
