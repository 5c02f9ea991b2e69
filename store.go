package servicecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bool64/cache"
	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/cespare/xxhash/v2"
	"github.com/swaggest/usecase/status"
)

const shards = 64

// Config controls Store instance.
type Config struct {
	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// Name is store instance name, used in stats and logging.
	Name string

	// TimeToLive is delay before entry expiration.
	//
	// NoCache (zero value) disables caching, Forever (any negative value) disables expiration.
	TimeToLive time.Duration

	// Now returns current time, time.Now by default.
	Now func() time.Time
}

// Use is a functional option for NewStore to apply configuration.
func (c Config) Use(cfg *Config) {
	*cfg = c
}

type bucket struct {
	sync.Mutex
	data    map[string]entry
	pending map[string]*Future
}

var _ Getter = &Store{}

// Store caches fetched data of a single resource type and coalesces concurrent fetches of a key.
//
// Please use NewStore to create instance.
type Store struct {
	buckets [shards]bucket

	config Config
	log    ctxd.Logger
	stat   stats.Tracker
	now    func() time.Time
}

// NewStore creates an instance of Store with optional configuration.
func NewStore(options ...func(cfg *Config)) *Store {
	cfg := Config{}
	for _, option := range options {
		option(&cfg)
	}

	s := &Store{
		config: cfg,
		log:    cfg.Logger,
		stat:   cfg.Stats,
		now:    cfg.Now,
	}

	if s.log == nil {
		s.log = ctxd.NoOpLogger{}
	}

	if s.stat == nil {
		s.stat = stats.NoOp{}
	}

	if s.now == nil {
		s.now = time.Now
	}

	for i := 0; i < shards; i++ {
		s.buckets[i].data = make(map[string]entry)
		s.buckets[i].pending = make(map[string]*Future)
	}

	return s
}

// Name returns store name.
func (s *Store) Name() string {
	return s.config.Name
}

// TimeToLive returns default time to live of entries.
func (s *Store) TimeToLive() time.Duration {
	return s.config.TimeToLive
}

func (s *Store) bucket(key string) *bucket {
	return &s.buckets[xxhash.Sum64String(key)%shards]
}

// Get returns cached value or the result of fetch.
//
// Concurrent calls for the same key share a single fetch and its result or error.
// Failed fetch is not cached, next call fetches again.
func (s *Store) Get(ctx context.Context, key string, fetch FetchFunc) (interface{}, error) {
	return s.GetFuture(ctx, key, fetch).Wait(ctx)
}

// GetFuture returns a settled future on cache hit, otherwise a pending future of a new or running fetch.
//
// Reading cached value can be skipped with cache.WithSkipRead context, such call
// still attaches to a fetch already in progress.
func (s *Store) GetFuture(ctx context.Context, key string, fetch FetchFunc) *Future {
	if key == "" {
		return settledFuture(nil, status.Wrap(ErrInvalidKey, status.InvalidArgument))
	}

	b := s.bucket(key)

	b.Lock()

	if !cache.SkipRead(ctx) {
		if e, found := b.data[key]; found {
			if !e.expired(s.now()) {
				b.Unlock()

				s.stat.Add(ctx, MetricHit, 1, "name", s.config.Name)
				s.log.Debug(ctx, "cache hit", "name", s.config.Name, "key", key)

				return settledFuture(e.Val, nil)
			}

			s.stat.Add(ctx, MetricExpired, 1, "name", s.config.Name)
			s.log.Debug(ctx, "cache key expired", "name", s.config.Name, "key", key)
		}
	}

	// Bucket remains locked, load releases it.
	return s.load(ctx, b, key, fetch)
}

// load must be called with b locked.
func (s *Store) load(ctx context.Context, b *bucket, key string, fetch FetchFunc) *Future {
	if f, found := b.pending[key]; found {
		b.Unlock()

		s.stat.Add(ctx, MetricCoalesced, 1, "name", s.config.Name)
		s.log.Debug(ctx, "waiting for cache value", "name", s.config.Name, "key", key)

		return f
	}

	f := newFuture()
	b.pending[key] = f
	b.Unlock()

	s.stat.Add(ctx, MetricMiss, 1, "name", s.config.Name)

	go s.build(detachedContext{ctx: ctx}, b, key, f, fetch)

	return f
}

func (s *Store) build(ctx context.Context, b *bucket, key string, f *Future, fetch FetchFunc) {
	s.log.Debug(ctx, "building cache value", "name", s.config.Name, "key", key)
	s.stat.Add(ctx, MetricBuild, 1, "name", s.config.Name)

	val, err := s.call(ctx, fetch)
	ttl := s.ttl(ctx)
	written := false

	b.Lock()

	if err == nil && ttl != NoCache {
		b.data[key] = entry{Val: val, Exp: s.expireAt(ttl)}
		written = true
	}

	// Entry is set before pending fetch is removed, so that no caller can miss both.
	delete(b.pending, key)
	b.Unlock()

	if err != nil {
		s.stat.Add(ctx, MetricFailed, 1, "name", s.config.Name)
		s.log.Warn(ctx, "failed to fetch cache value",
			"error", err,
			"name", s.config.Name,
			"key", key)
	} else if written {
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
		s.log.Debug(ctx, "wrote to cache", "name", s.config.Name, "key", key, "ttl", ttl)
	}

	f.settle(val, err)
}

func (s *Store) call(ctx context.Context, fetch FetchFunc) (val interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = nil
			err = fmt.Errorf("%w: %v", ErrFetchPanicked, r)
		}
	}()

	return fetch(ctx)
}

// ttl is store default unless a positive ttl is set with cache.WithTTL.
func (s *Store) ttl(ctx context.Context) time.Duration {
	if ttl := cache.TTL(ctx); ttl > 0 {
		return ttl
	}

	return s.config.TimeToLive
}

func (s *Store) expireAt(ttl time.Duration) time.Time {
	if ttl < 0 {
		return time.Time{}
	}

	return s.now().Add(ttl)
}

// Clean removes expired entries and returns number of removed entries.
//
// Entries without expiration and fetches in progress are not affected.
func (s *Store) Clean(ctx context.Context) int {
	now := s.now()
	removed := 0
	items := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.Lock()
		for k, e := range b.data {
			if e.expired(now) {
				delete(b.data, k)

				removed++
			}
		}
		items += len(b.data)
		b.Unlock()
	}

	s.log.Debug(ctx, "cleared expired cache items",
		"name", s.config.Name,
		"removed", removed,
		"count", items,
	)

	s.stat.Add(ctx, MetricCleaned, float64(removed), "name", s.config.Name)
	s.stat.Set(ctx, MetricItems, float64(items), "name", s.config.Name)

	return removed
}

// DeleteAll removes all entries, fetches in progress are not affected.
func (s *Store) DeleteAll(ctx context.Context) {
	for i := range s.buckets {
		b := &s.buckets[i]

		b.Lock()
		b.data = make(map[string]entry)
		b.Unlock()
	}

	s.log.Debug(ctx, "deleted all cache items", "name", s.config.Name)
	s.stat.Set(ctx, MetricItems, 0, "name", s.config.Name)
}

// Pending is true when fetch of the key is in progress.
func (s *Store) Pending(key string) bool {
	b := s.bucket(key)

	b.Lock()
	_, found := b.pending[key]
	b.Unlock()

	return found
}

// Len returns number of entries in store, including expired ones that were not cleaned yet.
func (s *Store) Len() int {
	cnt := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.Lock()
		cnt += len(b.data)
		b.Unlock()
	}

	return cnt
}

// Walk walks cached entries.
func (s *Store) Walk(walkFn func(key string, value Entry) error) (int, error) {
	n := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.Lock()
		keys := make([]string, 0, len(b.data))
		entries := make([]entry, 0, len(b.data))

		for k, e := range b.data {
			keys = append(keys, k)
			entries = append(entries, e)
		}
		b.Unlock()

		for j, k := range keys {
			if err := walkFn(k, entries[j]); err != nil {
				return n, err
			}

			n++
		}
	}

	return n, nil
}
