package servicecache

import (
	"context"

	"github.com/bool64/cache"
)

var (
	_ cache.ReadWriter = &Store{}
	_ cache.Deleter    = &Store{}
)

// Read returns fresh cached value or cache.ErrNotFound.
func (s *Store) Read(ctx context.Context, key []byte) (interface{}, error) {
	if cache.SkipRead(ctx) {
		return nil, cache.ErrNotFound
	}

	k := string(key)
	b := s.bucket(k)

	b.Lock()
	e, found := b.data[k]
	b.Unlock()

	if !found || e.expired(s.now()) {
		return nil, cache.ErrNotFound
	}

	return e.Val, nil
}

// Write stores value with store or context ttl, value is discarded when caching is disabled.
func (s *Store) Write(ctx context.Context, key []byte, value interface{}) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	ttl := s.ttl(ctx)
	if ttl == NoCache {
		return nil
	}

	k := string(key)
	b := s.bucket(k)

	b.Lock()
	b.data[k] = entry{Val: value, Exp: s.expireAt(ttl)}
	b.Unlock()

	s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
	s.log.Debug(ctx, "wrote to cache", "name", s.config.Name, "key", k, "ttl", ttl)

	return nil
}

// Delete removes entry, cache.ErrNotFound is returned for a missing key.
func (s *Store) Delete(ctx context.Context, key []byte) error {
	k := string(key)
	b := s.bucket(k)

	b.Lock()
	_, found := b.data[k]
	delete(b.data, k)
	b.Unlock()

	if !found {
		return cache.ErrNotFound
	}

	s.log.Debug(ctx, "deleted cache item", "name", s.config.Name, "key", k)

	return nil
}
