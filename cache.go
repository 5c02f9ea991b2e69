package servicecache

import (
	"context"
	"time"
)

const (
	// NoCache is a TimeToLive that disables caching, every Get invokes fetch.
	NoCache = time.Duration(0)

	// Forever is a TimeToLive for entries that never expire.
	//
	// Any negative TimeToLive is treated as Forever.
	Forever = time.Duration(-1)
)

// FetchFunc produces the canonical payload for a key.
//
// It may be invoked again for the same key after a failure, so it must be safe to retry.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Getter returns cached value or the result of a coalesced fetch.
type Getter interface {
	Get(ctx context.Context, key string, fetch FetchFunc) (interface{}, error)
}

// Entry is a cached value.
type Entry interface {
	Value() interface{}
}

// Expirable is an entry with expiration time, zero time means no expiration.
type Expirable interface {
	ExpireAt() time.Time
}

// Walker calls function for every entry in cache and fails on first error returned by that function.
//
// Count of processed entries is returned.
type Walker interface {
	Walk(func(key string, entry Entry) error) (int, error)
}

// Cleaner removes expired entries.
type Cleaner interface {
	Clean(ctx context.Context) int
}
