// Package servicecache provides per resource type stores that cache fetched remote data
// and coalesce concurrent fetches of the same key.
//
// Features:
//
//  - Fresh cached value is served without calling upstream.
//  - Concurrent requests of a key share a single in-flight fetch and its result or error.
//  - Three-way time to live: NoCache, Forever or a positive duration.
//  - Failed fetches are never cached, next request retries.
//  - Cleanup of expired entries is explicit (Store.Clean) or scheduled with Janitor.
//  - Stores are registered once per resource type in a Registry.
//  - Allows logging, stats collection.
//  - Store implements github.com/bool64/cache ReadWriter.
//
// Stores are not bounded by size, entries are only evicted by time or DeleteAll,
// so key cardinality should be kept reasonable.
package servicecache
