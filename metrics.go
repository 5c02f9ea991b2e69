package servicecache

// Metrics, labelled with "name" of the store.
const (
	MetricHit       = "cache_hit"
	MetricMiss      = "cache_miss"
	MetricExpired   = "cache_expired"
	MetricCoalesced = "cache_coalesced"
	MetricBuild     = "cache_build"
	MetricFailed    = "cache_failed"
	MetricWrite     = "cache_write"
	MetricCleaned   = "cache_cleaned"
	MetricItems     = "cache_items"
)
