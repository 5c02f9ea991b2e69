package servicecache

// SentinelError is an error.
type SentinelError string

const (
	// ErrInvalidKey indicates an empty cache key.
	ErrInvalidKey = SentinelError("invalid cache key")

	// ErrNotRegistered indicates a lookup of a store name that was never registered.
	ErrNotRegistered = SentinelError("store is not registered")

	// ErrFetchPanicked indicates a fetch function that panicked instead of returning.
	ErrFetchPanicked = SentinelError("fetch panicked")

	// ErrNothingToInvalidate indicates no callbacks were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
