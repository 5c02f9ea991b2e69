package servicecache

import "time"

// entry is a cache entry.
type entry struct {
	Val interface{}
	Exp time.Time
}

func (e entry) Value() interface{} {
	return e.Val
}

func (e entry) ExpireAt() time.Time {
	return e.Exp
}

// expired is true when entry has expiration time that is not after now.
func (e entry) expired(now time.Time) bool {
	return !e.Exp.IsZero() && !e.Exp.After(now)
}
