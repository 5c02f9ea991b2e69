package servicecache

import (
	"context"
	"sort"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/puzpuzpuz/xsync"
	"github.com/swaggest/usecase/status"
	"golang.org/x/sync/singleflight"
)

// MetricNotRegistered counts lookups of unknown store names.
const MetricNotRegistered = "cache_store_not_registered"

// RegistryConfig controls Registry instance.
type RegistryConfig struct {
	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker
}

// Registry is a directory of stores by resource type name.
//
// Registration is idempotent, a registered store is never replaced.
type Registry struct {
	stores *xsync.Map
	sf     singleflight.Group

	log  ctxd.Logger
	stat stats.Tracker
}

// NewRegistry creates an empty Registry.
func NewRegistry(cfg ...RegistryConfig) *Registry {
	config := RegistryConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	r := &Registry{
		stores: xsync.NewMap(),
		log:    config.Logger,
		stat:   config.Stats,
	}

	if r.log == nil {
		r.log = ctxd.NoOpLogger{}
	}

	if r.stat == nil {
		r.stat = stats.NoOp{}
	}

	return r
}

// Register installs store under name and returns true, or returns false if name is already taken.
func (r *Registry) Register(name string, store *Store) bool {
	if name == "" || store == nil {
		r.log.Warn(context.Background(), "skipping invalid store registration", "name", name)

		return false
	}

	_, loaded := r.stores.LoadOrStore(name, store)
	if loaded {
		r.log.Debug(context.Background(), "store already registered", "name", name)

		return false
	}

	r.log.Debug(context.Background(), "store registered", "name", name, "ttl", store.TimeToLive())

	return true
}

// RegisterFunc installs store created by factory and returns true, or returns false if name is already taken.
//
// Factory is not invoked for a registered name and is invoked once for concurrent registrations,
// only the caller that invoked it gets true.
func (r *Registry) RegisterFunc(name string, factory func() *Store) bool {
	if _, found := r.stores.Load(name); found {
		return false
	}

	installed := false

	_, _, _ = r.sf.Do(name, func() (interface{}, error) {
		if _, found := r.stores.Load(name); !found {
			installed = r.Register(name, factory())
		}

		return nil, nil
	})

	return installed
}

// Lookup returns registered store or error matching ErrNotRegistered.
func (r *Registry) Lookup(ctx context.Context, name string) (*Store, error) {
	if v, found := r.stores.Load(name); found {
		return v.(*Store), nil
	}

	r.stat.Add(ctx, MetricNotRegistered, 1, "name", name)
	r.log.Error(ctx, "store is not registered", "name", name)

	return nil, ctxd.WrapError(ctx, status.Wrap(ErrNotRegistered, status.NotFound), "lookup failed", "name", name)
}

// MustLookup returns registered store or panics.
func (r *Registry) MustLookup(name string) *Store {
	s, err := r.Lookup(context.Background(), name)
	if err != nil {
		panic(err)
	}

	return s
}

// Names returns sorted names of registered stores.
func (r *Registry) Names() []string {
	var names []string

	r.stores.Range(func(key string, _ interface{}) bool {
		names = append(names, key)

		return true
	})

	sort.Strings(names)

	return names
}

// CleanAll removes expired entries of all registered stores and returns total number of removed entries.
func (r *Registry) CleanAll(ctx context.Context) int {
	removed := 0

	r.stores.Range(func(_ string, v interface{}) bool {
		removed += v.(*Store).Clean(ctx)

		return true
	})

	return removed
}

// DeleteAll removes entries of all registered stores.
func (r *Registry) DeleteAll(ctx context.Context) {
	r.stores.Range(func(_ string, v interface{}) bool {
		v.(*Store).DeleteAll(ctx)

		return true
	})
}
