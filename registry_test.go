package servicecache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/servicecache"
)

func TestRegistry_Register(t *testing.T) {
	r := servicecache.NewRegistry()
	s1 := servicecache.NewStore(servicecache.Config{Name: "posts", TimeToLive: 5 * time.Second}.Use)
	s2 := servicecache.NewStore(servicecache.Config{Name: "posts", TimeToLive: time.Hour}.Use)

	assert.True(t, r.Register("posts", s1))
	assert.False(t, r.Register("posts", s1))
	assert.False(t, r.Register("posts", s2))

	s, err := r.Lookup(context.Background(), "posts")
	require.NoError(t, err)
	assert.True(t, s == s1)
	assert.Equal(t, 5*time.Second, s.TimeToLive())

	assert.False(t, r.Register("", s1))
	assert.False(t, r.Register("comments", nil))
	assert.Equal(t, []string{"posts"}, r.Names())
}

func TestRegistry_RegisterFunc(t *testing.T) {
	r := servicecache.NewRegistry()
	calls := int64(0)

	factory := func() *servicecache.Store {
		atomic.AddInt64(&calls, 1)
		time.Sleep(time.Millisecond)

		return servicecache.NewStore()
	}

	n := 50
	registered := int64(0)
	wg := sync.WaitGroup{}
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			if r.RegisterFunc("comments", factory) {
				atomic.AddInt64(&registered, 1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	assert.Equal(t, int64(1), atomic.LoadInt64(&registered))

	assert.False(t, r.RegisterFunc("comments", factory))
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestRegistry_Lookup_notRegistered(t *testing.T) {
	logger := &ctxd.LoggerMock{}
	st := &stats.TrackerMock{}
	r := servicecache.NewRegistry(servicecache.RegistryConfig{Logger: logger, Stats: st})

	s, err := r.Lookup(context.Background(), "unknown")
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, servicecache.ErrNotRegistered))
	assert.Contains(t, logger.String(), "store is not registered")
	assert.Equal(t, 1, st.Int(servicecache.MetricNotRegistered))

	assert.Panics(t, func() {
		r.MustLookup("unknown")
	})
}

func TestRegistry_CleanAll(t *testing.T) {
	ctx := context.Background()
	clk := newClock(0)
	r := servicecache.NewRegistry()

	posts := servicecache.NewStore(servicecache.Config{Name: "posts", TimeToLive: time.Second, Now: clk.Now}.Use)
	users := servicecache.NewStore(servicecache.Config{Name: "users", TimeToLive: servicecache.Forever, Now: clk.Now}.Use)

	require.True(t, r.Register("posts", posts))
	require.True(t, r.Register("users", users))
	assert.Equal(t, []string{"posts", "users"}, r.Names())

	require.NoError(t, posts.Write(ctx, []byte("detail#1"), 1))
	require.NoError(t, posts.Write(ctx, []byte("detail#2"), 2))
	require.NoError(t, users.Write(ctx, []byte("detail#1"), 1))

	clk.set(2000)

	assert.Equal(t, 2, r.CleanAll(ctx))
	assert.Equal(t, 0, posts.Len())
	assert.Equal(t, 1, users.Len())

	r.DeleteAll(ctx)
	assert.Equal(t, 0, users.Len())
}
