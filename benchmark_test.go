package servicecache_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	pca "github.com/patrickmn/go-cache"
	"github.com/vearutop/servicecache"
)

func Benchmark_Store(b *testing.B) {
	s := servicecache.NewStore(servicecache.Config{TimeToLive: time.Minute}.Use)
	ctx := context.Background()

	fetch := func(ctx context.Context) (interface{}, error) {
		return 123, nil
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)
		// nolint
		_, _ = s.Get(ctx, k, fetch)
	}
}

func Benchmark_Store_parallel(b *testing.B) {
	s := servicecache.NewStore(servicecache.Config{TimeToLive: time.Minute}.Use)
	ctx := context.Background()

	fetch := func(ctx context.Context) (interface{}, error) {
		return 123, nil
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := "oneone" + strconv.Itoa(i%10000)
			// nolint
			_, _ = s.Get(ctx, k, fetch)
			i++
		}
	})
}

func Benchmark_Patrickmn(b *testing.B) {
	c := pca.New(time.Minute, 10*time.Minute)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)

		if _, found := c.Get(k); !found {
			c.Set(k, 123, pca.DefaultExpiration)
		}
	}
}
