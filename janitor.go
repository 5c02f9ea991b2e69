package servicecache

import (
	"context"
	"sync"
	"time"

	"github.com/bool64/ctxd"
)

// Janitor periodically cleans expired entries of all stores in registry.
//
// Please use NewJanitor to create instance and Close to stop it.
type Janitor struct {
	registry *Registry
	interval time.Duration
	log      ctxd.Logger

	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewJanitor starts cleaning registry every interval, default interval is 1m.
func NewJanitor(registry *Registry, interval time.Duration, logger ctxd.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}

	if logger == nil {
		logger = ctxd.NoOpLogger{}
	}

	j := &Janitor{
		registry: registry,
		interval: interval,
		log:      logger,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	go j.cleaner()

	return j
}

func (j *Janitor) cleaner() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx := context.Background()
			removed := j.registry.CleanAll(ctx)

			j.log.Debug(ctx, "cleaned expired cache items", "removed", removed)
		case <-j.closed:
			return
		}
	}
}

// Close stops janitor and waits for a cleanup in progress.
func (j *Janitor) Close() {
	j.closeOnce.Do(func() {
		close(j.closed)
	})

	<-j.done
}
