package servicecache

import "context"

// Future is a result of a fetch shared by all coalesced callers of a key.
type Future struct {
	done chan struct{}
	val  interface{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func settledFuture(val interface{}, err error) *Future {
	f := &Future{done: make(chan struct{}), val: val, err: err}
	close(f.done)

	return f
}

// settle must be called once.
func (f *Future) settle(val interface{}, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done is closed when fetch is settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until fetch is settled and returns its result.
//
// Context cancellation only stops waiting, the fetch continues for other callers.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
