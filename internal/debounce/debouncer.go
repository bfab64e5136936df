// Package debounce coalesces bursts of calls per key. Only the latest call
// in a burst runs; earlier ones return ErrSuperseded.
package debounce

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSuperseded is returned to a call that a newer call for the same key replaced.
var ErrSuperseded = errors.New("superseded by a newer request")

type call struct {
	superseded chan struct{}
	once       sync.Once
	cancel     context.CancelFunc
}

func (c *call) supersede() {
	c.once.Do(func() {
		close(c.superseded)
		c.cancel()
	})
}

// Debouncer delays each call by a quiet period.
type Debouncer[T any] struct {
	quiet   time.Duration
	mu      sync.Mutex
	pending map[string]*call
}

func New[T any](quiet time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		quiet:   quiet,
		pending: make(map[string]*call),
	}
}

// Do waits for the quiet period and then runs fn, unless another Do for key
// arrives first. A call superseded while fn is running has its context
// cancelled and its result discarded.
func (d *Debouncer[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &call{superseded: make(chan struct{}), cancel: cancel}
	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		prev.supersede()
	}
	d.pending[key] = c
	d.mu.Unlock()
	defer d.release(key, c)

	timer := time.NewTimer(d.quiet)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-c.superseded:
		slog.Debug("Debounced call superseded before running", "key", key)
		return zero, ErrSuperseded
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	result, err := fn(runCtx)

	select {
	case <-c.superseded:
		slog.Debug("Debounced call superseded while running", "key", key)
		return zero, ErrSuperseded
	default:
	}
	return result, err
}

func (d *Debouncer[T]) release(key string, c *call) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] == c {
		delete(d.pending, key)
	}
}

// Pending returns the number of keys with a call waiting or running.
func (d *Debouncer[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
