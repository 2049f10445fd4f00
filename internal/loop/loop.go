// Package loop is a single-goroutine cooperative scheduler. Blocking work
// runs elsewhere; its continuation always runs on the loop goroutine, so
// state touched only from continuations needs no locking.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
)

type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once

	// pending counts continuations that have not run yet, whether their
	// work is still going or they already sit in the queue.
	pending atomic.Int64
}

func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Go runs work on its own goroutine and queues the continuation it returns.
// A nil continuation is queued as a no-op so Drain always wakes up.
func (l *Loop) Go(ctx context.Context, work func(ctx context.Context) func()) {
	l.pending.Add(1)
	go func() {
		next := work(ctx)
		if next == nil {
			next = func() {}
		}
		l.enqueue(next)
	}()
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) {
	l.pending.Add(1)
	go l.enqueue(fn)
}

// enqueue hands fn to the loop, or drops it once the loop is closed.
func (l *Loop) enqueue(fn func()) {
	wrapped := func() {
		l.pending.Add(-1)
		fn()
	}
	select {
	case l.queue <- wrapped:
	case <-l.done:
		l.pending.Add(-1)
	}
}

// C exposes pending continuations for callers that multiplex the loop
// with other event sources. Receive and call each value.
func (l *Loop) C() <-chan func() { return l.queue }

// Run executes continuations until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Close stops accepting continuations. Work still running finishes, but
// its continuation is discarded instead of blocking on a full queue.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Pending reports how many continuations have not run yet.
func (l *Loop) Pending() int64 { return l.pending.Load() }

// Drain runs continuations on the calling goroutine until none are
// pending, including work started by continuations.
func (l *Loop) Drain() {
	for l.pending.Load() > 0 {
		fn := <-l.queue
		fn()
	}
}
