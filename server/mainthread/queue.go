// Package mainthread confines work to a single goroutine. Host platforms only
// allow their native objects, and so every cmd.Source, to be used from their
// main thread. Background tasks hand calls off to that goroutine through a
// Queue instead of calling into a Source directly.
package mainthread

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/text"
)

// Func is a function run on the main thread.
type Func func()

// Queue runs submitted functions one at a time, in order, on the goroutine
// that calls Run.
type Queue struct {
	log *slog.Logger
	// wake holds a token while pending is not empty.
	wake chan struct{}

	mu      sync.Mutex
	pending []Func
	closed  bool

	closeOnce sync.Once
	closing   chan struct{}
	done      chan struct{}
}

// NewQueue returns a Queue with room for size pending functions before it
// grows. Exec never blocks, so functions may be queued from the main thread
// itself.
func NewQueue(size int, log *slog.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	if log == nil {
		log = slog.Default()
	}
	return &Queue{
		log:     log,
		wake:    make(chan struct{}, 1),
		pending: make([]Func, 0, size),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Exec schedules f to run on the main thread. Exec returns a channel that is
// closed once f has run. If the Queue is closed, f is dropped and the returned
// channel is closed right away. Exec may be called from any goroutine,
// including the one running the Queue, but waiting on the returned channel
// from a function run by the Queue never returns.
func (q *Queue) Exec(f Func) <-chan struct{} {
	c := make(chan struct{})
	if f == nil {
		close(c)
		return c
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		close(c)
		return c
	}
	q.pending = append(q.pending, func() {
		defer close(c)
		f()
	})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return c
}

// Run runs queued functions until ctx is cancelled or the Queue is closed. A
// function that panics is logged and does not stop the Queue.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-q.wake:
			for _, f := range q.take() {
				q.run(f)
			}
		case <-ctx.Done():
			q.Close()
			q.drain()
			return
		case <-q.closing:
			q.drain()
			return
		}
	}
}

// take removes all pending functions from the Queue.
func (q *Queue) take() []Func {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

// drain finishes functions that were queued before the Queue closed, so that
// no channel returned by Exec is left open.
func (q *Queue) drain() {
	for _, f := range q.take() {
		q.run(f)
	}
}

func (q *Queue) run(f Func) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("main thread task panicked", "panic", r)
		}
	}()
	f()
}

// Close stops the Queue. Functions queued afterwards are dropped.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.closing)
	})
}

// Done returns a channel closed once Run has returned.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Deliver sends t to src on the main thread. It may be called from any
// goroutine and does not wait for the delivery.
func Deliver(q *Queue, src cmd.Source, t text.Text) <-chan struct{} {
	return q.Exec(func() {
		src.SendMessage(t)
	})
}
