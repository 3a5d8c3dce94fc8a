// Package loop provides the single-threaded event loop that boundary events
// are dispatched on.
//
// Every task posted to a Loop runs to completion before the next one starts,
// in FIFO order. Tasks may post further tasks. A Loop is either driven by Run
// on a dedicated goroutine or pumped synchronously with RunPending, which is
// how tests step through protocol exchanges deterministically.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Run after Stop.
var ErrStopped = errors.New("loop: stopped")

// Loop delivers posted tasks on a single goroutine.
type Loop struct {
	log *slog.Logger

	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// New creates an idle Loop.
func New(log *slog.Logger) *Loop {
	return &Loop{
		log:  log.With("component", "loop"),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post queues task. It reports false, dropping the task, once the loop has
// been stopped.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()

	if l.stopped {
		l.mu.Unlock()

		return false
	}

	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return true
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

// RunPending runs queued tasks on the calling goroutine until the queue is
// empty, including tasks posted while draining. It returns the number of
// tasks run. It must not be called concurrently with Run.
func (l *Loop) RunPending() int {
	n := 0

	for {
		task, ok := l.next()
		if !ok {
			return n
		}

		l.runTask(task)
		n++
	}
}

// Run processes tasks as they are posted until ctx is done or Stop is
// called.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Debug("Event loop started")

	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			l.log.Debug("Event loop context cancelled", "error", ctx.Err())

			return ctx.Err()
		case <-l.done:
			l.log.Debug("Event loop stopped")

			return ErrStopped
		case <-l.wake:
		}
	}
}

// Stop discards queued tasks and rejects new ones. It is safe to call more
// than once.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()

		close(l.done)
	})
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}

	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]

	return task, true
}

// runTask isolates a panicking task so the loop keeps serving events.
func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Event loop task panicked", "panic", r)
		}
	}()

	task()
}
