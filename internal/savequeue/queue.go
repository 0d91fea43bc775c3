// Package savequeue persists match results through a retrying FIFO
// queue. Results are submitted strictly in arrival order with at most
// one submission in flight, so a flaky backend never reorders a
// tournament's history. Invalid results are rejected up front and
// never consume a retry attempt.
package savequeue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pong-arena/internal/match"
)

// Callback is invoked once per enqueued result: with a nil error after
// a successful save, or with the final error after every attempt has
// been spent. Callbacks run on the queue's worker goroutine.
type Callback func(res match.Result, err error)

// Options tune the retry behaviour.
type Options struct {
	MaxAttempts int           // Attempts per result before giving up
	Backoff     time.Duration // Fixed wait between attempts
	Cooldown    time.Duration // Pause after each result resolves
	Timeout     time.Duration // Per-attempt submit deadline
}

// DefaultOptions returns the retry policy used by the arena.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
		Cooldown:    5 * time.Second,
		Timeout:     10 * time.Second,
	}
}

type entry struct {
	res match.Result
	cb  Callback
}

// Queue is a serialized, retrying result writer. Safe for concurrent
// use.
type Queue struct {
	submitter match.Submitter
	opts      Options
	logger    *log.Logger

	mu         sync.Mutex
	items      []entry
	processing bool
	generation uint64
	stop       chan struct{}
}

// New creates a queue that writes through the given submitter.
func New(submitter match.Submitter, opts Options, logger *log.Logger) *Queue {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{
		submitter: submitter,
		opts:      opts,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Enqueue validates a result and appends it to the queue. Malformed
// results (ties, negative scores, missing identities) are returned as
// an error immediately; nothing is queued and no attempt is spent.
func (q *Queue) Enqueue(res match.Result, cb Callback) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("savequeue: rejected result: %w", err)
	}

	q.mu.Lock()
	q.items = append(q.items, entry{res: res, cb: cb})
	start := !q.processing
	if start {
		q.processing = true
	}
	gen := q.generation
	stop := q.stop
	q.mu.Unlock()

	if start {
		go q.drain(gen, stop)
	}
	return nil
}

// Len returns the number of results waiting (not counting one in
// flight).
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Busy reports whether the worker is draining the queue.
func (q *Queue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}

// Clear drops all pending results and silences the in-flight one: its
// callback will not fire even if the submission later completes. The
// queue stays usable for new results.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	q.items = nil
	q.processing = false
	close(q.stop) // Wake any backoff sleep
	q.stop = make(chan struct{})
}

// drain processes items one at a time until the queue empties or the
// generation changes.
func (q *Queue) drain(gen uint64, stop chan struct{}) {
	for {
		q.mu.Lock()
		if q.generation != gen {
			q.mu.Unlock()
			return
		}
		if len(q.items) == 0 {
			q.processing = false
			q.mu.Unlock()
			return
		}
		e := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		err := q.process(e.res, stop)

		// A Clear while this item was in flight makes its callback
		// stale; the new generation must never hear about it.
		q.mu.Lock()
		stale := q.generation != gen
		q.mu.Unlock()
		if stale {
			return
		}

		if e.cb != nil {
			e.cb(e.res, err)
		}
		if err != nil {
			q.logger.Error("abandoning match result", "id", e.res.ID, "err", err)
		}
		// The cooldown paces entries regardless of how the last one
		// resolved.
		q.sleep(q.opts.Cooldown, stop)
	}
}

// process submits one result with fixed-backoff retries.
func (q *Queue) process(res match.Result, stop chan struct{}) error {
	var lastErr error
	for attempt := 1; attempt <= q.opts.MaxAttempts; attempt++ {
		ctx := context.Background()
		cancel := context.CancelFunc(func() {})
		if q.opts.Timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, q.opts.Timeout)
		}
		err := q.submitter.SubmitResult(ctx, res)
		cancel()
		if err == nil {
			q.logger.Info("match result saved", "id", res.ID, "attempt", attempt)
			return nil
		}
		lastErr = err
		q.logger.Warn("match result save failed", "id", res.ID, "attempt", attempt, "err", err)

		if attempt < q.opts.MaxAttempts {
			if !q.sleep(q.opts.Backoff, stop) {
				return lastErr
			}
		}
	}
	return fmt.Errorf("savequeue: gave up after %d attempts: %w", q.opts.MaxAttempts, lastErr)
}

// sleep waits for d unless the queue is cleared first.
func (q *Queue) sleep(d time.Duration, stop chan struct{}) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-stop:
		return false
	}
}
