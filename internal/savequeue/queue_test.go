package savequeue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"pong-arena/internal/match"
)

// fakeSubmitter records submissions and fails a scripted number of
// times per result ID.
type fakeSubmitter struct {
	mu        sync.Mutex
	order     []string
	attempts  map[string]int
	failFirst map[string]int // ID -> number of initial failures
	block     chan struct{}  // If non-nil, submissions wait on it
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{
		attempts:  make(map[string]int),
		failFirst: make(map[string]int),
	}
}

func (f *fakeSubmitter) SubmitResult(ctx context.Context, res match.Result) error {
	f.mu.Lock()
	block := f.block
	f.attempts[res.ID]++
	n := f.attempts[res.ID]
	fails := f.failFirst[res.ID]
	if n > fails {
		f.order = append(f.order, res.ID)
	}
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if n <= fails {
		return errors.New("backend unavailable")
	}
	return nil
}

func (f *fakeSubmitter) savedOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func (f *fakeSubmitter) attemptCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[id]
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testOptions() Options {
	return Options{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Cooldown:    time.Millisecond,
		Timeout:     time.Second,
	}
}

func result(names ...string) match.Result {
	scores := make([]int, len(names))
	for i := range scores {
		scores[i] = len(names) - i // Strictly descending, first name wins
	}
	return match.NewResult(match.Mode1v1, match.RoundNone, names, scores, names[0])
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for queue callback")
		return nil
	}
}

func TestQueueSavesInFIFOOrder(t *testing.T) {
	sub := newFakeSubmitter()
	q := New(sub, testOptions(), quietLogger())

	results := []match.Result{result("a", "b"), result("c", "d"), result("e", "f")}
	// The first result fails twice so retries must not let later
	// results overtake it.
	sub.failFirst[results[0].ID] = 2

	done := make(chan error, len(results))
	for _, r := range results {
		if err := q.Enqueue(r, func(_ match.Result, err error) { done <- err }); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	for range results {
		if err := waitDone(t, done); err != nil {
			t.Fatalf("callback error: %v", err)
		}
	}

	want := []string{results[0].ID, results[1].ID, results[2].ID}
	got := sub.savedOrder()
	if len(got) != len(want) {
		t.Fatalf("saved %d results, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("save order %v, expected %v", got, want)
		}
	}
}

func TestQueueRetriesThenSucceeds(t *testing.T) {
	sub := newFakeSubmitter()
	q := New(sub, testOptions(), quietLogger())

	r := result("a", "b")
	sub.failFirst[r.ID] = 2 // Fail twice, succeed on the third attempt

	done := make(chan error, 1)
	if err := q.Enqueue(r, func(_ match.Result, err error) { done <- err }); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := waitDone(t, done); err != nil {
		t.Fatalf("callback error after retries: %v", err)
	}
	if got := sub.attemptCount(r.ID); got != 3 {
		t.Errorf("attempts = %d, expected 3", got)
	}
}

func TestCooldownPacesSuccessiveSaves(t *testing.T) {
	sub := newFakeSubmitter()
	opts := testOptions()
	opts.Cooldown = 150 * time.Millisecond
	q := New(sub, opts, quietLogger())

	// Both results save instantly; only the cooldown separates them.
	times := make(chan time.Time, 2)
	for _, r := range []match.Result{result("a", "b"), result("c", "d")} {
		if err := q.Enqueue(r, func(match.Result, error) { times <- time.Now() }); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	var stamps []time.Time
	for i := 0; i < 2; i++ {
		select {
		case ts := <-times:
			stamps = append(stamps, ts)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for queue callback")
		}
	}

	if gap := stamps[1].Sub(stamps[0]); gap < opts.Cooldown {
		t.Errorf("second save resolved %v after the first, expected at least %v", gap, opts.Cooldown)
	}
}

func TestQueueGivesUpAfterMaxAttempts(t *testing.T) {
	sub := newFakeSubmitter()
	opts := testOptions()
	opts.MaxAttempts = 2
	q := New(sub, opts, quietLogger())

	r := result("a", "b")
	sub.failFirst[r.ID] = 100 // Never succeeds

	done := make(chan error, 1)
	if err := q.Enqueue(r, func(_ match.Result, err error) { done <- err }); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	err := waitDone(t, done)
	if err == nil {
		t.Fatal("expected a final error after exhausting attempts")
	}
	if got := sub.attemptCount(r.ID); got != 2 {
		t.Errorf("attempts = %d, expected exactly 2", got)
	}

	// The queue keeps working after an abandoned result.
	ok := result("c", "d")
	if err := q.Enqueue(ok, func(_ match.Result, err error) { done <- err }); err != nil {
		t.Fatalf("Enqueue after abandonment: %v", err)
	}
	if err := waitDone(t, done); err != nil {
		t.Errorf("queue stuck after abandoned result: %v", err)
	}
}

func TestQueueRejectsInvalidResultsWithoutAttempts(t *testing.T) {
	sub := newFakeSubmitter()
	q := New(sub, testOptions(), quietLogger())

	tie := result("a", "b")
	tie.Scores = []int{3, 3}
	if err := q.Enqueue(tie, nil); err == nil {
		t.Fatal("tied result should be rejected")
	}

	negative := result("a", "b")
	negative.Scores = []int{5, -1}
	if err := q.Enqueue(negative, nil); err == nil {
		t.Fatal("negative score should be rejected")
	}

	anonymous := result("a", "b")
	anonymous.Usernames = []string{"a", ""}
	if err := q.Enqueue(anonymous, nil); err == nil {
		t.Fatal("missing username should be rejected")
	}

	if got := sub.attemptCount(tie.ID) + sub.attemptCount(negative.ID) + sub.attemptCount(anonymous.ID); got != 0 {
		t.Errorf("rejected results consumed %d attempts", got)
	}
	if q.Len() != 0 {
		t.Error("rejected results were queued")
	}
}

func TestClearSilencesInFlightCallback(t *testing.T) {
	sub := newFakeSubmitter()
	sub.block = make(chan struct{})
	q := New(sub, testOptions(), quietLogger())

	fired := make(chan struct{}, 2)
	r := result("a", "b")
	if err := q.Enqueue(r, func(match.Result, error) { fired <- struct{}{} }); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	// Wait until the submission is in flight.
	deadline := time.Now().Add(2 * time.Second)
	for sub.attemptCount(r.ID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	q.Clear()
	close(sub.block) // Let the blocked submission finish

	select {
	case <-fired:
		t.Fatal("stale callback fired after Clear")
	case <-time.After(50 * time.Millisecond):
	}

	// New work after Clear flows normally.
	sub.mu.Lock()
	sub.block = nil
	sub.mu.Unlock()
	done := make(chan error, 1)
	if err := q.Enqueue(result("c", "d"), func(_ match.Result, err error) { done <- err }); err != nil {
		t.Fatalf("Enqueue after Clear: %v", err)
	}
	if err := waitDone(t, done); err != nil {
		t.Errorf("queue broken after Clear: %v", err)
	}
}

func TestClearDropsPendingItems(t *testing.T) {
	sub := newFakeSubmitter()
	sub.block = make(chan struct{})
	q := New(sub, testOptions(), quietLogger())

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(result("a", "b"), nil); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	q.Clear()
	close(sub.block)

	if q.Len() != 0 {
		t.Errorf("Len() = %d after Clear, expected 0", q.Len())
	}
}
