// Package schedule runs deferred callbacks on the caller's goroutine. The
// owner polls RunDue from its event loop, so callbacks never race with
// navigation.
package schedule

import (
	"sort"
	"time"
)

type task struct {
	due time.Time
	seq int
	fn  func()
}

// Queue holds callbacks ordered by due time, then by insertion.
type Queue struct {
	now   func() time.Time
	tasks []task
	seq   int
}

// Option customizes a Queue.
type Option func(*Queue)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// NewQueue returns an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// After schedules fn to run once d has elapsed.
func (q *Queue) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	q.seq++
	q.tasks = append(q.tasks, task{due: q.now().Add(d), seq: q.seq, fn: fn})
	sort.SliceStable(q.tasks, func(i, j int) bool {
		if q.tasks[i].due.Equal(q.tasks[j].due) {
			return q.tasks[i].seq < q.tasks[j].seq
		}
		return q.tasks[i].due.Before(q.tasks[j].due)
	})
}

// RunDue runs every callback due at the current time and returns how many
// ran. Callbacks scheduled while running wait for the next call.
func (q *Queue) RunDue() int {
	now := q.now()
	n := 0
	for n < len(q.tasks) && !q.tasks[n].due.After(now) {
		n++
	}
	if n == 0 {
		return 0
	}
	due := append([]task(nil), q.tasks[:n]...)
	q.tasks = append(q.tasks[:0:0], q.tasks[n:]...)
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the number of callbacks waiting.
func (q *Queue) Pending() int { return len(q.tasks) }

// NextDue returns when the earliest callback is due.
func (q *Queue) NextDue() (time.Time, bool) {
	if len(q.tasks) == 0 {
		return time.Time{}, false
	}
	return q.tasks[0].due, true
}

// Clear drops every pending callback.
func (q *Queue) Clear() { q.tasks = nil }
