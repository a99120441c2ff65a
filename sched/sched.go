// Package sched runs one-shot callbacks against a host tick stream.
//
// Nothing here is goroutine-safe: After and AdvanceTo are called from the same
// loop that handles input, so callbacks never race with event handling.
package sched

import (
	"container/heap"
	"time"
)

type job struct {
	due uint64
	seq uint64
	fn  func()
}

type queue []job

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(job)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	j := old[n-1]
	old[n-1] = job{}
	*q = old[:n-1]
	return j
}

// Scheduler queues callbacks due a number of ticks from the current tick.
type Scheduler struct {
	tick time.Duration
	now  uint64
	seq  uint64
	q    queue
}

// New returns a scheduler whose ticks are d long. d <= 0 means 1 ms.
func New(d time.Duration) *Scheduler {
	if d <= 0 {
		d = time.Millisecond
	}
	return &Scheduler{tick: d}
}

// Now returns the last tick passed to AdvanceTo.
func (s *Scheduler) Now() uint64 { return s.now }

// Pending returns the number of callbacks not yet run.
func (s *Scheduler) Pending() int { return len(s.q) }

// After schedules fn to run once at least d has elapsed. Delays are rounded up
// to whole ticks; a non-positive delay runs on the next AdvanceTo.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	var n uint64
	if d > 0 {
		n = uint64((d + s.tick - 1) / s.tick)
	}
	s.seq++
	heap.Push(&s.q, job{due: s.now + n, seq: s.seq, fn: fn})
}

// AdvanceTo moves the clock to tick and runs every callback due at or before it,
// in due order, ties broken by scheduling order. Callbacks scheduled from inside a
// callback run in the same call if they are already due. Ticks never move backwards.
func (s *Scheduler) AdvanceTo(tick uint64) {
	if tick > s.now {
		s.now = tick
	}
	for len(s.q) > 0 && s.q[0].due <= s.now {
		j := heap.Pop(&s.q).(job)
		j.fn()
	}
}

// Advance moves the clock forward by d, rounded down to whole ticks.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.AdvanceTo(s.now + uint64(d/s.tick))
}
