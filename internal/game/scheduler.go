package game

import (
	"container/heap"
	"time"
)

// Scheduler is a virtual clock of pending continuations. Nothing runs until
// the host calls Advance, so tests can step through a game without real
// waits. Tasks with equal deadlines run in the order they were scheduled.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks taskQueue
}

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(*task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// After schedules fn to run d after the current virtual time.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.tasks, &task{at: s.now + d, seq: s.seq, fn: fn})
}

// Advance moves the clock forward by elapsed, running every task that falls
// due. A task sees Now() equal to its own deadline, and tasks it schedules
// run in the same call if they fall due before the new time.
func (s *Scheduler) Advance(elapsed time.Duration) {
	target := s.now + max(elapsed, 0)
	for s.tasks.Len() > 0 && s.tasks[0].at <= target {
		t := heap.Pop(&s.tasks).(*task)
		s.now = max(s.now, t.at)
		t.fn()
	}
	s.now = target
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	return s.tasks.Len()
}

// NextDeadline returns how long until the next task is due.
func (s *Scheduler) NextDeadline() (time.Duration, bool) {
	if s.tasks.Len() == 0 {
		return 0, false
	}
	return s.tasks[0].at - s.now, true
}

// Clear drops every pending task.
func (s *Scheduler) Clear() {
	s.tasks = nil
}
