package schedule

import "sort"

// Key identifies a logical timer. Scheduling a key that already has a
// pending task replaces that task; the replaced callback never runs.
type Key string

type task struct {
	key       Key
	remaining float64
	fn        func()
	seq       uint64
}

// Scheduler runs one-shot callbacks after a delay measured in simulated
// seconds. It is advanced explicitly from the simulation loop and is not
// safe for concurrent use.
type Scheduler struct {
	tasks map[Key]*task
	seq   uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[Key]*task)}
}

// Schedule arranges for fn to run once, duration seconds from now. Any task
// already pending under key is discarded without firing. A non-positive
// duration fires on the next Advance.
func (s *Scheduler) Schedule(key Key, duration float64, fn func()) {
	if s == nil || fn == nil {
		return
	}
	if s.tasks == nil {
		s.tasks = make(map[Key]*task)
	}
	s.seq++
	s.tasks[key] = &task{key: key, remaining: duration, fn: fn, seq: s.seq}
}

// Cancel drops the task pending under key. It reports whether one existed.
func (s *Scheduler) Cancel(key Key) bool {
	if s == nil {
		return false
	}
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	return true
}

// Pending reports whether a task is waiting under key.
func (s *Scheduler) Pending(key Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.tasks[key]
	return ok
}

// Remaining returns the seconds left on key's task.
func (s *Scheduler) Remaining(key Key) (float64, bool) {
	if s == nil {
		return 0, false
	}
	t, ok := s.tasks[key]
	if !ok {
		return 0, false
	}
	if t.remaining < 0 {
		return 0, true
	}
	return t.remaining, true
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}

// Advance moves time forward by dt and fires every task whose deadline has
// elapsed, earliest deadline first (ties in scheduling order). Each task is
// removed before its callback runs, so a callback may reschedule its own key.
// Tasks scheduled by a callback wait for the next Advance.
func (s *Scheduler) Advance(dt float64) {
	if s == nil || len(s.tasks) == 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	due := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		t.remaining -= dt
		if t.remaining <= 0 {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].remaining != due[j].remaining {
			return due[i].remaining < due[j].remaining
		}
		return due[i].seq < due[j].seq
	})

	for _, t := range due {
		// an earlier callback may have cancelled or replaced this one
		if cur, ok := s.tasks[t.key]; !ok || cur.seq != t.seq {
			continue
		}
		delete(s.tasks, t.key)
		t.fn()
	}
}

// Reset drops every pending task.
func (s *Scheduler) Reset() {
	if s == nil {
		return
	}
	s.tasks = make(map[Key]*task)
}
