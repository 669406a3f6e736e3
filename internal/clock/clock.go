// Package clock provides cancellable periodic and one-shot tasks on top of a Scheduler.
//
// A Task never runs concurrently with its owner: the Scheduler is expected to deliver
// callbacks on the same goroutine that starts and stops tasks (the Bubble Tea update loop in
// production, the test goroutine with Manual). Every Start issues a fresh handle and Stop
// invalidates it, so a callback that was already in flight when the task was stopped or
// restarted is dropped instead of mutating state.
package clock

import "time"

// Scheduler runs fire once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fire func())
}

// Handle identifies one Start of a Task.
type Handle uint64

// Task is a periodic or one-shot job bound to a Scheduler.
type Task struct {
	sched    Scheduler
	interval time.Duration
	repeat   bool
	fn       func()

	handle  Handle
	running bool
	issued  int
}

// NewTicker returns a stopped task that calls fn every interval once started.
func NewTicker(s Scheduler, interval time.Duration, fn func()) *Task {
	return &Task{sched: s, interval: interval, repeat: true, fn: fn}
}

// NewTimer returns a stopped task that calls fn once, interval after Start.
func NewTimer(s Scheduler, interval time.Duration, fn func()) *Task {
	return &Task{sched: s, interval: interval, fn: fn}
}

// Start cancels any pending run and schedules a fresh one.
func (t *Task) Start() Handle {
	t.handle++
	t.running = true
	t.issued++
	t.schedule(t.handle)
	return t.handle
}

// Stop cancels the pending run, if any.
func (t *Task) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.handle++
}

// Running reports whether a run is pending.
func (t *Task) Running() bool {
	return t.running
}

// Live reports whether h is the task's current handle.
func (t *Task) Live(h Handle) bool {
	return t.running && h == t.handle
}

// Handle returns the current handle. It is only live while Running.
func (t *Task) Handle() Handle {
	return t.handle
}

// Starts reports how many times the task has been started.
func (t *Task) Starts() int {
	return t.issued
}

func (t *Task) schedule(h Handle) {
	t.sched.After(t.interval, func() { t.fire(h) })
}

func (t *Task) fire(h Handle) {
	if !t.Live(h) {
		return
	}
	if !t.repeat {
		t.running = false
		t.handle++
	}
	t.fn()
	// fn may have stopped or restarted the task.
	if t.repeat && t.Live(h) {
		t.schedule(h)
	}
}
