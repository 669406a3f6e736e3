// Package gate implements the ready prompt and countdown that precede a timed session.
package gate

import (
	"time"

	"github.com/verte-zerg/secda/internal/clock"
	"github.com/verte-zerg/secda/internal/present"
)

// CountdownFrom is the first number shown by the countdown.
const CountdownFrom = 3

// Ready holds at most one pending confirm listener.
type Ready struct {
	listener func()
	armed    int
}

// Arm registers onConfirm, replacing any listener left over from a previous entry.
func (r *Ready) Arm(onConfirm func()) {
	r.listener = onConfirm
	r.armed++
}

// Confirm fires and removes the listener. It reports whether one was registered.
func (r *Ready) Confirm() bool {
	fn := r.listener
	if fn == nil {
		return false
	}
	r.listener = nil
	fn()
	return true
}

// Cancel removes the listener without firing it.
func (r *Ready) Cancel() {
	r.listener = nil
}

// Armed reports whether a listener is registered.
func (r *Ready) Armed() bool {
	return r.listener != nil
}

// Countdown shows 3, 2, 1 at one-second intervals and then runs its completion callback.
type Countdown struct {
	view   present.Presenter
	task   *clock.Task
	count  int
	onDone func()
}

// NewCountdown binds a countdown to a scheduler.
func NewCountdown(s clock.Scheduler, view present.Presenter) *Countdown {
	c := &Countdown{view: view}
	c.task = clock.NewTicker(s, time.Second, c.tick)
	return c
}

// Start begins a fresh countdown. A countdown already running is abandoned.
func (c *Countdown) Start(onDone func()) {
	c.count = CountdownFrom
	c.onDone = onDone
	c.view.RenderCountdown(c.count)
	c.task.Start()
}

// Cancel stops the countdown without completing it.
func (c *Countdown) Cancel() {
	c.task.Stop()
	c.onDone = nil
}

// Running reports whether the countdown is in progress.
func (c *Countdown) Running() bool {
	return c.task.Running()
}

func (c *Countdown) tick() {
	c.count--
	if c.count > 0 {
		c.view.RenderCountdown(c.count)
		return
	}
	c.task.Stop()
	done := c.onDone
	c.onDone = nil
	if done != nil {
		done()
	}
}
