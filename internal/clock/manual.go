package clock

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance.
type Manual struct {
	now    time.Duration
	seq    uint64
	timers []manualTimer
}

type manualTimer struct {
	at   time.Duration
	seq  uint64
	fire func()
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fire func()) {
	m.seq++
	m.timers = append(m.timers, manualTimer{at: m.now + d, seq: m.seq, fire: fire})
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of scheduled callbacks, including stale ones.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// Advance moves virtual time forward by d, firing due callbacks in order.
func (m *Manual) Advance(d time.Duration) {
	deadline := m.now + d
	for {
		idx := m.next(deadline)
		if idx < 0 {
			break
		}
		timer := m.timers[idx]
		m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
		m.now = timer.at
		timer.fire()
	}
	m.now = deadline
}

func (m *Manual) next(deadline time.Duration) int {
	if len(m.timers) == 0 {
		return -1
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at == m.timers[j].at {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at < m.timers[j].at
	})
	if m.timers[0].at > deadline {
		return -1
	}
	return 0
}
