package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/secda/internal/clock"
)

// fireMsg carries a due timer callback back onto the update loop.
type fireMsg struct {
	fire func()
}

// scheduler is a clock.Scheduler whose timers must be handed to Bubble Tea as commands.
type scheduler interface {
	clock.Scheduler
	drain() tea.Cmd
}

// teaScheduler turns every After call into a tea.Tick command. Callbacks run inside
// Update, so the engines never see a second goroutine.
type teaScheduler struct {
	pending []tea.Cmd
}

func (s *teaScheduler) After(d time.Duration, fire func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return fireMsg{fire: fire}
	}))
}

func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// manualScheduler drives the model from a clock.Manual in tests.
type manualScheduler struct {
	*clock.Manual
}

func (manualScheduler) drain() tea.Cmd { return nil }
