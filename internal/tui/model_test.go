package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/secda/internal/clock"
	"github.com/verte-zerg/secda/internal/game"
	"github.com/verte-zerg/secda/internal/gate"
	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/quiz"
	"github.com/verte-zerg/secda/internal/screen"
	"github.com/verte-zerg/secda/internal/vocab"
)

func testTerms(n int) []model.Term {
	out := make([]model.Term, n)
	for i := range out {
		out[i] = model.Term{Source: fmt.Sprintf("用語%d", i), Target: fmt.Sprintf("WORD%c", 'A'+i)}
	}
	return out
}

func newTestModel(t *testing.T, cfg model.Config, terms []model.Term) (*Model, *clock.Manual) {
	t.Helper()
	manual := clock.NewManual()
	m, err := newModel(cfg, terms, generator.NewSeeded(9), manualScheduler{manual}, zerolog.Nop())
	require.NoError(t, err)
	return m, manual
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestNewModelRejectsEmptyVocabulary(t *testing.T) {
	_, err := NewModel(model.Config{}, nil, generator.NewSeeded(1), zerolog.Nop())
	assert.ErrorIs(t, err, vocab.ErrEmpty)
}

func TestTypingFlow(t *testing.T) {
	m, manual := newTestModel(t, model.Config{}, testTerms(12))
	screens := m.App().Screens()

	send(m, space)
	assert.Equal(t, screen.Intro, screens.Current())
	assert.Contains(t, m.View(), "MISSION BRIEFING")

	send(m, enter)
	assert.Equal(t, screen.Difficulty, screens.Current())
	assert.Contains(t, m.View(), "SELECT DIFFICULTY")

	send(m, down)
	send(m, enter)
	assert.Equal(t, screen.Ready, screens.Current())
	assert.Contains(t, m.View(), "DIFFICULTY: HACKER")
	assert.NotContains(t, m.View(), "SKIP WORD")

	send(m, space)
	assert.Equal(t, screen.Countdown, screens.Current())
	assert.Contains(t, m.View(), "3")

	manual.Advance(gate.CountdownFrom * time.Second)
	require.Equal(t, screen.Game, screens.Current())
	require.NotNil(t, m.word)
	assert.Contains(t, m.View(), "SCORE 0")
	assert.Contains(t, m.View(), m.word.Source)

	target := m.word.Target
	for _, r := range target {
		send(m, runes(string(r)))
	}
	assert.Equal(t, 300, m.board.Score)
	assert.Equal(t, 5, m.board.Combo)

	send(m, esc)
	assert.True(t, m.paused)
	assert.Contains(t, m.View(), "PAUSED")

	send(m, runes("q"))
	assert.Equal(t, screen.Difficulty, screens.Current())
	assert.False(t, m.paused)
}

func TestConfiguredDifficultyPreselected(t *testing.T) {
	m, _ := newTestModel(t, model.Config{SkipIntro: true, Difficulty: "hard"}, testTerms(12))
	send(m, space)
	require.Equal(t, screen.Difficulty, m.App().Screens().Current())
	send(m, enter)
	assert.Equal(t, screen.Ready, m.App().Screens().Current())
	assert.Equal(t, model.Hard, m.App().Difficulty())
	assert.Contains(t, m.View(), "DIFFICULTY: CISO")
}

func TestUnknownDifficultyRejected(t *testing.T) {
	_, err := NewModel(model.Config{Difficulty: "nightmare"}, testTerms(12), generator.NewSeeded(1), zerolog.Nop())
	assert.Error(t, err)
}

func TestExpertRendersBlind(t *testing.T) {
	m, manual := newTestModel(t, model.Config{SkipIntro: true}, testTerms(12))
	send(m, space)
	send(m, runes("4"))
	assert.Equal(t, screen.Ready, m.App().Screens().Current())
	assert.Contains(t, m.View(), "SKIP WORD")

	send(m, enter)
	manual.Advance(gate.CountdownFrom * time.Second)
	require.NotNil(t, m.word)
	assert.True(t, m.word.Blind)
	view := m.View()
	assert.Contains(t, view, "EXPERT MODE")
	assert.Contains(t, view, "_____")
	assert.NotContains(t, view, m.word.Target)
}

func TestStudyFlow(t *testing.T) {
	m, manual := newTestModel(t, model.Config{SkipIntro: true}, testTerms(12))
	send(m, space)
	send(m, runes("s"))
	assert.Equal(t, screen.Countdown, m.App().Screens().Current())

	manual.Advance(gate.CountdownFrom * time.Second)
	require.Equal(t, screen.Quiz, m.App().Screens().Current())
	assert.Contains(t, m.View(), "QUESTION 1/10")

	for i := 0; i < quiz.Length; i++ {
		q := m.question
		send(m, runes(fmt.Sprint(indexOf(q.Options, correctFor(t, m))+1)))
		require.NotNil(t, m.feedback)
		assert.True(t, m.feedback.Correct)
		manual.Advance(quiz.FeedbackDelay)
	}

	require.Equal(t, screen.Result, m.App().Screens().Current())
	view := m.View()
	assert.Contains(t, view, "STUDY SESSION COMPLETE")
	assert.Contains(t, view, "SCORE 10 / 10")
	assert.Len(t, m.review, 10)
	assert.Contains(t, view, "retry")

	send(m, space)
	assert.Equal(t, screen.Result, m.App().Screens().Current())
	send(m, enter)
	assert.Equal(t, screen.Difficulty, m.App().Screens().Current())
}

func correctFor(t *testing.T, m *Model) string {
	t.Helper()
	e := m.App().Session().Quiz()
	require.NotNil(t, e)
	return e.Questions()[e.Current()].Correct
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func TestStudyRefusedShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, model.Config{SkipIntro: true}, testTerms(4))
	send(m, space)
	send(m, runes("s"))
	assert.Equal(t, screen.Difficulty, m.App().Screens().Current())
	assert.Contains(t, m.View(), game.StudyUnavailable)

	send(m, down)
	assert.NotContains(t, m.View(), game.StudyUnavailable)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, model.Config{}, testTerms(12))
	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = send(m, esc)
	require.NotNil(t, cmd, "esc on the start screen exits")
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFlashExpires(t *testing.T) {
	m, manual := newTestModel(t, model.Config{}, testTerms(12))

	m.FlashPenalty()
	assert.True(t, m.flashOn[flashPenalty])
	manual.Advance(200 * time.Millisecond)
	assert.False(t, m.flashOn[flashPenalty])

	m.FlashTimeBonus()
	manual.Advance(300 * time.Millisecond)
	m.FlashTimeBonus()
	manual.Advance(200 * time.Millisecond)
	assert.True(t, m.flashOn[flashBonus], "a repeated flash restarts its timer")
	manual.Advance(300 * time.Millisecond)
	assert.False(t, m.flashOn[flashBonus])
}

func TestTeaSchedulerDrain(t *testing.T) {
	s := &teaScheduler{}
	assert.Nil(t, s.drain())
	s.After(time.Millisecond, func() {})
	assert.NotNil(t, s.drain())
	assert.Nil(t, s.drain())
}

func TestFireMsgRunsCallback(t *testing.T) {
	m, _ := newTestModel(t, model.Config{}, testTerms(12))
	fired := false
	send(m, fireMsg{fire: func() { fired = true }})
	assert.True(t, fired)
}

func TestResizeSetsWidths(t *testing.T) {
	m, _ := newTestModel(t, model.Config{}, testTerms(12))
	send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 70, m.track.Width)
	assert.Equal(t, 70, m.timer.Width)
	assert.Contains(t, m.View(), "PRESS SPACE TO START")
}
