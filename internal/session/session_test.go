package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/secda/internal/clock"
	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
	"github.com/verte-zerg/secda/internal/quiz"
	"github.com/verte-zerg/secda/internal/screen"
	"github.com/verte-zerg/secda/internal/typing"
)

type fixture struct {
	sched   *clock.Manual
	screens *screen.Controller
	rec     *present.Recorder
	ctl     *Controller
	gen     *generator.Generator
}

func newFixture() *fixture {
	f := &fixture{
		sched:   clock.NewManual(),
		screens: screen.NewController(),
		rec:     &present.Recorder{},
		gen:     generator.NewSeeded(11),
	}
	f.ctl = New(f.sched, f.screens, f.rec, zerolog.Nop())
	return f
}

func terms(n int) []model.Term {
	out := make([]model.Term, n)
	for i := range out {
		out[i] = model.Term{Source: fmt.Sprintf("src%02d", i), Target: fmt.Sprintf("TGT%02d", i)}
	}
	return out
}

func (f *fixture) startTyping(d model.Difficulty) *typing.Engine {
	e := typing.New(d, generator.NewBag(f.gen, terms(5)), f.rec, zerolog.Nop())
	f.ctl.StartTyping(e)
	return e
}

func (f *fixture) startQuiz(t *testing.T) *quiz.Engine {
	t.Helper()
	e, err := quiz.New(f.gen, terms(20), f.rec, zerolog.Nop())
	require.NoError(t, err)
	f.ctl.StartQuiz(e)
	return e
}

func position(t *testing.T, e *typing.Engine) float64 {
	t.Helper()
	word, ok := e.ActiveWord()
	require.True(t, ok)
	return word.Position
}

func TestStartTypingRunsLoops(t *testing.T) {
	f := newFixture()
	e := f.startTyping(model.Normal)

	assert.Equal(t, screen.Game, f.screens.Current())
	assert.False(t, f.screens.Expert())
	frame, second := f.ctl.Ticking()
	assert.True(t, frame)
	assert.True(t, second)

	f.sched.Advance(time.Second)
	assert.Equal(t, typing.Duration-1, e.Session().TimeLeft)
	assert.InDelta(t, 60*3.0*typing.ScaleFactor, position(t, e), 1e-9)
}

func TestExpertTogglesScreenFlag(t *testing.T) {
	f := newFixture()
	f.startTyping(model.Expert)
	assert.True(t, f.screens.Expert())
}

func TestPauseStopsLoops(t *testing.T) {
	f := newFixture()
	e := f.startTyping(model.Normal)
	f.sched.Advance(500 * time.Millisecond)
	pos := position(t, e)

	f.ctl.TogglePause()
	assert.True(t, f.ctl.Paused())
	assert.True(t, f.rec.Paused)
	frame, second := f.ctl.Ticking()
	assert.False(t, frame)
	assert.False(t, second)

	f.sched.Advance(10 * time.Second)
	assert.Equal(t, typing.Duration, e.Session().TimeLeft)
	assert.Equal(t, pos, position(t, e))

	f.ctl.HandleKey(model.RuneKey('T'))
	word, _ := e.ActiveWord()
	assert.Equal(t, 0, word.Typed, "keys are ignored while paused")
}

func TestPauseToggleIsLeakFree(t *testing.T) {
	f := newFixture()
	e := f.startTyping(model.Normal)

	for i := 0; i < 4; i++ {
		f.ctl.TogglePause()
	}
	assert.False(t, f.ctl.Paused())
	frame, second := f.ctl.Ticking()
	assert.True(t, frame)
	assert.True(t, second)

	before := position(t, e)
	f.sched.Advance(time.Second)
	assert.Equal(t, typing.Duration-1, e.Session().TimeLeft, "exactly one clock is ticking")
	assert.InDelta(t, before+60*3.0*typing.ScaleFactor, position(t, e), 1e-9, "exactly one frame loop is running")
}

func TestReturnToMenuOnlyWhilePaused(t *testing.T) {
	f := newFixture()
	f.startTyping(model.Normal)

	assert.False(t, f.ctl.ReturnToMenu())
	assert.True(t, f.ctl.Playing())

	f.ctl.TogglePause()
	assert.True(t, f.ctl.ReturnToMenu())
	assert.False(t, f.ctl.Playing())
	assert.False(t, f.ctl.Paused())
	assert.False(t, f.rec.Paused)
	assert.Equal(t, screen.Difficulty, f.screens.Current())
	assert.Nil(t, f.rec.Result, "no verdict when abandoning")
	_, ok := f.ctl.LastResult()
	assert.False(t, ok)

	frame, second := f.ctl.Ticking()
	assert.False(t, frame)
	assert.False(t, second)
}

func TestTypingTimeoutShowsResult(t *testing.T) {
	f := newFixture()
	f.startTyping(model.Easy)

	f.sched.Advance(typing.Duration * time.Second)
	assert.False(t, f.ctl.Playing())
	assert.Equal(t, screen.Result, f.screens.Current())
	require.NotNil(t, f.rec.Result)
	assert.Equal(t, model.OutcomeCompromised, f.rec.Result.Outcome)
	assert.Equal(t, typing.Duration*time.Second, f.rec.Result.Duration)

	f.sched.Advance(time.Minute)
	assert.Equal(t, screen.Result, f.screens.Current())
}

func TestNewSessionStartsClean(t *testing.T) {
	f := newFixture()
	first := f.startTyping(model.Normal)
	word, _ := first.ActiveWord()
	for _, r := range word.Term.Target {
		f.ctl.HandleKey(model.RuneKey(r))
	}
	require.Positive(t, first.Session().Score)
	f.ctl.End()

	second := f.startTyping(model.Normal)
	assert.Equal(t, 0, second.Session().Score)
	assert.Equal(t, 0, second.Session().Combo)
	assert.Equal(t, typing.Duration, second.Session().TimeLeft)
}

func TestQuizFeedbackHoldThenAdvance(t *testing.T) {
	f := newFixture()
	e := f.startQuiz(t)
	assert.Equal(t, screen.Quiz, f.screens.Current())
	frame, second := f.ctl.Ticking()
	assert.False(t, frame, "quiz has no frame loop")
	assert.True(t, second)

	f.ctl.SelectOption(0)
	f.sched.Advance(799 * time.Millisecond)
	assert.Equal(t, 0, e.Current())
	f.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, e.Current())
}

func TestQuizPauseHoldsFeedback(t *testing.T) {
	f := newFixture()
	e := f.startQuiz(t)

	f.ctl.SelectOption(0)
	f.sched.Advance(400 * time.Millisecond)
	f.ctl.TogglePause()
	f.sched.Advance(5 * time.Second)
	assert.Equal(t, 0, e.Current())
	assert.Equal(t, quiz.TimeLimit, e.TimeLeft())

	f.ctl.SelectOption(1)
	f.ctl.TogglePause()
	f.sched.Advance(quiz.FeedbackDelay)
	assert.Equal(t, 1, e.Current())
}

func TestQuizAllCorrect(t *testing.T) {
	f := newFixture()
	e := f.startQuiz(t)
	for i := 0; i < quiz.Length; i++ {
		q := e.Questions()[e.Current()]
		for idx, opt := range q.Options {
			if opt == q.Correct {
				f.ctl.SelectOption(idx)
			}
		}
		f.sched.Advance(quiz.FeedbackDelay)
	}

	assert.Equal(t, screen.Result, f.screens.Current())
	result, ok := f.ctl.LastResult()
	require.True(t, ok)
	assert.Equal(t, 10, result.Score)
	require.Len(t, f.rec.Review, 10)
	for _, entry := range f.rec.Review {
		assert.True(t, entry.IsCorrect)
	}
}

func TestQuizTimeout(t *testing.T) {
	f := newFixture()
	f.startQuiz(t)
	f.sched.Advance(quiz.TimeLimit * time.Second)

	assert.Equal(t, screen.Result, f.screens.Current())
	result, ok := f.ctl.LastResult()
	require.True(t, ok)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, quiz.Unanswered, result.Review[0].UserAnswer)
}

func TestInputRoutedByMode(t *testing.T) {
	f := newFixture()
	e := f.startQuiz(t)
	f.ctl.HandleKey(model.RuneKey('A'))
	assert.Empty(t, f.rec.Feedback)

	f.ctl.TogglePause()
	f.ctl.SelectOption(0)
	assert.False(t, e.Awaiting())
}
