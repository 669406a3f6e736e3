// Package session owns the lifecycle of the active play session: it drives the engine's
// frame loop and clock, pauses and resumes them, and reports the final result.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/secda/internal/clock"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
	"github.com/verte-zerg/secda/internal/quiz"
	"github.com/verte-zerg/secda/internal/screen"
	"github.com/verte-zerg/secda/internal/typing"
)

// Controller runs at most one session at a time.
type Controller struct {
	sched   clock.Scheduler
	screens *screen.Controller
	view    present.Presenter
	log     zerolog.Logger

	id      uuid.UUID
	mode    model.Mode
	playing bool
	paused  bool
	typing  *typing.Engine
	quiz    *quiz.Engine

	frame    *clock.Task
	second   *clock.Task
	feedback *clock.Task

	last *model.Result
}

// New builds an idle controller.
func New(s clock.Scheduler, screens *screen.Controller, view present.Presenter, log zerolog.Logger) *Controller {
	return &Controller{
		sched:   s,
		screens: screens,
		view:    view,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// StartTyping shows the game screen and runs e until time runs out or the player leaves.
func (c *Controller) StartTyping(e *typing.Engine) {
	c.begin(model.ModeTyping)
	c.typing = e
	c.frame = clock.NewTicker(c.sched, typing.FrameInterval, c.onFrame)
	c.second = clock.NewTicker(c.sched, time.Second, c.onSecond)

	settings := e.Settings()
	c.screens.ShowGame(settings.Blind)
	c.playing = true
	c.second.Start()
	c.frame.Start()
	e.Start()
	c.log.Info().
		Str("session", c.id.String()).
		Str("mode", c.mode.String()).
		Str("difficulty", settings.Name).
		Msg("session started")
}

// StartQuiz shows the quiz screen and runs e until it is answered, times out or the player
// leaves.
func (c *Controller) StartQuiz(e *quiz.Engine) {
	c.begin(model.ModeQuiz)
	c.quiz = e
	c.second = clock.NewTicker(c.sched, time.Second, c.onSecond)
	c.feedback = clock.NewTimer(c.sched, quiz.FeedbackDelay, c.onAdvance)

	c.screens.Show(screen.Quiz)
	c.playing = true
	c.second.Start()
	e.Start()
	c.log.Info().Str("session", c.id.String()).Str("mode", c.mode.String()).Msg("session started")
}

// HandleKey forwards a key-down to the typing engine.
func (c *Controller) HandleKey(k model.Key) {
	if !c.playing || c.paused || c.mode != model.ModeTyping {
		return
	}
	c.typing.HandleKey(k)
}

// SelectOption answers the current quiz question and holds the feedback before moving on.
func (c *Controller) SelectOption(choice int) {
	if !c.playing || c.paused || c.mode != model.ModeQuiz {
		return
	}
	if c.quiz.Select(choice) {
		c.feedback.Start()
	}
}

// TogglePause suspends or resumes the running session.
func (c *Controller) TogglePause() {
	if !c.playing {
		return
	}
	c.paused = !c.paused
	if c.paused {
		c.stopTasks()
		switch c.mode {
		case model.ModeTyping:
			c.typing.Pause()
		case model.ModeQuiz:
			c.quiz.Pause()
		}
		c.view.RenderPaused(true)
		c.log.Debug().Str("session", c.id.String()).Msg("session paused")
		return
	}

	switch c.mode {
	case model.ModeTyping:
		c.typing.Resume()
		c.second.Start()
		c.frame.Start()
	case model.ModeQuiz:
		c.quiz.Resume()
		c.second.Start()
		if c.quiz.Awaiting() {
			c.feedback.Start()
		}
	}
	c.view.RenderPaused(false)
	c.log.Debug().Str("session", c.id.String()).Msg("session resumed")
}

// ReturnToMenu abandons a paused session without a result and shows the difficulty menu.
// It reports whether the session was abandoned.
func (c *Controller) ReturnToMenu() bool {
	if !c.playing || !c.paused {
		return false
	}
	c.finish(true)
	return true
}

// End finishes the running session and shows its result.
func (c *Controller) End() {
	if !c.playing {
		return
	}
	c.finish(false)
}

// Playing reports whether a session is running, paused or not.
func (c *Controller) Playing() bool {
	return c.playing
}

// Paused reports whether the running session is paused.
func (c *Controller) Paused() bool {
	return c.paused
}

// Mode returns the kind of the current or last session.
func (c *Controller) Mode() model.Mode {
	return c.mode
}

// Typing returns the running typing engine, if any.
func (c *Controller) Typing() *typing.Engine {
	return c.typing
}

// Quiz returns the running quiz engine, if any.
func (c *Controller) Quiz() *quiz.Engine {
	return c.quiz
}

// LastResult returns the result of the last session that finished with one.
func (c *Controller) LastResult() (model.Result, bool) {
	if c.last == nil {
		return model.Result{}, false
	}
	return *c.last, true
}

// Ticking reports which of the frame loop and the clock are running.
func (c *Controller) Ticking() (frame, second bool) {
	return running(c.frame), running(c.second)
}

func (c *Controller) begin(mode model.Mode) {
	if c.playing {
		c.finish(true)
	}
	c.mode = mode
	c.id = uuid.New()
	c.paused = false
	c.typing = nil
	c.quiz = nil
	c.frame, c.second, c.feedback = nil, nil, nil
}

func (c *Controller) onFrame() {
	c.typing.Frame()
}

func (c *Controller) onSecond() {
	var expired bool
	switch c.mode {
	case model.ModeTyping:
		expired = c.typing.Second()
	case model.ModeQuiz:
		expired = c.quiz.Second()
	}
	if expired {
		c.finish(false)
	}
}

func (c *Controller) onAdvance() {
	if c.quiz.Advance() {
		c.finish(false)
	}
}

func (c *Controller) finish(toMenu bool) {
	c.stopTasks()
	c.playing = false
	c.paused = false
	c.view.RenderPaused(false)

	if toMenu {
		c.log.Info().Str("session", c.id.String()).Msg("session abandoned")
		c.typing, c.quiz = nil, nil
		c.screens.Show(screen.Difficulty)
		return
	}

	var result model.Result
	switch c.mode {
	case model.ModeTyping:
		result = c.typing.End()
	case model.ModeQuiz:
		result = c.quiz.End()
	}
	c.last = &result
	c.typing, c.quiz = nil, nil
	c.view.RenderResult(result)
	c.screens.Show(screen.Result)
	c.log.Info().
		Str("session", c.id.String()).
		Str("mode", result.Mode.String()).
		Int("score", result.Score).
		Int("goal", result.Goal).
		Str("outcome", result.Outcome.Title()).
		Msg("session ended")
}

func (c *Controller) stopTasks() {
	for _, task := range []*clock.Task{c.frame, c.second, c.feedback} {
		if task != nil {
			task.Stop()
		}
	}
}

func running(task *clock.Task) bool {
	return task != nil && task.Running()
}
