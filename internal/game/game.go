// Package game wires the screens, the ready gate and the session controller together and
// routes player input to whichever of them is active.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/secda/internal/clock"
	"github.com/verte-zerg/secda/internal/gate"
	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
	"github.com/verte-zerg/secda/internal/quiz"
	"github.com/verte-zerg/secda/internal/screen"
	"github.com/verte-zerg/secda/internal/session"
	"github.com/verte-zerg/secda/internal/typing"
	"github.com/verte-zerg/secda/internal/vocab"
)

// StudyUnavailable is shown when the vocabulary is too small for a quiz.
const StudyUnavailable = "STUDY MODE NEEDS AT LEAST 10 DISTINCT TERMS"

// Options tune navigation.
type Options struct {
	// SkipIntro treats the intro screen as already seen.
	SkipIntro bool
}

// App is the application coordinator. All methods must be called from one goroutine.
type App struct {
	terms []model.Term
	gen   *generator.Generator
	view  present.Presenter
	log   zerolog.Logger

	screens   *screen.Controller
	ready     gate.Ready
	countdown *gate.Countdown
	session   *session.Controller

	introShown bool
	difficulty model.Difficulty
}

// New validates the vocabulary and returns an App on the Start screen.
func New(terms []model.Term, gen *generator.Generator, s clock.Scheduler, view present.Presenter, log zerolog.Logger, opts Options) (*App, error) {
	if err := vocab.Validate(terms); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	screens := screen.NewController()
	log = log.With().Str("component", "game").Logger()
	screens.OnChange = func(from, to screen.Screen) {
		log.Debug().Stringer("from", from).Stringer("to", to).Msg("screen")
	}
	return &App{
		terms:      terms,
		gen:        gen,
		view:       view,
		log:        log,
		screens:    screens,
		countdown:  gate.NewCountdown(s, view),
		session:    session.New(s, screens, view, log),
		introShown: opts.SkipIntro,
	}, nil
}

// Screens exposes the screen controller.
func (a *App) Screens() *screen.Controller {
	return a.screens
}

// Session exposes the session controller.
func (a *App) Session() *session.Controller {
	return a.session
}

// Difficulty returns the difficulty last chosen.
func (a *App) Difficulty() model.Difficulty {
	return a.difficulty
}

// Leave moves on from the Start, Intro and Result screens. The intro counts as seen once
// the player moves past it.
func (a *App) Leave() {
	switch a.screens.Current() {
	case screen.Start:
		if a.introShown {
			a.screens.Show(screen.Difficulty)
			return
		}
		a.screens.Show(screen.Intro)
	case screen.Intro:
		a.introShown = true
		a.screens.Show(screen.Difficulty)
	case screen.Result:
		a.screens.Show(screen.Difficulty)
	}
}

// ChooseDifficulty shows the ready gate for a typing session at d.
func (a *App) ChooseDifficulty(d model.Difficulty) {
	if !a.screens.Is(screen.Difficulty) {
		return
	}
	a.difficulty = d
	a.screens.Show(screen.Ready)
	a.view.RenderReady(d)
	a.ready.Arm(func() {
		a.screens.Show(screen.Countdown)
		a.countdown.Start(func() { a.startTyping(d) })
	})
}

// StartStudy builds a quiz and counts down to it. The ready gate is skipped. When the
// vocabulary cannot support a quiz a notice is rendered and the Difficulty screen stays.
func (a *App) StartStudy() error {
	if !a.screens.Is(screen.Difficulty) {
		return nil
	}
	engine, err := quiz.New(a.gen, a.terms, a.view, a.log)
	if err != nil {
		if errors.Is(err, quiz.ErrNotEnoughTerms) {
			a.view.RenderNotice(StudyUnavailable)
		}
		a.log.Warn().Err(err).Int("terms", len(a.terms)).Msg("study mode refused")
		return fmt.Errorf("failed to build quiz: %w", err)
	}
	a.screens.Show(screen.Countdown)
	a.countdown.Start(func() { a.session.StartQuiz(engine) })
	return nil
}

// Confirm answers the confirm input: it passes the ready gate or leaves a passive screen.
func (a *App) Confirm() {
	switch a.screens.Current() {
	case screen.Ready:
		a.ready.Confirm()
	case screen.Start, screen.Intro, screen.Result:
		a.Leave()
	}
}

// Back navigates one step towards the menu. Pending gate listeners and countdowns are
// dropped.
func (a *App) Back() {
	switch a.screens.Current() {
	case screen.Ready:
		a.ready.Cancel()
		a.screens.Show(screen.Difficulty)
	case screen.Countdown:
		a.countdown.Cancel()
		a.screens.Show(screen.Difficulty)
	case screen.Intro, screen.Difficulty, screen.Result:
		a.screens.Show(screen.Start)
	}
}

// KeyDown routes one key-down event to the active screen.
func (a *App) KeyDown(k model.Key) {
	switch a.screens.Current() {
	case screen.Game, screen.Quiz:
		a.playKey(k)
	case screen.Start, screen.Intro, screen.Ready:
		switch k.Code {
		case model.KeySpace, model.KeyEnter:
			a.Confirm()
		case model.KeyEscape:
			a.Back()
		}
	case screen.Result:
		// Space often trails the last typed word, so only Enter leaves the result.
		switch k.Code {
		case model.KeyEnter:
			a.Confirm()
		case model.KeyEscape:
			a.Back()
		}
	case screen.Countdown, screen.Difficulty:
		if k.Code == model.KeyEscape {
			a.Back()
		}
	}
}

// SelectOption answers the current quiz question.
func (a *App) SelectOption(choice int) {
	if a.screens.Is(screen.Quiz) {
		a.session.SelectOption(choice)
	}
}

// TogglePause pauses or resumes the running session.
func (a *App) TogglePause() {
	a.session.TogglePause()
}

// ReturnToMenu abandons a paused session.
func (a *App) ReturnToMenu() bool {
	return a.session.ReturnToMenu()
}

func (a *App) playKey(k model.Key) {
	if k.Code == model.KeyEscape {
		a.TogglePause()
		return
	}
	if a.session.Paused() {
		if r, ok := k.Char(); ok && (r == 'q' || r == 'Q') {
			a.ReturnToMenu()
		}
		return
	}
	if a.session.Mode() == model.ModeQuiz {
		if r, ok := k.Char(); ok && r >= '1' && r < '1'+quiz.OptionCount {
			a.SelectOption(int(r - '1'))
		}
		return
	}
	a.session.HandleKey(k)
}

func (a *App) startTyping(d model.Difficulty) {
	bag := generator.NewBag(a.gen, a.terms)
	a.session.StartTyping(typing.New(d, bag, a.view, a.log))
}
