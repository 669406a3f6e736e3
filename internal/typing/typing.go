// Package typing implements the falling-word typing engine: one word travels along the track
// and the player must type its target term before it reaches the end.
package typing

import (
	"math"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
)

// Gameplay constants.
const (
	Duration         = 60 // seconds
	FrameInterval    = time.Second / 60
	ScaleFactor      = 0.05
	CollisionAt      = 90.0
	CollisionPenalty = 500
	ComboMilestone   = 25
)

// State is the engine lifecycle.
type State int

// Engine states.
const (
	Idle State = iota
	Playing
	Paused
	Ended
)

// ActiveWord is the single word in flight.
type ActiveWord struct {
	Term     model.Term
	Position float64
	Speed    float64
	Typed    int
}

// Session is the mutable scoring state of one game.
type Session struct {
	Difficulty model.Difficulty
	Score      int
	Combo      int
	MaxCombo   int
	TimeLeft   int
	Elapsed    int
	Correct    int
	Incorrect  int
	Completed  int
	Collisions int
	Skips      int
}

// Engine runs one typing session. Build a new Engine for every game.
type Engine struct {
	settings model.DifficultySetting
	bag      *generator.Bag
	view     present.Presenter
	log      zerolog.Logger

	state   State
	session Session
	word    *ActiveWord
	target  []rune
	focused bool
	result  *model.Result
}

// New prepares an idle engine for difficulty d drawing words from bag.
func New(d model.Difficulty, bag *generator.Bag, view present.Presenter, log zerolog.Logger) *Engine {
	return &Engine{
		settings: d.Settings(),
		bag:      bag,
		view:     view,
		log:      log.With().Str("component", "typing").Str("difficulty", d.String()).Logger(),
		session: Session{
			Difficulty: d,
			TimeLeft:   Duration,
		},
	}
}

// Start switches to Playing and puts the first word on the track.
func (e *Engine) Start() {
	if e.state != Idle {
		return
	}
	e.state = Playing
	e.view.ClearActiveWord()
	e.renderScoreboard()
	e.spawn()
	e.focus()
}

// Frame advances the track by one animation frame: movement and collision first, then
// spawn and focus.
func (e *Engine) Frame() {
	if e.state != Playing {
		return
	}
	if e.word != nil {
		e.word.Position += e.word.Speed * ScaleFactor
		if e.word.Position >= CollisionAt {
			e.collide()
		}
	}
	if e.word == nil {
		e.spawn()
	}
	e.focus()
	if e.word != nil {
		e.renderWord()
	}
}

// HandleKey applies one key-down event.
func (e *Engine) HandleKey(k model.Key) {
	if e.state != Playing {
		return
	}
	if k.Code == model.KeyEnter && e.settings.SkipOnConfirm {
		if e.word != nil {
			e.session.Skips++
			e.collide()
		}
		return
	}
	r, ok := k.Char()
	if !ok || r == ' ' || e.word == nil {
		return
	}
	if e.word.Typed >= len(e.target) {
		return
	}
	if unicode.ToUpper(r) != unicode.ToUpper(e.target[e.word.Typed]) {
		e.mistype()
		return
	}

	e.word.Typed++
	for e.word.Typed < len(e.target) && e.target[e.word.Typed] == ' ' {
		e.word.Typed++
	}
	e.session.Correct++
	e.session.Combo++
	if e.session.Combo > e.session.MaxCombo {
		e.session.MaxCombo = e.session.Combo
	}
	if bonus := TimeBonus(e.session.Combo); bonus > 0 {
		e.session.TimeLeft += bonus
		e.view.FlashTimeBonus()
	}
	if e.word.Typed >= len(e.target) {
		e.complete()
	} else {
		e.renderWord()
	}
	e.renderScoreboard()
}

// Second counts the session clock down and reports whether time has run out.
func (e *Engine) Second() bool {
	if e.state != Playing {
		return false
	}
	e.session.TimeLeft--
	e.session.Elapsed++
	e.renderScoreboard()
	return e.session.TimeLeft <= 0
}

// Pause suspends input and movement.
func (e *Engine) Pause() {
	if e.state == Playing {
		e.state = Paused
	}
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	if e.state == Paused {
		e.state = Playing
	}
}

// End finishes the session and returns its result. Further calls return the same result.
func (e *Engine) End() model.Result {
	if e.result != nil {
		return *e.result
	}
	e.state = Ended
	e.word = nil
	e.target = nil
	e.focused = false
	e.view.ClearActiveWord()

	outcome := model.OutcomeCompromised
	if e.session.Score >= e.settings.Goal {
		outcome = model.OutcomeSecure
	}
	result := model.Result{
		Mode:       model.ModeTyping,
		Outcome:    outcome,
		Difficulty: e.session.Difficulty,
		Score:      e.session.Score,
		Goal:       e.settings.Goal,
		MaxCombo:   e.session.MaxCombo,
		Correct:    e.session.Correct,
		Incorrect:  e.session.Incorrect,
		Total:      e.session.Completed,
		Duration:   time.Duration(e.session.Elapsed) * time.Second,
	}
	e.result = &result
	e.log.Debug().
		Int("score", result.Score).
		Int("completed", e.session.Completed).
		Int("collisions", e.session.Collisions).
		Msg("typing session ended")
	return result
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Session returns a snapshot of the scoring state.
func (e *Engine) Session() Session {
	return e.session
}

// ActiveWord returns a copy of the word in flight.
func (e *Engine) ActiveWord() (ActiveWord, bool) {
	if e.word == nil {
		return ActiveWord{}, false
	}
	return *e.word, true
}

// Settings returns the difficulty tuning.
func (e *Engine) Settings() model.DifficultySetting {
	return e.settings
}

// TimeBonus returns the seconds granted when the combo reaches combo: +1, +2 and +3 for the
// first three multiples of 25 and +1 for every multiple after that.
func TimeBonus(combo int) int {
	if combo <= 0 || combo%ComboMilestone != 0 {
		return 0
	}
	switch combo / ComboMilestone {
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return 3
	default:
		return 1
	}
}

// WordPoints is the score for completing a target of length runes.
func WordPoints(length int) int {
	base := 50 + length*30
	return int(math.Floor(float64(base) * 1.5))
}

func (e *Engine) spawn() {
	if e.word != nil {
		return
	}
	term, ok := e.bag.Draw()
	if !ok {
		return
	}
	e.word = &ActiveWord{Term: term, Speed: e.settings.Speed}
	e.target = []rune(term.Target)
	e.focused = false
}

func (e *Engine) focus() {
	if e.word == nil || e.focused {
		return
	}
	e.focused = true
	e.word.Typed = 0
	e.renderWord()
}

func (e *Engine) collide() {
	e.removeWord()
	e.session.Combo = 0
	e.session.Collisions++
	e.session.Score -= CollisionPenalty
	if e.session.Score < 0 {
		e.session.Score = 0
	}
	e.view.FlashPenalty()
	e.renderScoreboard()
}

func (e *Engine) complete() {
	points := WordPoints(len(e.target))
	e.log.Debug().Str("target", e.word.Term.Target).Int("points", points).Msg("word completed")
	e.removeWord()
	e.session.Completed++
	e.session.Score += points
}

func (e *Engine) mistype() {
	e.session.Combo = 0
	e.session.Incorrect++
	e.view.FlashMistype()
	e.renderScoreboard()
}

func (e *Engine) removeWord() {
	e.word = nil
	e.target = nil
	e.focused = false
	e.view.ClearActiveWord()
}

func (e *Engine) renderWord() {
	e.view.RenderActiveWord(present.WordView{
		Source:   e.word.Term.Source,
		Target:   e.word.Term.Target,
		Position: e.word.Position,
		Revealed: e.word.Typed,
		Blind:    e.settings.Blind,
	})
}

func (e *Engine) renderScoreboard() {
	e.view.RenderScoreboard(present.Scoreboard{
		Score:    e.session.Score,
		Combo:    e.session.Combo,
		TimeLeft: e.session.TimeLeft,
		Goal:     e.settings.Goal,
	})
}
