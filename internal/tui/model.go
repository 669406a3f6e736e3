// Package tui provides the Bubble Tea game interface. Model renders the events of the game
// core and feeds it terminal input and timer ticks on a single update loop.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/secda/internal/game"
	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
	"github.com/verte-zerg/secda/internal/screen"
)

// DefaultAccent is the accent colour used when none is configured.
const DefaultAccent = "#C89A3A"

type flashKind int

const (
	flashPenalty flashKind = iota
	flashMistype
	flashBonus
	flashCount
)

var flashDurations = [flashCount]time.Duration{
	flashPenalty: 200 * time.Millisecond,
	flashMistype: 200 * time.Millisecond,
	flashBonus:   500 * time.Millisecond,
}

// studyItem is the menu row after the difficulties.
var studyItem = len(model.Difficulties)

// Model implements the Bubble Tea game UI.
type Model struct {
	app   *game.App
	sched scheduler
	log   zerolog.Logger

	keys  keyMap
	help  help.Model
	track progress.Model
	timer progress.Model

	accent      lipgloss.Style
	accentColor lipgloss.Color
	width       int
	height      int
	cursor      int

	word     *present.WordView
	board    present.Scoreboard
	question *present.QuestionView
	quizTime int
	feedback *present.Feedback
	count    int
	ready    model.Difficulty
	paused   bool
	result   *model.Result
	review   []model.ReviewEntry
	notice   string

	flashGen [flashCount]int
	flashOn  [flashCount]bool
}

var _ present.Presenter = (*Model)(nil)

// NewModel builds the UI around a fresh game over terms.
func NewModel(cfg model.Config, terms []model.Term, gen *generator.Generator, log zerolog.Logger) (*Model, error) {
	return newModel(cfg, terms, gen, &teaScheduler{}, log)
}

func newModel(cfg model.Config, terms []model.Term, gen *generator.Generator, sched scheduler, log zerolog.Logger) (*Model, error) {
	accent := cfg.Accent
	if accent == "" {
		accent = DefaultAccent
	}
	m := &Model{
		sched:       sched,
		log:         log.With().Str("component", "tui").Logger(),
		keys:        newKeyMap(),
		help:        help.New(),
		track:       progress.New(progress.WithSolidFill("#FF4D4F"), progress.WithoutPercentage()),
		timer:       progress.New(progress.WithSolidFill(accent), progress.WithoutPercentage()),
		accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		accentColor: lipgloss.Color(accent),
	}
	app, err := game.New(terms, gen, sched, m, log, game.Options{SkipIntro: cfg.SkipIntro})
	if err != nil {
		return nil, err
	}
	m.app = app
	if cfg.Difficulty != "" {
		d, err := model.ParseDifficulty(cfg.Difficulty)
		if err != nil {
			return nil, err
		}
		m.cursor = int(d)
	}
	m.resize(0, 0)
	return m, nil
}

// App exposes the game coordinator.
func (m *Model) App() *game.App {
	return m.app
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case fireMsg:
		msg.fire()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.handleKey(msg) {
			return m, tea.Quit
		}
	}
	return m, m.sched.drain()
}

// handleKey routes a key press and reports whether the program should exit.
func (m *Model) handleKey(msg tea.KeyMsg) bool {
	switch m.app.Screens().Current() {
	case screen.Start:
		if msg.Type == tea.KeyEsc {
			return true
		}
	case screen.Difficulty:
		m.handleMenu(msg)
		return false
	}
	m.app.KeyDown(toKey(msg))
	return false
}

func (m *Model) handleMenu(msg tea.KeyMsg) {
	items := studyItem + 1
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + items - 1) % items
		m.notice = ""
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % items
		m.notice = ""
	case key.Matches(msg, m.keys.Pick):
		m.cursor = int(msg.Runes[0] - '1')
		m.choose()
	case key.Matches(msg, m.keys.Study):
		m.cursor = studyItem
		m.choose()
	case key.Matches(msg, m.keys.Confirm):
		m.choose()
	default:
		m.app.KeyDown(toKey(msg))
	}
}

func (m *Model) choose() {
	if m.cursor == studyItem {
		if err := m.app.StartStudy(); err != nil {
			m.log.Debug().Err(err).Msg("study not started")
			return
		}
		m.notice = ""
		return
	}
	m.notice = ""
	m.app.ChooseDifficulty(model.Difficulties[m.cursor])
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.track.Width = m.contentWidth()
	m.timer.Width = m.contentWidth()
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = m.width
	}
	return w
}

func (m *Model) flash(kind flashKind) {
	m.flashGen[kind]++
	gen := m.flashGen[kind]
	m.flashOn[kind] = true
	m.sched.After(flashDurations[kind], func() {
		if m.flashGen[kind] == gen {
			m.flashOn[kind] = false
		}
	})
}

// RenderActiveWord implements present.Presenter.
func (m *Model) RenderActiveWord(word present.WordView) {
	m.word = &word
}

// ClearActiveWord implements present.Presenter.
func (m *Model) ClearActiveWord() {
	m.word = nil
}

// RenderScoreboard implements present.Presenter.
func (m *Model) RenderScoreboard(board present.Scoreboard) {
	m.board = board
}

// RenderQuizQuestion implements present.Presenter.
func (m *Model) RenderQuizQuestion(q present.QuestionView) {
	m.question = &q
	m.quizTime = q.TimeLeft
	m.feedback = nil
}

// RenderQuizTimer implements present.Presenter.
func (m *Model) RenderQuizTimer(timeLeft int) {
	m.quizTime = timeLeft
}

// RenderQuizFeedback implements present.Presenter.
func (m *Model) RenderQuizFeedback(f present.Feedback) {
	m.feedback = &f
}

// RenderCountdown implements present.Presenter.
func (m *Model) RenderCountdown(n int) {
	m.count = n
}

// RenderReady implements present.Presenter.
func (m *Model) RenderReady(d model.Difficulty) {
	m.ready = d
}

// RenderPaused implements present.Presenter.
func (m *Model) RenderPaused(paused bool) {
	m.paused = paused
}

// RenderResult implements present.Presenter.
func (m *Model) RenderResult(result model.Result) {
	m.result = &result
	if result.Mode == model.ModeTyping {
		m.review = nil
	}
}

// RenderReview implements present.Presenter.
func (m *Model) RenderReview(entries []model.ReviewEntry) {
	m.review = entries
}

// RenderNotice implements present.Presenter.
func (m *Model) RenderNotice(msg string) {
	m.notice = msg
}

// FlashPenalty implements present.Presenter.
func (m *Model) FlashPenalty() { m.flash(flashPenalty) }

// FlashTimeBonus implements present.Presenter.
func (m *Model) FlashTimeBonus() { m.flash(flashBonus) }

// FlashMistype implements present.Presenter.
func (m *Model) FlashMistype() { m.flash(flashMistype) }
