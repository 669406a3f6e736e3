// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Config defines play settings resolved from flags, config file and environment.
type Config struct {
	TermsPath string
	Deck      string
	SkipIntro bool
	// Difficulty preselects the menu entry; empty keeps the first.
	Difficulty string
	Seed       int64
	Accent     string
	LogLevel   string
	LogFile    string
}

// Term is a source/target vocabulary pair. The player types Target while Source is shown.
type Term struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// DeckInfo summarizes a stored vocabulary deck.
type DeckInfo struct {
	Name       string
	Terms      int
	ImportedAt time.Time
}

// Difficulty is one of the fixed typing difficulties.
type Difficulty int

// Difficulties in menu order.
const (
	Easy Difficulty = iota
	Normal
	Hard
	Expert
)

// Difficulties lists every difficulty in menu order.
var Difficulties = []Difficulty{Easy, Normal, Hard, Expert}

// DifficultySetting holds the tuning of a difficulty.
type DifficultySetting struct {
	Name      string
	Speed     float64
	SpawnRate time.Duration
	Goal      int
	// Blind hides untyped characters and SkipOnConfirm turns Enter into a skip.
	Blind         bool
	SkipOnConfirm bool
}

// Settings returns the fixed setting for d. Expert mirrors normal's speed and goal.
func (d Difficulty) Settings() DifficultySetting {
	switch d {
	case Easy:
		return DifficultySetting{Name: "SCRIPT KIDDIE", Speed: 1.5, SpawnRate: time.Second, Goal: 3000}
	case Normal:
		return DifficultySetting{Name: "HACKER", Speed: 3.0, SpawnRate: time.Second, Goal: 10000}
	case Hard:
		return DifficultySetting{Name: "CISO", Speed: 4.5, SpawnRate: time.Second, Goal: 30000}
	case Expert:
		normal := Normal.Settings()
		return DifficultySetting{
			Name:          "EXPERT",
			Speed:         normal.Speed,
			SpawnRate:     normal.SpawnRate,
			Goal:          normal.Goal,
			Blind:         true,
			SkipOnConfirm: true,
		}
	default:
		panic(fmt.Sprintf("unknown difficulty %d", int(d)))
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps a difficulty name to its value.
func ParseDifficulty(name string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(name), d.String()) {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", name)
}

// KeyCode classifies a key-down event.
type KeyCode int

// Key codes understood by the engines.
const (
	KeyOther KeyCode = iota
	KeyRune
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
)

// Key is a single key-down event.
type Key struct {
	Code  KeyCode
	Runes []rune
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// RuneKey builds a printable key event.
func RuneKey(r rune) Key {
	if r == ' ' {
		return Key{Code: KeySpace, Runes: []rune{' '}}
	}
	return Key{Code: KeyRune, Runes: []rune{r}}
}

// Char returns the single printable character of the key, if any.
func (k Key) Char() (rune, bool) {
	if k.Code != KeyRune || len(k.Runes) != 1 || k.Ctrl || k.Alt || k.Meta {
		return 0, false
	}
	return k.Runes[0], true
}

// Mode is the kind of a play session.
type Mode int

// Session modes.
const (
	ModeTyping Mode = iota
	ModeQuiz
)

func (m Mode) String() string {
	if m == ModeQuiz {
		return "quiz"
	}
	return "typing"
}

// Outcome is the verdict of a finished session.
type Outcome int

// Session outcomes.
const (
	OutcomeSecure Outcome = iota
	OutcomeCompromised
	OutcomeStudyComplete
)

// Title returns the headline shown on the result screen.
func (o Outcome) Title() string {
	switch o {
	case OutcomeSecure:
		return "MISSION COMPLETE (SECURE)"
	case OutcomeCompromised:
		return "SYSTEM COMPROMISED"
	default:
		return "STUDY SESSION COMPLETE"
	}
}

// Grade returns the rank line shown under a typing result.
func (o Outcome) Grade() string {
	switch o {
	case OutcomeSecure:
		return "PROMOTED"
	case OutcomeCompromised:
		return "TERMINATED"
	default:
		return ""
	}
}

// Result is the final report of a session.
type Result struct {
	Mode       Mode
	Outcome    Outcome
	Difficulty Difficulty
	Score      int
	Goal       int
	MaxCombo   int
	// Correct and Incorrect count keystrokes (typing) or answers (quiz).
	Correct   int
	Incorrect int
	Total     int
	Duration  time.Duration
	Review    []ReviewEntry
}

// ReviewEntry is one line of the quiz review.
type ReviewEntry struct {
	Number     int
	Prompt     string
	Correct    string
	UserAnswer string
	IsCorrect  bool
}
