// Package screen tracks which UI screen is active.
package screen

import "fmt"

// Screen is one of the fixed UI screens.
type Screen int

// Screens in navigation order.
const (
	Start Screen = iota
	Intro
	Difficulty
	Ready
	Countdown
	Game
	Quiz
	Result
)

func (s Screen) String() string {
	switch s {
	case Start:
		return "start"
	case Intro:
		return "intro"
	case Difficulty:
		return "difficulty"
	case Ready:
		return "ready"
	case Countdown:
		return "countdown"
	case Game:
		return "game"
	case Quiz:
		return "quiz"
	case Result:
		return "result"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Valid reports whether s is one of the declared screens.
func (s Screen) Valid() bool {
	return s >= Start && s <= Result
}

// Controller activates exactly one screen at a time. It has no history: going back is an
// explicit Show of the previous screen.
type Controller struct {
	current Screen
	expert  bool
	visits  map[Screen]int
	// OnChange, when set, observes every transition.
	OnChange func(from, to Screen)
}

// NewController starts on the Start screen.
func NewController() *Controller {
	return &Controller{current: Start, visits: map[Screen]int{Start: 1}}
}

// Show deactivates the current screen and activates s. Expert mode is cleared.
func (c *Controller) Show(s Screen) {
	if !s.Valid() {
		panic(fmt.Sprintf("show: %s is not a screen", s))
	}
	from := c.current
	c.current = s
	c.expert = false
	c.visits[s]++
	if c.OnChange != nil {
		c.OnChange(from, s)
	}
}

// ShowGame activates the Game screen, flagging expert styling when requested.
func (c *Controller) ShowGame(expert bool) {
	c.Show(Game)
	c.expert = expert
}

// Current returns the active screen.
func (c *Controller) Current() Screen {
	return c.current
}

// Is reports whether s is active.
func (c *Controller) Is(s Screen) bool {
	return c.current == s
}

// Expert reports whether the game screen is in expert styling.
func (c *Controller) Expert() bool {
	return c.expert
}

// Visits reports how many times s has been shown.
func (c *Controller) Visits(s Screen) int {
	return c.visits[s]
}
