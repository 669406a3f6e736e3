// Package present defines the semantic rendering events the game core emits.
package present

import "github.com/verte-zerg/secda/internal/model"

// WordView describes the active typing target.
type WordView struct {
	Source string
	Target string
	// Position is the distance travelled along the track, 0 to 100.
	Position float64
	// Revealed is the number of target runes already typed.
	Revealed int
	Blind    bool
}

// Scoreboard is the typing HUD.
type Scoreboard struct {
	Score    int
	Combo    int
	TimeLeft int
	Goal     int
}

// QuestionView is a quiz question as presented to the player.
type QuestionView struct {
	Number   int
	Total    int
	Prompt   string
	Options  []string
	TimeLeft int
}

// Feedback is the verdict on a quiz answer.
type Feedback struct {
	Correct      bool
	Chosen       int
	CorrectIndex int
}

// Presenter renders engine state. Implementations must not call back into the core.
type Presenter interface {
	RenderActiveWord(word WordView)
	ClearActiveWord()
	RenderScoreboard(board Scoreboard)
	RenderQuizQuestion(q QuestionView)
	RenderQuizTimer(timeLeft int)
	RenderQuizFeedback(f Feedback)
	RenderCountdown(n int)
	RenderReady(difficulty model.Difficulty)
	RenderPaused(paused bool)
	RenderResult(result model.Result)
	RenderReview(entries []model.ReviewEntry)
	RenderNotice(msg string)
	FlashPenalty()
	FlashTimeBonus()
	FlashMistype()
}

// Nop discards every event.
type Nop struct{}

var _ Presenter = Nop{}

func (Nop) RenderActiveWord(WordView)        {}
func (Nop) ClearActiveWord()                 {}
func (Nop) RenderScoreboard(Scoreboard)      {}
func (Nop) RenderQuizQuestion(QuestionView)  {}
func (Nop) RenderQuizTimer(int)              {}
func (Nop) RenderQuizFeedback(Feedback)      {}
func (Nop) RenderCountdown(int)              {}
func (Nop) RenderReady(model.Difficulty)     {}
func (Nop) RenderPaused(bool)                {}
func (Nop) RenderResult(model.Result)        {}
func (Nop) RenderReview([]model.ReviewEntry) {}
func (Nop) RenderNotice(string)              {}
func (Nop) FlashPenalty()                    {}
func (Nop) FlashTimeBonus()                  {}
func (Nop) FlashMistype()                    {}
