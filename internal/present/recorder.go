package present

import "github.com/verte-zerg/secda/internal/model"

// Recorder keeps the latest value of every event and counts flashes. Tests use it in
// place of a terminal.
type Recorder struct {
	Word       *WordView
	Board      Scoreboard
	Question   *QuestionView
	QuizTime   int
	Feedback   []Feedback
	Countdown  []int
	Ready      []model.Difficulty
	Paused     bool
	Result     *model.Result
	Review     []model.ReviewEntry
	Notices    []string
	Penalties  int
	TimeBonus  int
	Mistypes   int
	WordRender int
}

var _ Presenter = (*Recorder)(nil)

func (r *Recorder) RenderActiveWord(word WordView) {
	r.Word = &word
	r.WordRender++
}

func (r *Recorder) ClearActiveWord()                  { r.Word = nil }
func (r *Recorder) RenderScoreboard(board Scoreboard) { r.Board = board }

func (r *Recorder) RenderQuizQuestion(q QuestionView) {
	r.Question = &q
	r.QuizTime = q.TimeLeft
}

func (r *Recorder) RenderQuizTimer(timeLeft int)        { r.QuizTime = timeLeft }
func (r *Recorder) RenderQuizFeedback(f Feedback)       { r.Feedback = append(r.Feedback, f) }
func (r *Recorder) RenderCountdown(n int)               { r.Countdown = append(r.Countdown, n) }
func (r *Recorder) RenderReady(d model.Difficulty)      { r.Ready = append(r.Ready, d) }
func (r *Recorder) RenderPaused(paused bool)            { r.Paused = paused }
func (r *Recorder) RenderNotice(msg string)             { r.Notices = append(r.Notices, msg) }
func (r *Recorder) FlashPenalty()                       { r.Penalties++ }
func (r *Recorder) FlashTimeBonus()                     { r.TimeBonus++ }
func (r *Recorder) FlashMistype()                       { r.Mistypes++ }
func (r *Recorder) RenderReview(es []model.ReviewEntry) { r.Review = es }

func (r *Recorder) RenderResult(result model.Result) {
	r.Result = &result
}
