// Package quiz implements study mode: a timed multiple-choice quiz over the vocabulary.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
)

// Quiz constants.
const (
	Length        = 10
	OptionCount   = 4
	TimeLimit     = 90 // seconds
	FeedbackDelay = 800 * time.Millisecond
	Unanswered    = "-"
)

// ErrNotEnoughTerms reports a vocabulary too small for a full quiz.
var ErrNotEnoughTerms = errors.New("not enough terms for a quiz")

// Direction selects which side of a term is the prompt.
type Direction int

// Question directions. The first half of a quiz asks source→target.
const (
	SourceToTarget Direction = iota
	TargetToSource
)

func (d Direction) prompt(t model.Term) string {
	if d == SourceToTarget {
		return t.Source
	}
	return t.Target
}

func (d Direction) answer(t model.Term) string {
	if d == SourceToTarget {
		return t.Target
	}
	return t.Source
}

// Question is one multiple-choice item. Only UserAnswer and IsCorrect change after
// generation.
type Question struct {
	Term       model.Term
	Direction  Direction
	Prompt     string
	Correct    string
	Options    []string
	UserAnswer *string
	IsCorrect  bool
}

// State is the engine lifecycle.
type State int

// Engine states.
const (
	Idle State = iota
	Playing
	Paused
	Ended
)

// Engine runs one quiz session. Build a new Engine for every session.
type Engine struct {
	view present.Presenter
	log  zerolog.Logger

	questions []Question
	index     int
	score     int
	timeLeft  int
	elapsed   int
	awaiting  bool
	state     State
	result    *model.Result
}

// New generates a fresh set of questions from terms.
func New(gen *generator.Generator, terms []model.Term, view present.Presenter, log zerolog.Logger) (*Engine, error) {
	questions, err := BuildQuestions(gen, terms)
	if err != nil {
		return nil, err
	}
	return &Engine{
		view:      view,
		log:       log.With().Str("component", "quiz").Logger(),
		questions: questions,
		timeLeft:  TimeLimit,
	}, nil
}

// BuildQuestions picks Length distinct terms; the first half ask for the target, the second
// half for the source. Each question gets OptionCount unique options.
func BuildQuestions(gen *generator.Generator, terms []model.Term) ([]Question, error) {
	selected := make([]model.Term, 0, Length)
	seen := map[model.Term]struct{}{}
	for _, term := range gen.Shuffle(terms) {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		selected = append(selected, term)
		if len(selected) == Length {
			break
		}
	}
	if len(selected) < Length {
		return nil, fmt.Errorf("%w: need %d distinct terms, have %d", ErrNotEnoughTerms, Length, len(selected))
	}

	questions := make([]Question, 0, Length)
	for i, term := range selected {
		dir := SourceToTarget
		if i >= Length/2 {
			dir = TargetToSource
		}
		options, err := buildOptions(gen, terms, term, dir)
		if err != nil {
			return nil, err
		}
		questions = append(questions, Question{
			Term:      term,
			Direction: dir,
			Prompt:    dir.prompt(term),
			Correct:   dir.answer(term),
			Options:   options,
		})
	}
	return questions, nil
}

func buildOptions(gen *generator.Generator, terms []model.Term, term model.Term, dir Direction) ([]string, error) {
	others := make([]model.Term, 0, len(terms))
	for _, t := range terms {
		if t != term {
			others = append(others, t)
		}
	}
	correct := dir.answer(term)
	options := []string{correct}
	used := map[string]struct{}{correct: {}}
	for _, t := range gen.Shuffle(others) {
		if len(options) == OptionCount {
			break
		}
		candidate := dir.answer(t)
		if _, dup := used[candidate]; dup {
			continue
		}
		used[candidate] = struct{}{}
		options = append(options, candidate)
	}
	if len(options) < OptionCount {
		return nil, fmt.Errorf("%w: not enough distinct answers for %q", ErrNotEnoughTerms, dir.prompt(term))
	}
	gen.ShuffleStrings(options)
	return options, nil
}

// Start shows the first question.
func (e *Engine) Start() {
	if e.state != Idle {
		return
	}
	e.state = Playing
	e.renderQuestion()
}

// Select answers the current question with option choice. It reports whether the answer
// was accepted, in which case the caller must hold for FeedbackDelay and then call Advance.
func (e *Engine) Select(choice int) bool {
	if e.state != Playing || e.awaiting || e.index >= len(e.questions) {
		return false
	}
	q := &e.questions[e.index]
	if choice < 0 || choice >= len(q.Options) {
		return false
	}
	answer := q.Options[choice]
	q.UserAnswer = &answer
	q.IsCorrect = answer == q.Correct
	if q.IsCorrect {
		e.score++
	}
	e.awaiting = true
	e.view.RenderQuizFeedback(present.Feedback{
		Correct:      q.IsCorrect,
		Chosen:       choice,
		CorrectIndex: indexOf(q.Options, q.Correct),
	})
	return true
}

// Advance moves past the feedback hold. It reports whether the quiz has run out of questions.
func (e *Engine) Advance() bool {
	if !e.awaiting {
		return e.index >= len(e.questions)
	}
	e.awaiting = false
	e.index++
	if e.index >= len(e.questions) {
		return true
	}
	e.renderQuestion()
	return false
}

// Second counts the quiz clock down and reports whether time has run out.
func (e *Engine) Second() bool {
	if e.state != Playing {
		return false
	}
	e.timeLeft--
	e.elapsed++
	e.view.RenderQuizTimer(e.timeLeft)
	return e.timeLeft <= 0
}

// Pause suspends answering and the clock.
func (e *Engine) Pause() {
	if e.state == Playing {
		e.state = Paused
	}
}

// Resume continues a paused quiz.
func (e *Engine) Resume() {
	if e.state == Paused {
		e.state = Playing
	}
}

// Awaiting reports whether an answer is being shown and Advance is due.
func (e *Engine) Awaiting() bool {
	return e.awaiting
}

// End finishes the quiz, renders the review and returns the result.
func (e *Engine) End() model.Result {
	if e.result != nil {
		return *e.result
	}
	e.state = Ended
	e.awaiting = false
	review := e.Review()
	answered := 0
	for _, q := range e.questions {
		if q.UserAnswer != nil {
			answered++
		}
	}
	result := model.Result{
		Mode:      model.ModeQuiz,
		Outcome:   model.OutcomeStudyComplete,
		Score:     e.score,
		Goal:      len(e.questions),
		Correct:   e.score,
		Incorrect: answered - e.score,
		Total:     len(e.questions),
		Duration:  time.Duration(e.elapsed) * time.Second,
		Review:    review,
	}
	e.result = &result
	e.view.RenderReview(review)
	e.log.Debug().Int("score", e.score).Int("answered", answered).Msg("quiz ended")
	return result
}

// Review lists every question in order with the player's answer.
func (e *Engine) Review() []model.ReviewEntry {
	entries := make([]model.ReviewEntry, 0, len(e.questions))
	for i, q := range e.questions {
		answer := Unanswered
		if q.UserAnswer != nil {
			answer = *q.UserAnswer
		}
		entries = append(entries, model.ReviewEntry{
			Number:     i + 1,
			Prompt:     q.Prompt,
			Correct:    q.Correct,
			UserAnswer: answer,
			IsCorrect:  q.IsCorrect,
		})
	}
	return entries
}

// Questions returns a copy of the generated questions.
func (e *Engine) Questions() []Question {
	out := make([]Question, len(e.questions))
	copy(out, e.questions)
	return out
}

// Current returns the index of the question being asked.
func (e *Engine) Current() int {
	return e.index
}

// Score returns the number of correct answers so far.
func (e *Engine) Score() int {
	return e.score
}

// TimeLeft returns the remaining seconds.
func (e *Engine) TimeLeft() int {
	return e.timeLeft
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) renderQuestion() {
	q := e.questions[e.index]
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	e.view.RenderQuizQuestion(present.QuestionView{
		Number:   e.index + 1,
		Total:    len(e.questions),
		Prompt:   q.Prompt,
		Options:  options,
		TimeLeft: e.timeLeft,
	})
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
