package typing

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/present"
)

func newEngine(t *testing.T, d model.Difficulty, terms ...model.Term) (*Engine, *present.Recorder) {
	t.Helper()
	if len(terms) == 0 {
		terms = []model.Term{{Source: "アルファ", Target: "ALPHA"}}
	}
	rec := &present.Recorder{}
	e := New(d, generator.NewBag(generator.NewSeeded(1), terms), rec, zerolog.Nop())
	e.Start()
	return e, rec
}

func typeString(e *Engine, s string) {
	for _, r := range s {
		e.HandleKey(model.RuneKey(r))
	}
}

// typeCurrent types the active word and lets one frame spawn the next one.
func typeCurrent(t *testing.T, e *Engine) {
	t.Helper()
	word, ok := e.ActiveWord()
	require.True(t, ok, "expected an active word")
	typeString(e, word.Term.Target)
	e.Frame()
}

func TestStartSpawnsFocusedWord(t *testing.T) {
	e, rec := newEngine(t, model.Normal)

	word, ok := e.ActiveWord()
	require.True(t, ok)
	assert.Equal(t, 0.0, word.Position)
	assert.Equal(t, 3.0, word.Speed)
	assert.Equal(t, 0, word.Typed)
	assert.Equal(t, Playing, e.State())
	require.NotNil(t, rec.Word)
	assert.Equal(t, "ALPHA", rec.Word.Target)
	assert.Equal(t, Duration, rec.Board.TimeLeft)
	assert.Equal(t, 10000, rec.Board.Goal)
}

func TestFrameMovesWord(t *testing.T) {
	e, rec := newEngine(t, model.Easy)
	e.Frame()

	word, _ := e.ActiveWord()
	assert.InDelta(t, 1.5*ScaleFactor, word.Position, 1e-9)
	assert.InDelta(t, 1.5*ScaleFactor, rec.Word.Position, 1e-9)
}

func TestCollisionPenalizesAndRespawns(t *testing.T) {
	e, rec := newEngine(t, model.Easy)
	typeString(e, "AL")
	require.Equal(t, 2, e.Session().Combo)

	frames := 0
	for rec.Penalties == 0 && frames < 5000 {
		e.Frame()
		frames++
	}
	require.Equal(t, 1, rec.Penalties)
	assert.InDelta(t, CollisionAt/(1.5*ScaleFactor), float64(frames), 1)

	s := e.Session()
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 0, s.Score, "score is floored at zero")
	assert.Equal(t, 1, s.Collisions)

	word, ok := e.ActiveWord()
	require.True(t, ok, "a new word is spawned in the same frame")
	assert.Equal(t, 0.0, word.Position)
	assert.Equal(t, 0, word.Typed)
}

func TestCollisionFloorsScore(t *testing.T) {
	e, rec := newEngine(t, model.Normal)
	typeCurrent(t, e)
	require.Equal(t, 300, e.Session().Score)

	for rec.Penalties == 0 {
		e.Frame()
	}
	assert.Equal(t, 0, e.Session().Score)
}

func TestCollisionSubtractsPenalty(t *testing.T) {
	e, rec := newEngine(t, model.Normal)
	for i := 0; i < 3; i++ {
		typeCurrent(t, e)
	}
	require.Equal(t, 900, e.Session().Score)

	for rec.Penalties == 0 {
		e.Frame()
	}
	assert.Equal(t, 400, e.Session().Score)
}

func TestCompletionScoring(t *testing.T) {
	e, rec := newEngine(t, model.Normal)
	typeString(e, "ALPHA")

	assert.Equal(t, 300, e.Session().Score)
	assert.Equal(t, 1, e.Session().Completed)
	_, ok := e.ActiveWord()
	assert.False(t, ok, "completed word is removed")
	assert.Nil(t, rec.Word)

	e.Frame()
	_, ok = e.ActiveWord()
	assert.True(t, ok, "next frame spawns a new word")
}

func TestWordPoints(t *testing.T) {
	tests := map[int]int{1: 120, 5: 300, 8: 435, 10: 525}
	for length, want := range tests {
		assert.Equal(t, want, WordPoints(length), "length %d", length)
	}
}

func TestTimeBonus(t *testing.T) {
	tests := []struct {
		combo int
		want  int
	}{
		{0, 0}, {1, 0}, {24, 0}, {25, 1}, {26, 0}, {50, 2}, {75, 3}, {100, 1}, {125, 1}, {150, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeBonus(tt.combo), "combo %d", tt.combo)
	}
}

func TestComboMilestonesExtendTime(t *testing.T) {
	e, rec := newEngine(t, model.Normal)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	assert.Equal(t, 25, e.Session().Combo)
	assert.Equal(t, Duration+1, e.Session().TimeLeft)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	assert.Equal(t, Duration+3, e.Session().TimeLeft)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	assert.Equal(t, Duration+6, e.Session().TimeLeft)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	assert.Equal(t, 100, e.Session().Combo)
	assert.Equal(t, Duration+7, e.Session().TimeLeft)
	assert.Equal(t, 4, rec.TimeBonus)
}

func TestMistypeResetsMilestoneProgress(t *testing.T) {
	e, _ := newEngine(t, model.Normal)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	require.Equal(t, Duration+1, e.Session().TimeLeft)

	typeString(e, "Z")
	assert.Equal(t, 0, e.Session().Combo)
	assert.Equal(t, 25, e.Session().MaxCombo)

	for i := 0; i < 5; i++ {
		typeCurrent(t, e)
	}
	assert.Equal(t, Duration+2, e.Session().TimeLeft, "second run of 25 counts as a first milestone again")
}

func TestMistypeKeepsScore(t *testing.T) {
	e, rec := newEngine(t, model.Normal)
	typeCurrent(t, e)
	typeString(e, "AX")

	s := e.Session()
	assert.Equal(t, 300, s.Score)
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 1, rec.Mistypes)

	word, _ := e.ActiveWord()
	assert.Equal(t, 1, word.Typed, "a mistype does not advance the cursor")
}

func TestSpacesAreAutoSkipped(t *testing.T) {
	e, rec := newEngine(t, model.Normal, model.Term{Source: "ゼロデイ", Target: "ZERO DAY"})
	typeString(e, "zero")

	word, _ := e.ActiveWord()
	assert.Equal(t, 5, word.Typed)

	e.HandleKey(model.Key{Code: model.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 0, rec.Mistypes, "space is ignored")

	typeString(e, "day")
	assert.Equal(t, WordPoints(8), e.Session().Score)
	assert.Equal(t, 7, e.Session().Combo)
}

func TestMatchingIgnoresCase(t *testing.T) {
	e, _ := newEngine(t, model.Normal)
	typeString(e, "aLpHa")
	assert.Equal(t, 300, e.Session().Score)
}

func TestNonCharacterKeysIgnored(t *testing.T) {
	e, rec := newEngine(t, model.Normal)
	keys := []model.Key{
		{Code: model.KeyRune, Runes: []rune{'A'}, Ctrl: true},
		{Code: model.KeyRune, Runes: []rune{'A'}, Alt: true},
		{Code: model.KeyRune, Runes: []rune("AL")},
		{Code: model.KeyBackspace},
		{Code: model.KeyOther},
		{Code: model.KeyEnter},
	}
	for _, k := range keys {
		e.HandleKey(k)
	}
	word, _ := e.ActiveWord()
	assert.Equal(t, 0, word.Typed)
	assert.Equal(t, 0, rec.Mistypes)
	assert.Equal(t, 0, rec.Penalties, "enter outside expert does nothing")
}

func TestExpertEnterSkipsWord(t *testing.T) {
	e, rec := newEngine(t, model.Expert)
	for i := 0; i < 2; i++ {
		typeCurrent(t, e)
	}
	typeString(e, "ALP")
	require.Equal(t, 600, e.Session().Score)

	e.HandleKey(model.Key{Code: model.KeyEnter})
	s := e.Session()
	assert.Equal(t, 100, s.Score)
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 1, s.Skips)
	assert.Equal(t, 1, rec.Penalties)
	_, ok := e.ActiveWord()
	assert.False(t, ok)

	e.HandleKey(model.Key{Code: model.KeyEnter})
	assert.Equal(t, 1, rec.Penalties, "enter without an active word is a no-op")
}

func TestExpertRendersBlind(t *testing.T) {
	e, rec := newEngine(t, model.Expert)
	e.Frame()
	require.NotNil(t, rec.Word)
	assert.True(t, rec.Word.Blind)

	_, rec = newEngine(t, model.Hard)
	assert.False(t, rec.Word.Blind)
}

func TestPausedIgnoresInputAndFrames(t *testing.T) {
	e, _ := newEngine(t, model.Normal)
	e.Pause()
	typeString(e, "AL")
	e.Frame()
	assert.False(t, e.Second())

	word, _ := e.ActiveWord()
	assert.Equal(t, 0, word.Typed)
	assert.Equal(t, 0.0, word.Position)
	assert.Equal(t, Duration, e.Session().TimeLeft)

	e.Resume()
	typeString(e, "AL")
	word, _ = e.ActiveWord()
	assert.Equal(t, 2, word.Typed)
}

func TestTimerExpires(t *testing.T) {
	e, _ := newEngine(t, model.Normal)
	for i := 1; i < Duration; i++ {
		require.False(t, e.Second(), "second %d", i)
	}
	assert.True(t, e.Second())
	assert.Equal(t, 0, e.Session().TimeLeft)
}

func TestScenarioEasyMissionComplete(t *testing.T) {
	e, _ := newEngine(t, model.Easy,
		model.Term{Source: "a", Target: "ALPHA"},
		model.Term{Source: "b", Target: "BRAVO"},
		model.Term{Source: "c", Target: "DELTA"},
	)
	for i := 0; i < 11; i++ {
		typeCurrent(t, e)
		e.Second()
	}
	for e.Session().TimeLeft > 0 {
		e.Second()
	}

	result := e.End()
	assert.Equal(t, 3300, result.Score)
	assert.Equal(t, model.OutcomeSecure, result.Outcome)
	assert.Equal(t, "MISSION COMPLETE (SECURE)", result.Outcome.Title())
	assert.Equal(t, 55, result.MaxCombo)
	assert.Equal(t, 3000, result.Goal)
	assert.Equal(t, Ended, e.State())
}

func TestScenarioCollisionBeforeAnyCompletion(t *testing.T) {
	e, rec := newEngine(t, model.Hard)
	for rec.Penalties == 0 {
		e.Frame()
	}
	assert.Equal(t, 0, e.Session().Score)
	assert.Equal(t, 0, e.Session().Combo)

	result := e.End()
	assert.Equal(t, model.OutcomeCompromised, result.Outcome)
	assert.Equal(t, "TERMINATED", result.Outcome.Grade())
}

func TestEndIsIdempotent(t *testing.T) {
	e, _ := newEngine(t, model.Normal)
	typeCurrent(t, e)
	first := e.End()
	typeString(e, "ALPHA")
	assert.Equal(t, first, e.End())
	_, ok := e.ActiveWord()
	assert.False(t, ok)
}
