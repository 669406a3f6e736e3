// Package generator builds randomized term sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/secda/internal/model"
)

// Generator produces randomized orderings of terms.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible play.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a Fisher–Yates shuffled copy of terms.
func (g *Generator) Shuffle(terms []model.Term) []model.Term {
	out := make([]model.Term, len(terms))
	copy(out, terms)
	for i := len(out) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleStrings shuffles values in place.
func (g *Generator) ShuffleStrings(values []string) {
	for i := len(values) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
