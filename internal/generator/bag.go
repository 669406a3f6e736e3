package generator

import "github.com/verte-zerg/secda/internal/model"

// Bag draws terms without replacement and refills itself with a fresh shuffle of the
// full vocabulary once drained.
type Bag struct {
	gen   *Generator
	terms []model.Term
	pool  []model.Term
	// Refills counts how many shuffles the bag has performed.
	Refills int
}

// NewBag creates an empty bag over terms. The first Draw performs the first shuffle.
func NewBag(gen *Generator, terms []model.Term) *Bag {
	return &Bag{gen: gen, terms: terms}
}

// Draw pops the next term. It returns false only when the vocabulary is empty.
func (b *Bag) Draw() (model.Term, bool) {
	if len(b.terms) == 0 {
		return model.Term{}, false
	}
	if len(b.pool) == 0 {
		b.pool = b.gen.Shuffle(b.terms)
		b.Refills++
	}
	last := len(b.pool) - 1
	term := b.pool[last]
	b.pool = b.pool[:last]
	return term, true
}

// Remaining reports how many terms are left before the next refill.
func (b *Bag) Remaining() int {
	return len(b.pool)
}
