package vocab

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/secda/internal/model"
)

// Filter trims whitespace and keeps only terms whose target can be typed.
func Filter(terms []model.Term) []model.Term {
	out := make([]model.Term, 0, len(terms))
	for _, term := range terms {
		term.Source = strings.TrimSpace(term.Source)
		term.Target = strings.TrimSpace(term.Target)
		if term.Source == "" || !Typeable(term.Target) {
			continue
		}
		out = append(out, term)
	}
	return out
}

// Typeable reports whether every rune of target is printable ASCII and at least one is
// not a space.
func Typeable(target string) bool {
	hasChar := false
	for _, r := range target {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
		if r != ' ' {
			hasChar = true
		}
	}
	return hasChar
}
