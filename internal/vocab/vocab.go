// Package vocab loads vocabulary term lists.
package vocab

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/secda/internal/model"
)

// ErrEmpty reports a vocabulary with no usable terms.
var ErrEmpty = errors.New("vocabulary is empty")

//go:embed default_terms.toml
var defaultDeck string

type deckFile struct {
	Terms []model.Term `toml:"terms"`
}

// Default returns the built-in security vocabulary.
func Default() ([]model.Term, error) {
	terms, err := ParseTOML(defaultDeck)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in vocabulary: %w", err)
	}
	return terms, nil
}

// LoadTerms reads a term list from path. Files ending in .toml hold [[terms]] tables,
// anything else is read as one "source<TAB>target" pair per line.
func LoadTerms(path string) ([]model.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var terms []model.Term
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		terms, err = ParseTOML(string(data))
	} else {
		terms, err = ParseTSV(string(data))
	}
	if err != nil {
		return nil, err
	}
	return terms, Validate(terms)
}

// ParseTOML decodes a [[terms]] document and drops untypeable entries.
func ParseTOML(data string) ([]model.Term, error) {
	var deck deckFile
	if _, err := toml.Decode(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to decode term list: %w", err)
	}
	return Filter(deck.Terms), nil
}

// ParseTSV reads tab-separated pairs, skipping blank lines and # comments.
func ParseTSV(data string) ([]model.Term, error) {
	var terms []model.Term
	scanner := bufio.NewScanner(strings.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		source, target, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected source<TAB>target", lineNo)
		}
		terms = append(terms, model.Term{Source: source, Target: target})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Filter(terms), nil
}

// Validate rejects an empty vocabulary; the engines cannot spawn or ask anything without terms.
func Validate(terms []model.Term) error {
	if len(terms) == 0 {
		return ErrEmpty
	}
	return nil
}
