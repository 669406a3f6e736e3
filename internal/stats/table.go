package stats

import (
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/secda/internal/model"
)

// ReviewTable renders the quiz review as aligned lines: number, prompt, correct answer and
// a mark. Wrong entries also show the player's answer.
func ReviewTable(entries []model.ReviewEntry) []string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{strconv.Itoa(e.Number) + ".", e.Prompt, e.Correct, "ok"}
		if !e.IsCorrect {
			row[3] = "x"
			row = append(row, "(You: "+e.UserAnswer+")")
		}
		rows = append(rows, row)
	}
	return formatTable(nil, rows, map[int]bool{0: true})
}

// DeckTable renders stored decks for the deck list command.
func DeckTable(decks []model.DeckInfo) []string {
	rows := make([][]string, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, []string{d.Name, strconv.Itoa(d.Terms), d.ImportedAt.Local().Format(time.DateTime)})
	}
	return formatTable([]string{"Deck", "Terms", "Imported"}, rows, map[int]bool{1: true})
}

// TermTable renders a vocabulary as two aligned columns.
func TermTable(terms []model.Term) []string {
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{t.Source, t.Target})
	}
	return formatTable([]string{"Source", "Target"}, rows, nil)
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// displayWidth counts terminal cells, so wide CJK prompts line up.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
