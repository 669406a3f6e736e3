package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// blindMark replaces untyped characters in blind mode.
const blindMark = '_'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles a typing target: the typed prefix, the cursor and the rest. Blind
// targets hide every untyped character, spaces included. A mistyped cursor is drawn as incorrect.
func buildStyledRunes(target []rune, revealed int, blind, mistyped bool) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		displayed := r
		var style lipgloss.Style
		switch {
		case i < revealed:
			style = correctStyle
		case i == revealed:
			style = cursorStyle
			if mistyped {
				style = incorrectStyle.Underline(true)
			}
		default:
			style = pendingStyle
		}
		if blind && i >= revealed {
			displayed = blindMark
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: displayed == ' ',
		})
	}
	return out
}

// plainStyledRunes styles every rune of text the same way.
func plainStyledRunes(text string, style lipgloss.Style) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring spaces.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// trackOffset is the left padding that puts a block of blockWidth cells at position
// (0-100) on a track of trackWidth cells.
func trackOffset(position float64, trackWidth, blockWidth int) int {
	room := trackWidth - blockWidth
	if room <= 0 {
		return 0
	}
	if position < 0 {
		position = 0
	}
	if position > 100 {
		position = 100
	}
	return int(position / 100 * float64(room))
}
