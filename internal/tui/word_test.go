package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), 1, false, false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesMistypedCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), 1, false, true)
	if runes[1].s != incorrectStyle.Underline(true).Render("b") {
		t.Fatalf("expected incorrect cursor after a mistype")
	}
}

func TestBuildStyledRunesPending(t *testing.T) {
	runes := buildStyledRunes([]rune("abc"), 0, false, false)
	if runes[0].s != cursorStyle.Render("a") {
		t.Fatalf("expected cursor on the first rune")
	}
	if runes[2].s != pendingStyle.Render("c") {
		t.Fatalf("expected pending style for untyped rune")
	}
}

func TestBuildStyledRunesBlind(t *testing.T) {
	runes := buildStyledRunes([]rune("AB C"), 1, true, false)
	if runes[0].s != correctStyle.Render("A") {
		t.Fatalf("typed runes stay visible in blind mode")
	}
	if runes[1].s != cursorStyle.Render("_") {
		t.Fatalf("expected hidden cursor rune, got %q", runes[1].s)
	}
	if runes[2].s != pendingStyle.Render("_") || runes[2].isSpace {
		t.Fatalf("expected hidden space, got %q", runes[2].s)
	}
	if runes[3].s != pendingStyle.Render("_") {
		t.Fatalf("expected hidden pending rune")
	}
}

func TestBuildStyledRunesBlindKeepsTypedSpaces(t *testing.T) {
	runes := buildStyledRunes([]rune("AB C"), 3, true, false)
	if runes[2].s != correctStyle.Render(" ") || !runes[2].isSpace {
		t.Fatalf("expected typed space to stay visible, got %q", runes[2].s)
	}
	if runes[3].s != cursorStyle.Render("_") {
		t.Fatalf("expected hidden cursor rune, got %q", runes[3].s)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	out := wrapStyledRunes(plainStyledRunes("alpha beta gamma", pendingStyle), 11)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != renderStyledRunes(plainStyledRunes("alpha beta", pendingStyle)) {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestWrapStyledRunesWideRunes(t *testing.T) {
	out := wrapStyledRunes(plainStyledRunes("認証認証", pendingStyle), 4)
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected wide runes to wrap after two cells each: %q", out)
	}
}

func TestTrackOffset(t *testing.T) {
	tests := []struct {
		position float64
		want     int
	}{
		{0, 0},
		{50, 25},
		{100, 50},
		{150, 50},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := trackOffset(tt.position, 60, 10); got != tt.want {
			t.Fatalf("trackOffset(%v) = %d, want %d", tt.position, got, tt.want)
		}
	}
	if got := trackOffset(50, 5, 10); got != 0 {
		t.Fatalf("expected no offset when the block is wider than the track, got %d", got)
	}
}
