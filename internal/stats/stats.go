// Package stats computes end-of-session metrics and formats plain-text tables.
package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/secda/internal/model"
)

// Summary holds the derived metrics of a finished session.
type Summary struct {
	WPM      float64
	CPM      float64
	Accuracy float64
	// Keystrokes is zero for quiz sessions.
	Keystrokes int
}

// SessionMetrics computes WPM, CPM, and accuracy from correct and incorrect keystrokes.
func SessionMetrics(correct, incorrect int, duration time.Duration) (wpm, cpm, accuracy float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	minutes := duration.Minutes()
	if minutes <= 0 {
		return 0, 0, accuracy
	}
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	return wpm, cpm, accuracy
}

// Summarize derives the metrics shown on the result screen. For a quiz the accuracy is
// the share of correct answers among all questions.
func Summarize(result model.Result) Summary {
	if result.Mode == model.ModeQuiz {
		var accuracy float64
		if result.Total > 0 {
			accuracy = float64(result.Correct) / float64(result.Total)
		}
		return Summary{Accuracy: accuracy}
	}
	wpm, cpm, accuracy := SessionMetrics(result.Correct, result.Incorrect, result.Duration)
	return Summary{
		WPM:        wpm,
		CPM:        cpm,
		Accuracy:   accuracy,
		Keystrokes: result.Correct + result.Incorrect,
	}
}

// FormatPercent renders a ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
