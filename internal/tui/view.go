package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/quiz"
	"github.com/verte-zerg/secda/internal/screen"
	"github.com/verte-zerg/secda/internal/stats"
	"github.com/verte-zerg/secda/internal/typing"
)

const briefing = "Welcome to the security operations centre. Attack terms are closing in on the " +
	"firewall. Read each term and type its English name before it breaches the wall. " +
	"Every correct key builds your combo and every 25 in a row buys more time. A breach " +
	"costs 500 points. Reach the goal before the clock runs out to secure the system."

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	trackStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3A3A3A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.app.Screens().Current() {
	case screen.Start:
		content = m.viewStart()
	case screen.Intro:
		content = m.viewIntro()
	case screen.Difficulty:
		content = m.viewDifficulty()
	case screen.Ready:
		content = m.viewReady()
	case screen.Countdown:
		content = m.viewCountdown()
	case screen.Game:
		content = m.viewGame()
	case screen.Quiz:
		content = m.viewQuiz()
	case screen.Result:
		content = m.viewResult()
	}
	footer := m.help.ShortHelpView(m.bindings())
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) bindings() []key.Binding {
	k := m.keys
	switch m.app.Screens().Current() {
	case screen.Start:
		return []key.Binding{k.Confirm, k.Quit}
	case screen.Intro, screen.Ready:
		return []key.Binding{k.Confirm, k.Back, k.Quit}
	case screen.Result:
		return []key.Binding{k.Retry, k.Back, k.Quit}
	case screen.Difficulty:
		return []key.Binding{k.Up, k.Down, k.Pick, k.Study, k.Confirm, k.Back}
	case screen.Countdown:
		return []key.Binding{k.Back, k.Quit}
	case screen.Game, screen.Quiz:
		if m.paused {
			return []key.Binding{k.Resume, k.Menu, k.Quit}
		}
		if m.app.Screens().Is(screen.Quiz) {
			return []key.Binding{k.Answer, k.Pause, k.Quit}
		}
		if m.app.Screens().Expert() {
			return []key.Binding{k.Skip, k.Pause, k.Quit}
		}
		return []key.Binding{k.Pause, k.Quit}
	}
	return nil
}

func (m *Model) viewStart() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.accent.Render("S E C D A"),
		mutedStyle.Render("security vocabulary defence"),
		"",
		"PRESS SPACE TO START",
	)
}

func (m *Model) viewIntro() string {
	text := wrapStyledRunes(plainStyledRunes(briefing, correctStyle), m.contentWidth())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.accent.Render("MISSION BRIEFING"),
		"",
		text,
		"",
		mutedStyle.Render("PRESS ENTER TO CONTINUE"),
	)
}

func (m *Model) viewDifficulty() string {
	lines := []string{m.accent.Render("SELECT DIFFICULTY"), ""}
	for i, d := range model.Difficulties {
		s := d.Settings()
		label := fmt.Sprintf("%d. %-14s speed %.1f  goal %d", i+1, s.Name, s.Speed, s.Goal)
		if s.Blind {
			label += "  blind"
		}
		lines = append(lines, m.menuLine(i, label))
	}
	lines = append(lines, "", m.menuLine(studyItem, "S. STUDY MODE"))
	if m.notice != "" {
		lines = append(lines, "", incorrectStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) menuLine(item int, label string) string {
	if item == m.cursor {
		return m.accent.Render("> " + label)
	}
	return pendingStyle.Render("  " + label)
}

func (m *Model) viewReady() string {
	s := m.ready.Settings()
	lines := []string{
		m.accent.Render("DIFFICULTY: " + s.Name),
		fmt.Sprintf("GOAL: %d", s.Goal),
		"",
		"Press SPACE or ENTER to Start",
	}
	if s.SkipOnConfirm {
		lines = append(lines, "", m.accent.Render("IN GAME: PRESS ENTER TO SKIP WORD"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewCountdown() string {
	return m.accent.Render(fmt.Sprintf("%d", m.count))
}

func (m *Model) viewGame() string {
	width := m.contentWidth()
	header := m.viewScoreboard()

	var source, target string
	position := 0.0
	if m.word != nil {
		position = m.word.Position
		runes := buildStyledRunes([]rune(m.word.Target), m.word.Revealed, m.word.Blind, m.flashOn[flashMistype])
		blockWidth := max(runewidth.StringWidth(m.word.Source), lineWidthOf(runes))
		offset := trackOffset(position, width-2, blockWidth)
		if m.flashOn[flashMistype] && offset > 0 {
			offset--
		}
		pad := strings.Repeat(" ", offset)
		source = pad + m.accent.Render(runewidth.Truncate(m.word.Source, width-2, "…"))
		target = pad + renderStyledRunes(runes)
	}

	lane := trackStyle.Width(width - 2)
	if m.flashOn[flashPenalty] {
		lane = lane.BorderForeground(lipgloss.Color("#FF4D4F"))
	} else if m.app.Screens().Expert() {
		lane = lane.BorderForeground(m.accentColor)
	}
	track := lane.Render(source + "\n" + target)
	breach := m.track.ViewAs(position / typing.CollisionAt)

	parts := []string{header, track, mutedStyle.Render("BREACH") + " " + breach}
	if m.app.Screens().Expert() {
		parts = append([]string{m.accent.Render("EXPERT MODE")}, parts...)
	}
	if m.paused {
		parts = append(parts, "", m.accent.Render("PAUSED"), mutedStyle.Render("ESC RESUME · Q MENU"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewScoreboard() string {
	b := m.board
	timeText := fmt.Sprintf("TIME %d", b.TimeLeft)
	if m.flashOn[flashBonus] {
		timeText = successStyle.Render(timeText + " +")
	}
	return strings.Join([]string{
		fmt.Sprintf("SCORE %d", b.Score),
		fmt.Sprintf("COMBO %d", b.Combo),
		timeText,
		fmt.Sprintf("GOAL %d", b.Goal),
	}, "   ")
}

func (m *Model) viewQuiz() string {
	if m.question == nil {
		return ""
	}
	q := m.question
	header := fmt.Sprintf("QUESTION %d/%d   TIME %d", q.Number, q.Total, m.quizTime)
	bar := m.timer.ViewAs(float64(m.quizTime) / quiz.TimeLimit)

	lines := []string{header, bar, "", titleStyle.Render(q.Prompt), ""}
	for i, opt := range q.Options {
		label := fmt.Sprintf("%d) %s", i+1, opt)
		style := correctStyle
		if m.feedback != nil {
			switch {
			case i == m.feedback.CorrectIndex:
				style = successStyle
			case i == m.feedback.Chosen:
				style = incorrectStyle
			default:
				style = pendingStyle
			}
		}
		lines = append(lines, style.Render(label))
	}
	if m.feedback != nil {
		mark := incorrectStyle.Render("×")
		if m.feedback.Correct {
			mark = successStyle.Render("〇")
		}
		lines = append(lines, "", mark)
	}
	if m.paused {
		lines = append(lines, "", m.accent.Render("PAUSED"), mutedStyle.Render("ESC RESUME · Q MENU"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewResult() string {
	if m.result == nil {
		return ""
	}
	r := m.result
	summary := stats.Summarize(*r)
	titleColor := incorrectStyle
	if r.Outcome != model.OutcomeCompromised {
		titleColor = successStyle
	}
	lines := []string{titleColor.Render(r.Outcome.Title())}

	if r.Mode == model.ModeQuiz {
		lines = append(lines,
			fmt.Sprintf("SCORE %d / %d", r.Score, r.Total),
			"ACCURACY "+stats.FormatPercent(summary.Accuracy),
			"",
		)
		table := stats.ReviewTable(m.review)
		for i, line := range table {
			style := incorrectStyle
			if m.review[i].IsCorrect {
				style = correctStyle
			}
			lines = append(lines, style.Render(line))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		m.accent.Render(r.Outcome.Grade()),
		"",
		fmt.Sprintf("SCORE %d / %d", r.Score, r.Goal),
		fmt.Sprintf("MAX COMBO %d", r.MaxCombo),
		fmt.Sprintf("ACCURACY %s (%d keys)", stats.FormatPercent(summary.Accuracy), summary.Keystrokes),
		fmt.Sprintf("SPEED %.1f WPM", summary.WPM),
	)
	return strings.Join(lines, "\n")
}
