// Package browse provides the Bubble Tea vocabulary browser.
package browse

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/secda/internal/model"
)

const (
	tabTerms = iota
	tabDecks
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// DeckSource lists and loads stored decks.
type DeckSource interface {
	ListDecks(ctx context.Context) ([]model.DeckInfo, error)
	LoadDeck(ctx context.Context, name string) ([]model.Term, error)
}

// Model implements the Bubble Tea vocabulary browser.
type Model struct {
	decks DeckSource

	title    string
	terms    []model.Term
	deckList []model.DeckInfo
	errMsg   string

	tabs      []string
	activeTab int
	termTable table.Model
	deckTable table.Model

	width  int
	height int

	filterMode bool
	filter     textinput.Model
	query      string
}

// NewModel constructs a browser over terms labelled title. decks may be nil, in which case
// the Decks tab stays empty.
func NewModel(title string, terms []model.Term, decks DeckSource) *Model {
	m := &Model{
		decks: decks,
		title: title,
		terms: terms,
		tabs:  []string{"Terms", "Decks"},
	}
	m.filter = newFilterInput("Filter: ")
	m.termTable = newTable(termColumns(terms), nil)
	m.deckTable = newTable(deckColumns(), nil)
	m.refreshDecks()
	m.refreshTerms()
	m.focusActive()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "/":
			m.filterMode = true
			m.filter.SetValue(m.query)
			return m, m.filter.Focus()
		case "enter":
			if m.activeTab == tabDecks {
				m.openSelectedDeck()
			}
			return m, nil
		case "g", "home":
			m.activeTable().GotoTop()
			return m, nil
		case "G", "end":
			m.activeTable().GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabDecks {
			m.deckTable, cmd = m.deckTable.Update(msg)
		} else {
			m.termTable, cmd = m.termTable.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs() + "\n" + headerStyle.Render(m.renderSummary())
	body := m.activeTable().View()
	return header + "\n" + body + "\n" + m.renderFooter()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filter.Blur()
		m.query = ""
		m.refreshTerms()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.query = strings.TrimSpace(m.filter.Value())
	m.refreshTerms()
	return m, cmd
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.focusActive()
}

func (m *Model) focusActive() {
	if m.activeTab == tabDecks {
		m.termTable.Blur()
		m.deckTable.Focus()
		return
	}
	m.deckTable.Blur()
	m.termTable.Focus()
}

func (m *Model) activeTable() *table.Model {
	if m.activeTab == tabDecks {
		return &m.deckTable
	}
	return &m.termTable
}

func (m *Model) openSelectedDeck() {
	row := m.deckTable.SelectedRow()
	if row == nil || m.decks == nil {
		return
	}
	name := row[0]
	terms, err := m.decks.LoadDeck(context.Background(), name)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load deck: %v", err)
		return
	}
	m.errMsg = ""
	m.title = "deck " + name
	m.terms = terms
	m.query = ""
	m.filter.SetValue("")
	m.termTable.SetColumns(termColumns(terms))
	m.refreshTerms()
	m.activeTab = tabTerms
	m.focusActive()
}

func (m *Model) refreshTerms() {
	rows := make([]table.Row, 0, len(m.terms))
	for i, term := range filterTerms(m.terms, m.query) {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), term.Source, term.Target})
	}
	m.termTable.SetRows(rows)
	m.termTable.GotoTop()
}

func (m *Model) refreshDecks() {
	if m.decks == nil {
		return
	}
	decks, err := m.decks.ListDecks(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to list decks: %v", err)
		return
	}
	m.deckList = decks
	rows := make([]table.Row, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, table.Row{d.Name, strconv.Itoa(d.Terms), d.ImportedAt.Local().Format(time.DateTime)})
	}
	m.deckTable.SetRows(rows)
}

func (m *Model) updateLayout() {
	// Tabs take three lines, the summary and the footer one each.
	height := m.height - 5
	if height < 1 {
		height = 1
	}
	for _, t := range []*table.Model{&m.termTable, &m.deckTable} {
		t.SetWidth(m.width)
		t.SetHeight(height)
	}
}

func (m *Model) renderTabs() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			rendered = append(rendered, activeNavStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderSummary() string {
	if m.activeTab == tabDecks {
		return fmt.Sprintf("%d decks", len(m.deckList))
	}
	summary := fmt.Sprintf("%s · %d/%d terms", m.title, len(m.termTable.Rows()), len(m.terms))
	if m.query != "" {
		summary += fmt.Sprintf(" · filter %q", m.query)
	}
	return summary
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filter.View()
	}
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	help := "←/→ tabs · ↑/↓ move · / filter · q quit"
	if m.activeTab == tabDecks {
		help = "←/→ tabs · ↑/↓ move · enter open deck · q quit"
	}
	return headerStyle.Render(help)
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func termColumns(terms []model.Term) []table.Column {
	source, target := len("Source"), len("Target")
	for _, t := range terms {
		source = max(source, runewidth.StringWidth(t.Source))
		target = max(target, runewidth.StringWidth(t.Target))
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Source", Width: min(source, 40)},
		{Title: "Target", Width: min(target, 40)},
	}
}

func deckColumns() []table.Column {
	return []table.Column{
		{Title: "Deck", Width: 24},
		{Title: "Terms", Width: 6},
		{Title: "Imported", Width: 19},
	}
}

// filterTerms keeps terms whose source or target contains query, ignoring case.
func filterTerms(terms []model.Term, query string) []model.Term {
	if query == "" {
		return terms
	}
	q := strings.ToLower(query)
	out := make([]model.Term, 0, len(terms))
	for _, t := range terms {
		if strings.Contains(strings.ToLower(t.Source), q) || strings.Contains(strings.ToLower(t.Target), q) {
			out = append(out, t)
		}
	}
	return out
}
