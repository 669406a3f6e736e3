package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/secda/internal/model"
)

type keyMap struct {
	Confirm key.Binding
	Retry   key.Binding
	Back    key.Binding
	Up      key.Binding
	Down    key.Binding
	Pick    key.Binding
	Study   key.Binding
	Pause   key.Binding
	Resume  key.Binding
	Menu    key.Binding
	Answer  key.Binding
	Skip    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Confirm: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "continue")),
		Retry:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "retry")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "difficulty")),
		Study:   key.NewBinding(key.WithKeys("s", "5"), key.WithHelp("s", "study")),
		Pause:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "interrupt")),
		Resume:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "resume")),
		Menu:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "menu")),
		Answer:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "answer")),
		Skip:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "skip word")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// toKey converts a terminal key press into the engine's key event.
func toKey(msg tea.KeyMsg) model.Key {
	switch msg.Type {
	case tea.KeySpace:
		return model.Key{Code: model.KeySpace, Runes: []rune{' '}, Alt: msg.Alt}
	case tea.KeyEnter:
		return model.Key{Code: model.KeyEnter, Alt: msg.Alt}
	case tea.KeyEsc:
		return model.Key{Code: model.KeyEscape}
	case tea.KeyBackspace, tea.KeyDelete:
		return model.Key{Code: model.KeyBackspace}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && msg.Runes[0] == ' ' {
			return model.Key{Code: model.KeySpace, Runes: msg.Runes, Alt: msg.Alt}
		}
		return model.Key{Code: model.KeyRune, Runes: msg.Runes, Alt: msg.Alt}
	}
	if msg.Type >= tea.KeyCtrlAt && msg.Type <= tea.KeyCtrlUnderscore {
		return model.Key{Code: model.KeyOther, Ctrl: true}
	}
	return model.Key{Code: model.KeyOther, Alt: msg.Alt}
}
