package dropdown

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyMap struct {
	Down   key.Binding
	Up     key.Binding
	Select key.Binding
	Close  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "prev"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Select, k.Close}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Resolve maps a key press to the navigation key it is bound to.
func (k KeyMap) Resolve(msg tea.KeyMsg) Key {
	switch {
	case key.Matches(msg, k.Down):
		return KeyDown
	case key.Matches(msg, k.Up):
		return KeyUp
	case key.Matches(msg, k.Select):
		return KeyEnter
	case key.Matches(msg, k.Close):
		return KeyEscape
	default:
		return KeyOther
	}
}
