package board

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	GrabCard   key.Binding
	GrabColumn key.Binding
	Drop       key.Binding
	Cancel     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
		Right:      key.NewBinding(key.WithKeys("l", "right")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
		Down:       key.NewBinding(key.WithKeys("j", "down")),
		GrabCard:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab card")),
		GrabColumn: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "grab column")),
		Drop:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.GrabCard, k.GrabColumn, k.Drop, k.Cancel}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
