package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	ToggleScreen  key.Binding
	Next          key.Binding
	Prev          key.Binding
	ExportPDF     key.Binding
	TogglePreview key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		ToggleScreen:  key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "form/board")),
		Next:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:          key.NewBinding(key.WithKeys("shift+tab")),
		ExportPDF:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
		TogglePreview: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "preview")),
	}
}
