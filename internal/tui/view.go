package tui

import (
	"strings"

	"valentine/internal/dropdown"
	"valentine/internal/export"
	"valentine/internal/overlay"
	"valentine/internal/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) fieldWidth() int {
	return max(min(maxFieldW, m.width-2*formPadX), 10)
}

func (m appModel) noteRect() dropdown.Rect {
	return dropdown.Rect{X: formPadX, Y: m.noteRow, W: m.fieldWidth(), H: 1}
}

// layout assigns every form widget its screen row. An open in-flow list
// pushes the widgets below it down.
func (m *appModel) layout() {
	vp := dropdown.Viewport{Width: m.width, Height: m.height}
	w := m.fieldWidth()
	row := headerLines
	for i := range m.fields {
		f := &m.fields[i]
		f.row = row + 1
		f.dd.SetViewport(vp)
		f.dd.SetAnchor(dropdown.Rect{X: formPadX, Y: f.row, W: w, H: 1})
		row += 2
		if d := f.dd.Dropdown(); d.IsOpen() && !d.Portaled() {
			row += d.ListRect().H
		}
		row++
	}
	m.noteRow = row + 1
	m.note.SetWidth(max(w-3, 1))

	m.board.SetOrigin(0, headerLines)
	m.board.SetSize(m.width, max(m.height-headerLines-footerLines, 1))
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	bodyH := max(m.height-headerLines-footerLines, 0)

	var body string
	switch {
	case m.screen == screenBoard && m.showPreview:
		body = overlay.Normalize(export.Preview(m.board.Board(), m.width), m.width, bodyH)
	case m.screen == screenBoard:
		body = m.board.View()
	default:
		body = m.renderForm(bodyH)
	}

	frame := strings.Join([]string{m.renderHeader(), body, m.renderFooter()}, "\n")
	frame = overlay.Normalize(frame, m.width, m.height)

	if m.screen == screenForm {
		for _, f := range m.fields {
			if block, x, y, ok := f.dd.Overlay(); ok {
				frame = overlay.Place(frame, block, x, y, m.width, m.height)
			}
		}
	}
	return frame
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccentFg).Background(theme.ColorAccent).Padding(0, 1).Render("valentine")
	tab := func(label string, active bool) string {
		if active {
			return theme.Active().Padding(0, 1).Render(label)
		}
		return theme.Muted().Padding(0, 1).Render(label)
	}
	bar := title + " " + tab("Form", m.screen == screenForm) + tab("Board", m.screen == screenBoard)
	if m.screen == screenBoard {
		bar += " " + theme.Muted().Render(m.board.Board().Title)
	}
	return bar + "\n"
}

func (m appModel) renderForm(height int) string {
	pad := strings.Repeat(" ", formPadX)
	labelStyle := lipgloss.NewStyle().Bold(true)

	lines := make([]string, 0, height)
	for i, f := range m.fields {
		label := f.label
		if i == m.focus {
			label = theme.Accent().Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		lines = append(lines, pad+label, pad+f.dd.View())
		if d := f.dd.Dropdown(); d.IsOpen() && !d.Portaled() {
			for _, ln := range strings.Split(f.dd.ListView(), "\n") {
				lines = append(lines, pad+ln)
			}
		}
		lines = append(lines, "")
	}

	noteLabel := labelStyle.Render("Note")
	if m.focus == len(m.fields) {
		noteLabel = theme.Accent().Render("Note")
	}
	noteLine := overlay.Normalize(" "+m.note.View(), m.fieldWidth(), 1)
	lines = append(lines, pad+noteLabel, pad+noteLine)
	return overlay.Normalize(strings.Join(lines, "\n"), m.width, height)
}

func (m appModel) renderFooter() string {
	status := m.minibufferText
	if m.minibufferErr {
		status = theme.Error().Render(status)
	} else if status != "" {
		status = theme.Muted().Render(status)
	}

	h := help.New()
	var line string
	switch {
	case m.screen == screenBoard:
		line = m.board.HelpView() + "  " + h.ShortHelpView([]key.Binding{m.keys.ExportPDF, m.keys.TogglePreview, m.keys.ToggleScreen, m.keys.Quit})
	case m.focus < len(m.fields):
		line = m.fields[m.focus].dd.HelpView() + "  " + h.ShortHelpView([]key.Binding{m.keys.Next, m.keys.ToggleScreen, m.keys.Quit})
	default:
		line = h.ShortHelpView([]key.Binding{m.keys.Next, m.keys.ToggleScreen, m.keys.Quit})
	}
	return status + "\n" + line
}
