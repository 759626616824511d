// Package autoselect wraps a bubbles text input that can select its whole
// text, on double-click and optionally the first time it gains focus.
//
// A terminal input has no real selection, so "all selected" is a mode: the
// text renders highlighted, the next printable key replaces it, backspace or
// delete clears it, and moving the cursor drops the mode.
package autoselect

import (
	"time"

	"valentine/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const DefaultDoubleClick = 500 * time.Millisecond

type Config struct {
	// Once selects all text the first time the input is focused.
	Once bool
	// DoubleClick is the longest gap between two presses that still counts as
	// a double-click.
	DoubleClick time.Duration

	Placeholder string
	Width       int
	CharLimit   int
}

type Model struct {
	Input textinput.Model

	cfg         Config
	allSelected bool
	focusedOnce bool

	lastClick    time.Time
	lastX, lastY int
	hasLast      bool
}

func New(cfg Config) Model {
	if cfg.DoubleClick <= 0 {
		cfg.DoubleClick = DefaultDoubleClick
	}
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = cfg.Placeholder
	if cfg.CharLimit > 0 {
		in.CharLimit = cfg.CharLimit
	}
	if cfg.Width > 0 {
		in.Width = cfg.Width
	}
	return Model{Input: in, cfg: cfg}
}

func (m Model) Value() string     { return m.Input.Value() }
func (m Model) Focused() bool     { return m.Input.Focused() }
func (m Model) AllSelected() bool { return m.allSelected }
func (m Model) Config() Config    { return m.cfg }
func (m *Model) SetWidth(w int)   { m.Input.Width = w }
func (m *Model) ClearSelection()  { m.allSelected = false }

// SetCursor moves the cursor to pos and drops any selection.
func (m *Model) SetCursor(pos int) {
	m.allSelected = false
	m.Input.SetCursor(pos)
}

// SetValue replaces the text and drops any selection.
func (m *Model) SetValue(s string) {
	m.Input.SetValue(s)
	m.Input.CursorEnd()
	m.allSelected = false
}

// SelectAll selects the whole text. Selecting an empty input is a no-op.
func (m *Model) SelectAll() {
	if m.Input.Value() == "" {
		return
	}
	m.allSelected = true
	m.Input.CursorEnd()
}

func (m *Model) Focus() tea.Cmd {
	cmd := m.Input.Focus()
	if m.cfg.Once && !m.focusedOnce {
		m.SelectAll()
	}
	m.focusedOnce = true
	return cmd
}

func (m *Model) Blur() {
	m.Input.Blur()
	m.allSelected = false
}

// Click records a left-button press at (x, y). The second press at the same
// cell within the double-click window selects all text and reports true.
func (m *Model) Click(x, y int, at time.Time) bool {
	if m.hasLast && x == m.lastX && y == m.lastY && at.Sub(m.lastClick) <= m.cfg.DoubleClick && !at.Before(m.lastClick) {
		m.hasLast = false
		m.SelectAll()
		return m.allSelected
	}
	m.hasLast = true
	m.lastClick = at
	m.lastX, m.lastY = x, y
	m.allSelected = false
	return false
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && m.allSelected && m.Input.Focused() {
		switch km.Type {
		case tea.KeyRunes, tea.KeySpace:
			m.Input.SetValue("")
			m.allSelected = false
		case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
			m.Input.SetValue("")
			m.allSelected = false
			return m, nil
		case tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd, tea.KeyCtrlA, tea.KeyCtrlE,
			tea.KeyCtrlB, tea.KeyCtrlF, tea.KeyCtrlLeft, tea.KeyCtrlRight:
			m.allSelected = false
			if km.Type == tea.KeyLeft || km.Type == tea.KeyHome || km.Type == tea.KeyCtrlA {
				m.Input.SetCursor(0)
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.allSelected || !m.Input.Focused() {
		return m.Input.View()
	}
	v := m.Input.Value()
	if m.Input.Width > 0 && xansi.StringWidth(v) > m.Input.Width {
		v = xansi.Truncate(v, m.Input.Width, "…")
	}
	sel := lipgloss.NewStyle().Foreground(theme.ColorAccentFg).Background(theme.ColorAccent)
	return m.Input.PromptStyle.Render(m.Input.Prompt) + sel.Render(v)
}
