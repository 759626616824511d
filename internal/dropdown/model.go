package dropdown

import (
	"time"

	"valentine/internal/autoselect"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// ChangedMsg reports a commit to the host.
type ChangedMsg struct {
	ID    string
	Value string
}

// Model is the bubbletea component around a Dropdown: an auto-selecting text
// input plus the option list.
//
// Models are values, but copies share the same Dropdown.
type Model struct {
	dd    *Dropdown
	input autoselect.Model
	keys  KeyMap
	help  help.Model

	pending *[]Change
	now     func() time.Time
}

// NewModel builds the component. cfg.OnChange, if set, still runs on every
// commit; the Model additionally turns commits into ChangedMsg commands.
func NewModel(cfg Config, options []Option, initialValue string, ac autoselect.Config) Model {
	pending := &[]Change{}
	user := cfg.OnChange
	cfg.OnChange = func(c Change) {
		*pending = append(*pending, c)
		if user != nil {
			user(c)
		}
	}
	if ac.Placeholder == "" {
		ac.Placeholder = cfg.Placeholder
	}

	m := Model{
		dd:      New(cfg, options, initialValue),
		input:   autoselect.New(ac),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		pending: pending,
		now:     time.Now,
	}
	m.input.SetValue(m.dd.Text())
	return m
}

func (m Model) Dropdown() *Dropdown { return m.dd }
func (m Model) ID() string          { return m.dd.ID() }
func (m Model) Focused() bool       { return m.input.Focused() }
func (m Model) InputValue() string  { return m.input.Value() }
func (m Model) AllSelected() bool   { return m.input.AllSelected() }
func (m Model) KeyMap() KeyMap      { return m.keys }

// SetClock replaces the clock used for double-click detection.
func (m *Model) SetClock(now func() time.Time) { m.now = now }

// SetAnchor records where the input line is drawn on screen.
func (m *Model) SetAnchor(r Rect) {
	m.dd.SetAnchor(r)
	if w := r.W - inputChrome; w > 0 {
		m.input.SetWidth(w)
	}
}

func (m *Model) SetViewport(vp Viewport) { m.dd.SetViewport(vp) }

// Focus focuses the input and opens the list.
func (m *Model) Focus() tea.Cmd {
	cmd := m.input.Focus()
	m.dd.Open()
	return cmd
}

func (m *Model) Blur() {
	m.input.Blur()
	m.dd.Close()
}

// Teardown releases every listener the dropdown holds.
func (m *Model) Teardown() {
	m.input.Blur()
	m.dd.Teardown()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.dd.TornDown() {
		return m, nil
	}
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		cmd = m.updateKey(msg)
	case tea.MouseMsg:
		cmd = m.updateMouse(msg)
	default:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		}
	}
	if changed := m.flush(); changed != nil {
		if cmd == nil {
			return m, changed
		}
		return m, tea.Batch(cmd, changed)
	}
	return m, cmd
}

func (m *Model) updateKey(msg tea.KeyMsg) tea.Cmd {
	if k := m.keys.Resolve(msg); k != KeyOther && m.dd.HandleKey(k) {
		m.syncInput()
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.dd.Filter(after)
		m.syncInput()
	}
	return cmd
}

func (m *Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	anchor := m.dd.Anchor()
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		if m.dd.IsOpen() && m.dd.ListRect().Contains(msg.X, msg.Y) {
			if msg.Button == tea.MouseButtonWheelUp {
				m.dd.ScrollBy(-1)
			} else {
				m.dd.ScrollBy(1)
			}
		}
		return nil

	case msg.Action == tea.MouseActionMotion:
		if idx, ok := m.optionAt(msg.X, msg.Y); ok {
			m.dd.SetActive(idx)
		}
		return nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if idx, ok := m.optionAt(msg.X, msg.Y); ok {
			m.dd.Select(idx)
			m.syncInput()
			return nil
		}
		if !anchor.Contains(msg.X, msg.Y) {
			return nil
		}
		var cmd tea.Cmd
		if !m.input.Focused() {
			cmd = m.Focus()
		} else {
			m.dd.Open()
		}
		if !m.input.Click(msg.X, msg.Y, m.now()) {
			m.input.SetCursor(msg.X - anchor.X - inputPadLeft)
		}
		return cmd
	}
	return nil
}

// optionAt maps a screen cell to the option drawn there.
func (m Model) optionAt(x, y int) (int, bool) {
	if !m.dd.IsOpen() {
		return -1, false
	}
	r := m.dd.ListRect()
	if !r.Contains(x, y) {
		return -1, false
	}
	row := y - r.Y - 1
	if row < 0 || row >= m.dd.ListRows() || x == r.X || x == r.Right()-1 {
		return -1, false
	}
	vis := m.dd.VisibleIndices()
	i := m.dd.ScrollOffset() + row
	if i >= len(vis) {
		return -1, false
	}
	return vis[i], true
}

func (m *Model) syncInput() {
	if m.input.Value() != m.dd.Text() {
		m.input.SetValue(m.dd.Text())
	}
}

func (m Model) flush() tea.Cmd {
	if len(*m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(*m.pending))
	for _, c := range *m.pending {
		msg := ChangedMsg{ID: c.ContainerID, Value: c.Value}
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	*m.pending = (*m.pending)[:0]
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}
