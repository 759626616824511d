package tui

import (
	"context"
	"strings"

	"valentine/internal/autoselect"
	"valentine/internal/dropdown"
	"valentine/internal/overlay"
	"valentine/internal/theme"
	"valentine/internal/uievent"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// PickOptions configures a single interactive dropdown.
type PickOptions struct {
	Label      string
	Config     dropdown.Config
	Options    []dropdown.Option
	Value      string
	AutoSelect autoselect.Config
	Logger     *zap.Logger
}

// PickResult is what the user ended up with. Changes lists every commit in
// order; Canceled is set when the user quit without accepting.
type PickResult struct {
	Value    string            `json:"value,omitempty" yaml:"value,omitempty"`
	Label    string            `json:"label,omitempty" yaml:"label,omitempty"`
	Changes  []dropdown.Change `json:"changes" yaml:"changes"`
	Canceled bool              `json:"canceled" yaml:"canceled"`
}

type pickModel struct {
	label  string
	disp   *uievent.Dispatcher
	dd     dropdown.Model
	width  int
	height int

	changes  []dropdown.Change
	canceled bool
	done     bool
	initCmd  tea.Cmd
}

func newPickModel(opt PickOptions) pickModel {
	disp := uievent.NewDispatcher()
	cfg := opt.Config
	cfg.Dispatcher = disp
	if cfg.Logger == nil {
		cfg.Logger = opt.Logger
	}
	label := strings.TrimSpace(opt.Label)
	if label == "" {
		label = cfg.ID
	}
	m := pickModel{
		label: label,
		disp:  disp,
		dd:    dropdown.NewModel(cfg, opt.Options, opt.Value, opt.AutoSelect),
	}
	m.initCmd = m.dd.Focus()
	return m
}

func (m pickModel) Init() tea.Cmd { return m.initCmd }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	if ev, ok := uievent.FromTea(msg); ok {
		m.disp.Dispatch(ev)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		open := m.dd.Dropdown().IsOpen()
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc && !open:
			m.canceled = true
			return m.finish()
		case msg.Type == tea.KeyEnter && !open:
			return m.finish()
		}
		m.dd, cmd = m.dd.Update(msg)
	case dropdown.ChangedMsg:
		m.changes = append(m.changes, dropdown.Change{ContainerID: msg.ID, Value: msg.Value})
		return m.finish()
	default:
		m.dd, cmd = m.dd.Update(msg)
	}
	m.layout()
	return m, cmd
}

func (m pickModel) finish() (tea.Model, tea.Cmd) {
	m.done = true
	m.dd.Teardown()
	return m, tea.Quit
}

func (m *pickModel) layout() {
	w := max(min(maxFieldW, m.width-2*formPadX), 10)
	m.dd.SetViewport(dropdown.Viewport{Width: m.width, Height: m.height})
	m.dd.SetAnchor(dropdown.Rect{X: formPadX, Y: 1, W: w, H: 1})
}

func (m pickModel) View() string {
	if m.done || m.width <= 0 || m.height <= 0 {
		return ""
	}
	pad := strings.Repeat(" ", formPadX)
	lines := []string{
		pad + lipgloss.NewStyle().Bold(true).Render(m.label),
		pad + m.dd.View(),
	}
	if d := m.dd.Dropdown(); d.IsOpen() && !d.Portaled() {
		for _, ln := range strings.Split(m.dd.ListView(), "\n") {
			lines = append(lines, pad+ln)
		}
	}
	body := overlay.Normalize(strings.Join(lines, "\n"), m.width, m.height-1)
	frame := body + "\n" + theme.Muted().Render(pad+m.dd.HelpView())
	frame = overlay.Normalize(frame, m.width, m.height)
	if block, x, y, ok := m.dd.Overlay(); ok {
		frame = overlay.Place(frame, block, x, y, m.width, m.height)
	}
	return frame
}

func (m pickModel) result() PickResult {
	res := PickResult{Changes: m.changes, Canceled: m.canceled}
	if res.Changes == nil {
		res.Changes = []dropdown.Change{}
	}
	d := m.dd.Dropdown()
	if v, ok := d.Value(); ok {
		res.Value = v
		if i := dropdown.IndexOfValue(d.Options(), v); i >= 0 {
			res.Label = d.Options()[i].Label
		}
	}
	return res
}

// Pick runs one dropdown inline and returns once the user commits an option,
// accepts the current value with enter, or cancels.
func Pick(ctx context.Context, opt PickOptions) (PickResult, error) {
	final, err := tea.NewProgram(newPickModel(opt),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return PickResult{}, err
	}
	return final.(pickModel).result(), nil
}
