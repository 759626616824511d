package tui

import (
	"time"

	"valentine/internal/board"
	"valentine/internal/dropdown"
	"valentine/internal/store"
	"valentine/internal/uievent"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Listeners (outside click, resize, scroll) run before the message is
	// routed to a widget.
	if ev, ok := uievent.FromTea(msg); ok {
		m.disp.Dispatch(ev)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		cmd = m.updateKey(msg)
	case tea.MouseMsg:
		cmd = m.updateMouse(msg)

	case dropdown.ChangedMsg:
		m.log.Info("selection committed", zap.String("field", msg.ID), zap.String("value", msg.Value))
		cmd = m.recordSelectionCmd(msg.ID, msg.Value)
	case selectionSavedMsg:
		if msg.err != nil {
			m.log.Error("record selection", zap.String("field", msg.sel.ContainerID), zap.Error(msg.err))
			m.setError("Could not save " + msg.sel.ContainerID + ": " + msg.err.Error())
			break
		}
		m.setMinibuffer("Saved " + msg.sel.ContainerID + " = " + msg.sel.Value)

	case board.BoardEventMsg:
		cmd = m.persistBoardEventCmd(msg)
	case boardSavedMsg:
		if msg.err != nil {
			m.log.Error("persist board event", zap.String("board", msg.boardID), zap.Error(msg.err))
			m.setError("Could not save board: " + msg.err.Error())
			cmd = m.loadBoardCmd(msg.boardID)
			break
		}
		m.setMinibuffer("Board saved")
	case boardLoadedMsg:
		if msg.err != nil {
			m.log.Error("reload board", zap.Error(msg.err))
			m.setError("Could not reload board: " + msg.err.Error())
			break
		}
		m.board.SetBoard(msg.board)

	case exportedMsg:
		if msg.err != nil {
			m.log.Error("export pdf", zap.Error(msg.err))
			m.setError("Export failed: " + msg.err.Error())
			break
		}
		m.log.Info("exported board", zap.String("path", msg.path))
		m.setMinibuffer("Exported " + msg.path)

	default:
		// Cursor blink and other widget-internal messages.
		if m.screen == screenForm {
			cmd = m.updateFocused(msg)
		}
	}

	m.layout()
	return m, cmd
}

func (m *appModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return tea.Quit
	case key.Matches(msg, m.keys.ToggleScreen):
		if m.screen == screenForm {
			m.blurAll()
			m.screen = screenBoard
			return nil
		}
		m.screen = screenForm
		return m.setFocus(m.focus)
	}

	if m.screen == screenBoard {
		switch {
		case key.Matches(msg, m.keys.ExportPDF):
			return m.exportPDFCmd()
		case key.Matches(msg, m.keys.TogglePreview):
			m.showPreview = !m.showPreview
			return nil
		}
		if m.showPreview {
			return nil
		}
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)
	}
	if m.focus == len(m.fields) && msg.Type == tea.KeyEnter {
		return m.recordSelectionCmd(noteID, m.note.Value())
	}
	return m.updateFocused(msg)
}

func (m *appModel) updateMouse(msg tea.MouseMsg) tea.Cmd {
	if m.screen == screenBoard {
		if m.showPreview {
			return nil
		}
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return cmd
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		// An open list is drawn above the fields below it.
		if f := m.focusedField(); f == nil || !f.dd.Dropdown().Contains(msg.X, msg.Y) {
			var cmd tea.Cmd
			for i := range m.fields {
				if m.fields[i].dd.Dropdown().Anchor().Contains(msg.X, msg.Y) && i != m.focus {
					cmd = m.setFocus(i)
					break
				}
			}
			if r := m.noteRect(); r.Contains(msg.X, msg.Y) {
				if m.focus != len(m.fields) {
					cmd = m.setFocus(len(m.fields))
				}
				if !m.note.Click(msg.X, msg.Y, time.Now()) {
					m.note.SetCursor(msg.X - r.X - 1)
				}
				return cmd
			}
			if cmd != nil {
				return tea.Batch(cmd, m.updateFocused(msg))
			}
		}
	}
	return m.updateFocused(msg)
}

// updateFocused routes msg to the focused form widget.
func (m *appModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f := m.focusedField(); f != nil {
		f.dd, cmd = f.dd.Update(msg)
		return cmd
	}
	if _, ok := msg.(tea.MouseMsg); ok {
		return nil
	}
	m.note, cmd = m.note.Update(msg)
	return cmd
}

func (m *appModel) focusedField() *field {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focus]
}

func (m *appModel) blurAll() {
	for i := range m.fields {
		m.fields[i].dd.Blur()
	}
	m.note.Blur()
}

// setFocus focuses form widget i (wrapping), blurring every other one.
func (m *appModel) setFocus(i int) tea.Cmd {
	n := len(m.fields) + 1
	m.blurAll()
	m.focus = ((i % n) + n) % n
	if f := m.focusedField(); f != nil {
		return f.dd.Focus()
	}
	return m.note.Focus()
}

func (m *appModel) setMinibuffer(s string) {
	m.minibufferText = s
	m.minibufferErr = false
}

func (m *appModel) setError(s string) {
	m.minibufferText = s
	m.minibufferErr = true
}

// teardown releases every widget listener and saves the screen state.
func (m *appModel) teardown() {
	for i := range m.fields {
		m.fields[i].dd.Teardown()
	}
	m.note.Blur()

	st := &store.TUIState{
		Version:     1,
		Screen:      m.screen.String(),
		BoardID:     m.board.Board().ID,
		ShowPreview: m.showPreview,
	}
	if f := m.focusedField(); f != nil {
		st.FocusField = f.dd.ID()
	} else {
		st.FocusField = noteID
	}
	if err := m.store.SaveTUIState(st); err != nil {
		m.log.Warn("save tui state", zap.Error(err))
	}
}
