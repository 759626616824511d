package tui

import (
	"path/filepath"
	"time"

	"valentine/internal/board"
	"valentine/internal/export"
	"valentine/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type selectionSavedMsg struct {
	sel model.Selection
	err error
}

type boardSavedMsg struct {
	boardID string
	err     error
}

type boardLoadedMsg struct {
	board model.Board
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

func (m appModel) recordSelectionCmd(id, value string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		sel := model.Selection{ContainerID: id, Value: value, CommittedAt: time.Now()}
		return selectionSavedMsg{sel: sel, err: st.RecordSelection(ctx, sel)}
	}
}

// persistBoardEventCmd stores an event the board model has already applied.
func (m appModel) persistBoardEventCmd(msg board.BoardEventMsg) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		var err error
		switch ev := msg.Event.(type) {
		case board.MoveCard:
			err = st.MoveCard(ctx, msg.BoardID, ev.ID, ev.Type)
		case board.ReorderColumns:
			err = st.ReorderColumns(ctx, msg.BoardID, ev.Order)
		}
		return boardSavedMsg{boardID: msg.BoardID, err: err}
	}
}

func (m appModel) loadBoardCmd(id string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		b, err := st.LoadBoard(ctx, id)
		return boardLoadedMsg{board: b, err: err}
	}
}

// exportPDFCmd writes the board to <data dir>/exports/<board id>.pdf with the
// auto-print script embedded.
func (m appModel) exportPDFCmd() tea.Cmd {
	b := m.board.Board()
	path := filepath.Join(m.store.Dir, "exports", export.FileName(b, export.FormatPDF))
	return func() tea.Msg {
		_, err := export.Write(b, export.FormatPDF, path, export.WriteOptions{Overwrite: true, AutoPrint: true})
		return exportedMsg{path: path, err: err}
	}
}
