// Package tui is the interactive host: a form of dropdown fields and a
// kanban board, composited into one terminal frame.
package tui

import (
	"context"
	"errors"
	"strings"

	"valentine/internal/autoselect"
	"valentine/internal/board"
	"valentine/internal/config"
	"valentine/internal/dropdown"
	"valentine/internal/model"
	"valentine/internal/store"
	"valentine/internal/uievent"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type screen int

const (
	screenForm screen = iota
	screenBoard
)

func (s screen) String() string {
	if s == screenBoard {
		return "board"
	}
	return "form"
}

const (
	headerLines = 2
	footerLines = 2
	formPadX    = 2
	maxFieldW   = 48
	noteID      = "note"
)

type Options struct {
	Store  store.Store
	Config config.Config
	Logger *zap.Logger
	// BoardID opens a specific board instead of the last one.
	BoardID string
}

type field struct {
	label string
	dd    dropdown.Model
	// row is the screen row of the input line after the last layout pass.
	row int
}

type appModel struct {
	ctx   context.Context
	store store.Store
	cfg   config.Config
	log   *zap.Logger
	disp  *uievent.Dispatcher
	keys  keyMap

	width, height int
	screen        screen

	fields  []field
	note    autoselect.Model
	noteRow int
	// focus indexes fields; len(fields) is the note.
	focus int

	board       board.Model
	showPreview bool

	minibufferText string
	minibufferErr  bool

	initCmd tea.Cmd
}

// newAppModel loads the last selections and board and builds the widgets.
func newAppModel(ctx context.Context, opt Options) (appModel, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := appModel{
		ctx:   ctx,
		store: opt.Store,
		cfg:   opt.Config,
		log:   log,
		disp:  uievent.NewDispatcher(),
		keys:  defaultKeyMap(),
	}

	latest, err := opt.Store.LatestSelections(ctx)
	if err != nil {
		return appModel{}, err
	}
	st, err := opt.Store.LoadTUIState()
	if err != nil {
		log.Warn("load tui state", zap.Error(err))
		st = &store.TUIState{Version: 1}
	}

	for _, f := range opt.Config.Fields {
		dc := opt.Config.DropdownConfig(f)
		dc.Dispatcher = m.disp
		dc.Logger = log
		label := strings.TrimSpace(f.Label)
		if label == "" {
			label = f.ID
		}
		m.fields = append(m.fields, field{
			label: label,
			dd:    dropdown.NewModel(dc, f.Options, latest[f.ID], opt.Config.AutoSelectConfig()),
		})
	}
	ac := opt.Config.AutoSelectConfig()
	ac.Placeholder = "Type a note"
	m.note = autoselect.New(ac)
	m.note.SetValue(latest[noteID])

	boardID := strings.TrimSpace(opt.BoardID)
	if boardID == "" {
		boardID = st.BoardID
	}
	b, err := m.loadOrCreateBoard(boardID)
	if err != nil {
		return appModel{}, err
	}
	m.board = board.New(b, log)

	if st.Screen == screenBoard.String() {
		m.screen = screenBoard
	}
	m.showPreview = st.ShowPreview
	for i, f := range m.fields {
		if f.dd.ID() == st.FocusField {
			m.focus = i
		}
	}
	if st.FocusField == noteID {
		m.focus = len(m.fields)
	}
	if m.screen == screenForm {
		m.initCmd = m.setFocus(m.focus)
	}
	return m, nil
}

func (m appModel) loadOrCreateBoard(id string) (model.Board, error) {
	if id != "" {
		b, err := m.store.LoadBoard(m.ctx, id)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return model.Board{}, err
		}
		m.log.Info("board not found, falling back to the latest", zap.String("board", id))
	}
	b, err := m.store.LatestBoard(m.ctx)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Board{}, err
	}
	return m.store.CreateBoard(m.ctx, "Board", m.cfg.Board.DefaultColumns)
}

func (m appModel) Init() tea.Cmd { return m.initCmd }

// Run starts the interactive host and blocks until it quits.
func Run(ctx context.Context, opt Options) error {
	m, err := newAppModel(ctx, opt)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}
