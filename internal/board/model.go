package board

import (
	"valentine/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// BoardEventMsg carries a drop result to the host for persistence. The event
// has already been applied to the Model's board.
type BoardEventMsg struct {
	BoardID string
	Event   Event
}

// ScrollIntoViewMsg asks the board to focus card ID and center it in its
// column.
type ScrollIntoViewMsg struct {
	ID string
}

const (
	// headerRows is the column header plus the blank row under it.
	headerRows = 2
	// cardPitch is one card line plus its separator.
	cardPitch = 2
	columnGap = 2
	minColW   = 10
	// handleW is the width of the "≡ " drag handle in a column header.
	handleW = 2
)

type Model struct {
	st   *State
	keys KeyMap
	help help.Model
	log  *zap.Logger

	width, height    int
	originX, originY int

	focusCol  int
	focusCard int
	scroll    map[string]int

	target    string
	mouseDrag bool
}

func New(b model.Board, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		st:     NewState(b),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		log:    log.With(zap.String("board", b.ID)),
		scroll: map[string]int{},
	}
}

func (m Model) State() *State      { return m.st }
func (m Model) Board() model.Board { return m.st.Board() }
func (m Model) KeyMap() KeyMap     { return m.keys }
func (m Model) Target() string     { return m.target }

// FocusedColumn returns the type of the focused column.
func (m Model) FocusedColumn() string {
	b := m.st.Board()
	if m.focusCol < 0 || m.focusCol >= len(b.Columns) {
		return ""
	}
	return b.Columns[m.focusCol].Type
}

// FocusedCard returns the focused card, if the focused column has any.
func (m Model) FocusedCard() (model.Card, bool) {
	cards := m.st.Board().CardsIn(m.FocusedColumn())
	if m.focusCard < 0 || m.focusCard >= len(cards) {
		return model.Card{}, false
	}
	return cards[m.focusCard], true
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.ensureFocusVisible()
}

// SetOrigin is the screen cell of the board's top-left corner.
func (m *Model) SetOrigin(x, y int) { m.originX, m.originY = x, y }

// SetBoard replaces the board, keeping focus on the same card when it still
// exists.
func (m *Model) SetBoard(b model.Board) {
	cur, ok := m.FocusedCard()
	m.st.SetBoard(b)
	m.target = ""
	m.mouseDrag = false
	if ok {
		m.focusOn(cur.ID)
	}
	m.clampFocus()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrollIntoViewMsg:
		m.ScrollIntoView(msg.ID)
		return m, nil
	case tea.KeyMsg:
		return m, m.updateKey(msg)
	case tea.MouseMsg:
		return m, m.updateMouse(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) tea.Cmd {
	b := m.st.Board()
	if m.st.Dragging() {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.retarget(-1)
		case key.Matches(msg, m.keys.Right):
			m.retarget(1)
		case key.Matches(msg, m.keys.Drop):
			return m.drop(m.target)
		case key.Matches(msg, m.keys.Cancel):
			m.cancelDrag()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.focusCol--
		m.clampFocus()
	case key.Matches(msg, m.keys.Right):
		m.focusCol++
		m.clampFocus()
	case key.Matches(msg, m.keys.Up):
		m.focusCard--
		m.clampFocus()
	case key.Matches(msg, m.keys.Down):
		m.focusCard++
		m.clampFocus()
	case key.Matches(msg, m.keys.GrabCard):
		if c, ok := m.FocusedCard(); ok && m.st.BeginCardDrag(c.ID) {
			m.setTarget(c.ColumnType)
		}
	case key.Matches(msg, m.keys.GrabColumn):
		if len(b.Columns) > 0 && m.st.BeginColumnDrag(m.FocusedColumn()) {
			m.setTarget(m.FocusedColumn())
		}
	}
	return nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X-m.originX, msg.Y-m.originY
	col, inCol := m.columnAt(x)
	typ := ""
	if inCol {
		typ = m.st.Board().Columns[col].Type
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		if inCol {
			d := 1
			if msg.Button == tea.MouseButtonWheelUp {
				d = -1
			}
			m.scrollColumn(typ, d)
		}
		return nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inCol || m.st.Dragging() {
			return nil
		}
		m.focusCol = col
		if y == 0 && x-m.columnX(col) < handleW {
			if m.st.BeginColumnDrag(typ) {
				m.mouseDrag = true
				m.setTarget(typ)
			}
			return nil
		}
		if i, ok := m.cardAt(typ, y); ok {
			m.focusCard = i
			c := m.st.Board().CardsIn(typ)[i]
			if m.st.BeginCardDrag(c.ID) {
				m.mouseDrag = true
				m.setTarget(typ)
			}
		}
		m.clampFocus()
		return nil

	case msg.Action == tea.MouseActionMotion:
		if m.mouseDrag && typ != m.target {
			if m.target != "" {
				m.st.DragLeave(m.target)
			}
			m.target = typ
			if typ != "" {
				m.st.DragOver(typ)
			}
		}
		return nil

	case msg.Action == tea.MouseActionRelease:
		if !m.mouseDrag {
			return nil
		}
		m.mouseDrag = false
		if typ == "" {
			m.cancelDrag()
			return nil
		}
		return m.drop(typ)
	}
	return nil
}

func (m *Model) setTarget(typ string) {
	if m.target != "" && m.target != typ {
		m.st.DragLeave(m.target)
	}
	m.target = typ
	m.st.DragOver(typ)
}

// retarget moves the keyboard drop target one column left or right.
func (m *Model) retarget(delta int) {
	b := m.st.Board()
	i := b.FindColumn(m.target)
	if i < 0 {
		return
	}
	j := i + delta
	if j < 0 || j >= len(b.Columns) {
		return
	}
	m.setTarget(b.Columns[j].Type)
}

func (m *Model) cancelDrag() {
	m.st.EndDrag()
	m.target = ""
	m.mouseDrag = false
}

func (m *Model) drop(typ string) tea.Cmd {
	dragged := m.st.DraggedCard()
	draggedCol := m.st.DraggedColumn()
	ev, ok := m.st.Drop(typ)
	m.target = ""
	m.mouseDrag = false
	if !ok {
		return nil
	}
	if err := m.st.Apply(ev); err != nil {
		m.log.Warn("apply board event", zap.Error(err))
		return nil
	}

	switch ev.(type) {
	case MoveCard:
		m.focusOn(dragged)
	case ReorderColumns:
		m.focusCol = m.st.Board().FindColumn(draggedCol)
	}
	m.clampFocus()

	boardID := m.st.Board().ID
	m.log.Debug("board event", zap.String("kind", eventKind(ev)))
	return func() tea.Msg { return BoardEventMsg{BoardID: boardID, Event: ev} }
}

func eventKind(ev Event) string {
	switch ev.(type) {
	case MoveCard:
		return "move_card"
	case ReorderColumns:
		return "reorder_columns"
	default:
		return "unknown"
	}
}

// ScrollIntoView focuses card id and centers it in its column window.
func (m *Model) ScrollIntoView(id string) bool {
	if !m.focusOn(id) {
		return false
	}
	typ := m.FocusedColumn()
	rows := m.visibleCards()
	n := len(m.st.Board().CardsIn(typ))
	top := m.focusCard - rows/2
	if top > n-rows {
		top = n - rows
	}
	if top < 0 {
		top = 0
	}
	m.scroll[typ] = top
	return true
}

func (m *Model) focusOn(id string) bool {
	b := m.st.Board()
	for ci, col := range b.Columns {
		for i, c := range b.CardsIn(col.Type) {
			if c.ID == id {
				m.focusCol, m.focusCard = ci, i
				m.ensureFocusVisible()
				return true
			}
		}
	}
	return false
}

func (m *Model) clampFocus() {
	b := m.st.Board()
	if m.focusCol >= len(b.Columns) {
		m.focusCol = len(b.Columns) - 1
	}
	if m.focusCol < 0 {
		m.focusCol = 0
	}
	n := len(b.CardsIn(m.FocusedColumn()))
	if m.focusCard >= n {
		m.focusCard = n - 1
	}
	if m.focusCard < 0 {
		m.focusCard = 0
	}
	m.ensureFocusVisible()
}

func (m *Model) ensureFocusVisible() {
	typ := m.FocusedColumn()
	if typ == "" {
		return
	}
	rows := m.visibleCards()
	top := m.scroll[typ]
	switch {
	case m.focusCard < top:
		top = m.focusCard
	case m.focusCard >= top+rows:
		top = m.focusCard - rows + 1
	}
	if top < 0 {
		top = 0
	}
	m.scroll[typ] = top
}

func (m *Model) scrollColumn(typ string, delta int) {
	n := len(m.st.Board().CardsIn(typ))
	top := m.scroll[typ] + delta
	if top > n-m.visibleCards() {
		top = n - m.visibleCards()
	}
	if top < 0 {
		top = 0
	}
	m.scroll[typ] = top
}

// visibleCards is how many cards fit in a column below its header.
func (m Model) visibleCards() int {
	n := (m.height - headerRows + 1) / cardPitch
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) columnWidth() int {
	n := len(m.st.Board().Columns)
	if n <= 0 {
		return 0
	}
	avail := m.width - columnGap*(n-1)
	if avail < n {
		avail = n
	}
	w := avail / n
	if w < minColW {
		w = minColW
	}
	return w
}

func (m Model) columnX(i int) int { return i * (m.columnWidth() + columnGap) }

// columnAt maps a board-relative x to a column index. Gaps belong to no column.
func (m Model) columnAt(x int) (int, bool) {
	n := len(m.st.Board().Columns)
	w := m.columnWidth()
	if x < 0 || w <= 0 {
		return -1, false
	}
	i := x / (w + columnGap)
	if i >= n || x-m.columnX(i) >= w {
		return -1, false
	}
	return i, true
}

// cardAt maps a board-relative row to a card index within column typ.
func (m Model) cardAt(typ string, y int) (int, bool) {
	rel := y - headerRows
	if rel < 0 || rel%cardPitch != 0 {
		return -1, false
	}
	i := m.scroll[typ] + rel/cardPitch
	if rel/cardPitch >= m.visibleCards() || i >= len(m.st.Board().CardsIn(typ)) {
		return -1, false
	}
	return i, true
}
