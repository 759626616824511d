// Package board is a kanban-style board: ordered columns of cards, with cards
// dragged between columns and columns dragged into a new order.
//
// State is the drag-and-drop state machine; it never persists anything. Drops
// produce events (MoveCard, ReorderColumns) for the host to persist, and Apply
// mirrors an event onto the local board.
package board

import (
	"fmt"
	"strings"

	"valentine/internal/model"
)

type Event interface {
	isEvent()
}

// MoveCard moves card ID into the column of type Type.
type MoveCard struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ReorderColumns is the full new column order.
type ReorderColumns struct {
	Order []string `json:"order"`
}

func (MoveCard) isEvent()       {}
func (ReorderColumns) isEvent() {}

type DragKind int

const (
	DragNone DragKind = iota
	DragCard
	DragColumn
)

func (k DragKind) String() string {
	switch k {
	case DragCard:
		return "card"
	case DragColumn:
		return "column"
	default:
		return "none"
	}
}

// Highlight is the CSS-like class a column carries while a drag hovers it.
type Highlight int

const (
	HighlightNone Highlight = iota
	// HighlightCard marks a column a card would drop into.
	HighlightCard
	// HighlightColumn marks the column a dragged column would land on.
	HighlightColumn
)

type State struct {
	board model.Board

	drag     DragKind
	dragCard string
	dragType string

	over     map[string]bool
	overType map[string]bool
}

func NewState(b model.Board) *State {
	return &State{
		board:    b,
		over:     map[string]bool{},
		overType: map[string]bool{},
	}
}

func (s *State) Board() model.Board { return s.board }

// SetBoard replaces the board (e.g. after a reload). Any drag is cancelled.
func (s *State) SetBoard(b model.Board) {
	s.board = b
	s.EndDrag()
}

func (s *State) Drag() DragKind        { return s.drag }
func (s *State) DraggedCard() string   { return s.dragCard }
func (s *State) DraggedColumn() string { return s.dragType }
func (s *State) Dragging() bool        { return s.drag != DragNone }

func (s *State) IsDraggedCard(id string) bool {
	return s.drag == DragCard && s.dragCard == id
}

// HighlightOf reports how column typ is highlighted.
func (s *State) HighlightOf(typ string) Highlight {
	switch {
	case s.overType[typ]:
		return HighlightColumn
	case s.over[typ]:
		return HighlightCard
	default:
		return HighlightNone
	}
}

func (s *State) findCard(id string) int {
	for i := range s.board.Cards {
		if s.board.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// BeginCardDrag starts dragging card id. Only one drag runs at a time.
func (s *State) BeginCardDrag(id string) bool {
	if s.drag != DragNone || s.findCard(id) < 0 {
		return false
	}
	s.drag = DragCard
	s.dragCard = id
	return true
}

// BeginColumnDrag starts dragging column typ by its handle.
func (s *State) BeginColumnDrag(typ string) bool {
	if s.drag != DragNone || s.board.FindColumn(typ) < 0 {
		return false
	}
	s.drag = DragColumn
	s.dragType = typ
	return true
}

// DragOver highlights column typ as the current drop target.
func (s *State) DragOver(typ string) {
	if s.board.FindColumn(typ) < 0 {
		return
	}
	switch s.drag {
	case DragCard:
		s.over[typ] = true
	case DragColumn:
		s.overType[typ] = true
	}
}

func (s *State) DragLeave(typ string) {
	delete(s.over, typ)
	delete(s.overType, typ)
}

// Drop ends the drag over column typ and returns the resulting event, if any.
func (s *State) Drop(typ string) (Event, bool) {
	defer s.EndDrag()

	switch s.drag {
	case DragColumn:
		order, ok := Reorder(s.board.ColumnOrder(), s.dragType, typ)
		if !ok {
			return nil, false
		}
		return ReorderColumns{Order: order}, true
	case DragCard:
		i := s.findCard(s.dragCard)
		if i < 0 || s.board.FindColumn(typ) < 0 || strings.TrimSpace(s.dragCard) == "" {
			return nil, false
		}
		// Dropping a card back on its own column is a plain click.
		if s.board.Cards[i].ColumnType == typ {
			return nil, false
		}
		return MoveCard{ID: s.dragCard, Type: typ}, true
	default:
		return nil, false
	}
}

// EndDrag clears the drag and every highlight without emitting anything.
func (s *State) EndDrag() {
	s.drag = DragNone
	s.dragCard = ""
	s.dragType = ""
	clear(s.over)
	clear(s.overType)
}

// Reorder moves dragged to target's index with splice semantics: dragged is
// removed first, then inserted at the index target had in the original order.
// It reports false when nothing would change or either type is unknown.
func Reorder(order []string, dragged, target string) ([]string, bool) {
	if dragged == "" || target == "" || dragged == target {
		return nil, false
	}
	from, to := -1, -1
	for i, t := range order {
		switch t {
		case dragged:
			from = i
		case target:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil, false
	}
	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)
	out = append(out[:to], append([]string{dragged}, out[to:]...)...)
	return out, true
}

// Apply mirrors ev onto the local board. A moved card goes to the end of its
// new column.
func (s *State) Apply(ev Event) error {
	switch ev := ev.(type) {
	case MoveCard:
		i := s.findCard(ev.ID)
		if i < 0 {
			return fmt.Errorf("card not found: %s", ev.ID)
		}
		if s.board.FindColumn(ev.Type) < 0 {
			return fmt.Errorf("column not found: %s", ev.Type)
		}
		c := s.board.Cards[i]
		c.ColumnType = ev.Type
		cards := append(s.board.Cards[:i:i], s.board.Cards[i+1:]...)
		s.board.Cards = append(cards, c)
		return nil

	case ReorderColumns:
		if len(ev.Order) != len(s.board.Columns) {
			return fmt.Errorf("column order has %d types, board has %d", len(ev.Order), len(s.board.Columns))
		}
		cols := make([]model.Column, 0, len(ev.Order))
		seen := map[string]bool{}
		for _, typ := range ev.Order {
			j := s.board.FindColumn(typ)
			if j < 0 || seen[typ] {
				return fmt.Errorf("invalid column order: %v", ev.Order)
			}
			seen[typ] = true
			cols = append(cols, s.board.Columns[j])
		}
		s.board.Columns = cols
		return nil

	default:
		return fmt.Errorf("unknown board event %T", ev)
	}
}
