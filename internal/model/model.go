package model

import "time"

type Board struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Columns   []Column  `json:"columns" yaml:"columns"`
	Cards     []Card    `json:"cards" yaml:"cards"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Column is a board lane. Type is the column's identifier within its board
// (e.g. "todo"); it is what cards reference and what drag/drop events carry.
type Column struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
	Rank  string `json:"rank,omitempty" yaml:"rank,omitempty"`
}

type Card struct {
	ID         string    `json:"id" yaml:"id"`
	BoardID    string    `json:"boardId" yaml:"boardId"`
	ColumnType string    `json:"columnType" yaml:"columnType"`
	Title      string    `json:"title" yaml:"title"`
	Rank       string    `json:"rank,omitempty" yaml:"rank,omitempty"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// Selection is a committed dropdown value as recorded by the host.
type Selection struct {
	ContainerID string    `json:"containerId" yaml:"containerId"`
	Value       string    `json:"value" yaml:"value"`
	CommittedAt time.Time `json:"committedAt" yaml:"committedAt"`
}

// FindColumn returns the index of the column with the given type, or -1.
func (b Board) FindColumn(typ string) int {
	for i := range b.Columns {
		if b.Columns[i].Type == typ {
			return i
		}
	}
	return -1
}

// CardsIn returns the cards of one column in board order.
func (b Board) CardsIn(typ string) []Card {
	out := make([]Card, 0, len(b.Cards))
	for _, c := range b.Cards {
		if c.ColumnType == typ {
			out = append(out, c)
		}
	}
	return out
}

// ColumnOrder returns the column types in display order.
func (b Board) ColumnOrder() []string {
	out := make([]string, 0, len(b.Columns))
	for _, c := range b.Columns {
		out = append(out, c.Type)
	}
	return out
}
