package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"valentine/internal/model"
)

// DefaultColumns is used when a board is created without columns.
var DefaultColumns = []model.Column{
	{Type: "todo", Label: "Todo"},
	{Type: "doing", Label: "Doing"},
	{Type: "done", Label: "Done"},
}

// CreateBoard stores a new board. Column ranks are assigned in the given
// order; column types must be unique and non-empty.
func (s Store) CreateBoard(ctx context.Context, title string, cols []model.Column) (model.Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Board{}, errors.New("board: missing title")
	}
	if len(cols) == 0 {
		cols = DefaultColumns
	}
	seen := map[string]bool{}
	for _, c := range cols {
		typ := strings.TrimSpace(c.Type)
		if typ == "" {
			return model.Board{}, errors.New("board: column with empty type")
		}
		if seen[typ] {
			return model.Board{}, fmt.Errorf("board: duplicate column %q", typ)
		}
		seen[typ] = true
	}

	id, err := newID(boardIDPrefix)
	if err != nil {
		return model.Board{}, err
	}
	ranks, err := RankSequence(len(cols))
	if err != nil {
		return model.Board{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	b := model.Board{ID: id, Title: title, CreatedAt: now, Cards: []model.Card{}}
	for i, c := range cols {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			label = strings.TrimSpace(c.Type)
		}
		b.Columns = append(b.Columns, model.Column{Type: strings.TrimSpace(c.Type), Label: label, Rank: ranks[i]})
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO boards(id, title, created_at_unixms) VALUES(?, ?, ?)`,
			b.ID, b.Title, now.UnixMilli()); err != nil {
			return err
		}
		for _, c := range b.Columns {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO board_columns(board_id, type, label, rank) VALUES(?, ?, ?, ?)`,
				b.ID, c.Type, c.Label, c.Rank); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Board{}, err
	}
	return b, nil
}

// ListBoards returns every board without columns or cards, newest first.
func (s Store) ListBoards(ctx context.Context) ([]model.Board, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, title, created_at_unixms FROM boards ORDER BY created_at_unixms DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Board{}
	for rows.Next() {
		var b model.Board
		var ms int64
		if err := rows.Scan(&b.ID, &b.Title, &ms); err != nil {
			return nil, err
		}
		b.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

// LatestBoard loads the most recently created board.
func (s Store) LatestBoard(ctx context.Context) (model.Board, error) {
	bs, err := s.ListBoards(ctx)
	if err != nil {
		return model.Board{}, err
	}
	if len(bs) == 0 {
		return model.Board{}, errNotFound("board", "latest")
	}
	return s.LoadBoard(ctx, bs[0].ID)
}

// LoadBoard loads a board with its columns and cards in display order.
func (s Store) LoadBoard(ctx context.Context, id string) (model.Board, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Board{}, err
	}
	defer db.Close()
	return loadBoard(ctx, db, strings.TrimSpace(id))
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadBoard(ctx context.Context, q queryer, id string) (model.Board, error) {
	var b model.Board
	var ms int64
	err := q.QueryRowContext(ctx, `SELECT id, title, created_at_unixms FROM boards WHERE id = ?`, id).Scan(&b.ID, &b.Title, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, errNotFound("board", id)
	}
	if err != nil {
		return model.Board{}, err
	}
	b.CreatedAt = time.UnixMilli(ms).UTC()

	cols, err := q.QueryContext(ctx, `SELECT type, label, rank FROM board_columns WHERE board_id = ? ORDER BY rank, type`, id)
	if err != nil {
		return model.Board{}, err
	}
	for cols.Next() {
		var c model.Column
		if err := cols.Scan(&c.Type, &c.Label, &c.Rank); err != nil {
			cols.Close()
			return model.Board{}, err
		}
		b.Columns = append(b.Columns, c)
	}
	if err := cols.Close(); err != nil {
		return model.Board{}, err
	}

	cards, err := q.QueryContext(ctx, `SELECT id, column_type, title, rank, created_at_unixms FROM cards WHERE board_id = ?`, id)
	if err != nil {
		return model.Board{}, err
	}
	b.Cards = []model.Card{}
	for cards.Next() {
		c := model.Card{BoardID: id}
		var cms int64
		if err := cards.Scan(&c.ID, &c.ColumnType, &c.Title, &c.Rank, &cms); err != nil {
			cards.Close()
			return model.Board{}, err
		}
		c.CreatedAt = time.UnixMilli(cms).UTC()
		b.Cards = append(b.Cards, c)
	}
	if err := cards.Close(); err != nil {
		return model.Board{}, err
	}
	sortCards(b.Cards)
	return b, nil
}

// sortCards orders by rank, then creation time, then id.
func sortCards(cards []model.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return compareRanked(cardRanked(cards[i]), cardRanked(cards[j])) < 0
	})
}

func cardRanked(c model.Card) Ranked {
	return Ranked{ID: c.ID, Rank: c.Rank, CreatedAt: c.CreatedAt}
}

// AddCard appends a card to the end of a column.
func (s Store) AddCard(ctx context.Context, boardID, columnType, title string) (model.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Card{}, errors.New("card: missing title")
	}
	id, err := newID(cardIDPrefix)
	if err != nil {
		return model.Card{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := model.Card{ID: id, BoardID: strings.TrimSpace(boardID), ColumnType: strings.TrimSpace(columnType), Title: title, CreatedAt: now}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := loadBoard(ctx, tx, c.BoardID)
		if err != nil {
			return err
		}
		rank, err := rankAtEnd(b, c.ColumnType)
		if err != nil {
			return err
		}
		c.Rank = rank
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cards(id, board_id, column_type, title, rank, created_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			c.ID, c.BoardID, c.ColumnType, c.Title, c.Rank, now.UnixMilli())
		return err
	})
	if err != nil {
		return model.Card{}, err
	}
	return c, nil
}

// MoveCard moves a card to the end of another column of the same board.
func (s Store) MoveCard(ctx context.Context, boardID, cardID, columnType string) error {
	boardID, cardID, columnType = strings.TrimSpace(boardID), strings.TrimSpace(cardID), strings.TrimSpace(columnType)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := loadBoard(ctx, tx, boardID)
		if err != nil {
			return err
		}
		found := false
		for _, c := range b.Cards {
			if c.ID == cardID {
				found = true
				break
			}
		}
		if !found {
			return errNotFound("card", cardID)
		}
		rank, err := rankAtEnd(b, columnType)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE cards SET column_type = ?, rank = ? WHERE id = ? AND board_id = ?`,
			columnType, rank, cardID, boardID)
		return err
	})
}

// ReorderColumns re-ranks a board's columns to follow order, which must name
// every column exactly once. A single moved column only rewrites the ranks
// PlanReorderRanks asks for; any other permutation re-ranks every column.
func (s Store) ReorderColumns(ctx context.Context, boardID string, order []string) error {
	boardID = strings.TrimSpace(boardID)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := loadBoard(ctx, tx, boardID)
		if err != nil {
			return err
		}
		if len(order) != len(b.Columns) {
			return fmt.Errorf("reorder: got %d columns, board has %d", len(order), len(b.Columns))
		}
		seen := map[string]bool{}
		for _, typ := range order {
			if b.FindColumn(typ) < 0 {
				return errNotFound("column", typ)
			}
			if seen[typ] {
				return fmt.Errorf("reorder: duplicate column %q", typ)
			}
			seen[typ] = true
		}
		updates, err := columnRankUpdates(b.Columns, order)
		if err != nil {
			return err
		}
		for typ, rank := range updates {
			if _, err := tx.ExecContext(ctx,
				`UPDATE board_columns SET rank = ? WHERE board_id = ? AND type = ?`,
				rank, boardID, typ); err != nil {
				return err
			}
		}
		return nil
	})
}

func columnRankUpdates(cols []model.Column, order []string) (map[string]string, error) {
	cur := make([]string, 0, len(cols))
	sibs := make([]Ranked, 0, len(cols))
	for _, c := range cols {
		cur = append(cur, c.Type)
		sibs = append(sibs, Ranked{ID: c.Type, Rank: c.Rank})
	}
	if typ, at, ok := SingleMove(cur, order); ok {
		res, err := PlanReorderRanks(sibs, typ, at)
		if err != nil {
			return nil, err
		}
		return res.RankByID, nil
	}
	ranks, err := RankSequence(len(order))
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(order))
	for i, typ := range order {
		out[typ] = ranks[i]
	}
	return out, nil
}

// rankAtEnd returns a rank after the last card of column typ.
func rankAtEnd(b model.Board, typ string) (string, error) {
	if b.FindColumn(typ) < 0 {
		return "", errNotFound("column", typ)
	}
	cards := b.CardsIn(typ)
	existing := make(map[string]bool, len(cards))
	last := ""
	for _, c := range cards {
		r := normRank(c.Rank)
		existing[r] = true
		if r > last {
			last = r
		}
	}
	return RankBetweenUnique(existing, last, "")
}
