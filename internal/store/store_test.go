package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"valentine/internal/model"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func TestSelections_RecordListLatest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, sel := range []model.Selection{
		{ContainerID: "country", Value: "us", CommittedAt: base},
		{ContainerID: "fruit", Value: "apple", CommittedAt: base.Add(time.Minute)},
		{ContainerID: "country", Value: "uk", CommittedAt: base.Add(2 * time.Minute)},
	} {
		if err := s.RecordSelection(ctx, sel); err != nil {
			t.Fatalf("RecordSelection #%d: %v", i, err)
		}
	}

	got, err := s.ListSelections(ctx, "country", 0)
	if err != nil {
		t.Fatalf("ListSelections: %v", err)
	}
	want := []model.Selection{
		{ContainerID: "country", Value: "uk", CommittedAt: base.Add(2 * time.Minute)},
		{ContainerID: "country", Value: "us", CommittedAt: base},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("selections mismatch (-want +got):\n%s", diff)
	}

	limited, err := s.ListSelections(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListSelections limit: %v", err)
	}
	if len(limited) != 1 || limited[0].Value != "uk" {
		t.Fatalf("limit 1 got=%v", limited)
	}

	latest, err := s.LatestSelections(ctx)
	if err != nil {
		t.Fatalf("LatestSelections: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"country": "uk", "fruit": "apple"}, latest); diff != "" {
		t.Fatalf("latest mismatch (-want +got):\n%s", diff)
	}

	if err := s.RecordSelection(ctx, model.Selection{Value: "x"}); err == nil {
		t.Fatalf("expected error for missing container id")
	}
}

func TestBoards_CreateAddMoveReorder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	b, err := s.CreateBoard(ctx, "Ideas", nil)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if !IsBoardID(b.ID) {
		t.Fatalf("unexpected board id %q", b.ID)
	}
	if diff := cmp.Diff([]string{"todo", "doing", "done"}, b.ColumnOrder()); diff != "" {
		t.Fatalf("default columns mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		c, err := s.AddCard(ctx, b.ID, "todo", title)
		if err != nil {
			t.Fatalf("AddCard %q: %v", title, err)
		}
		ids = append(ids, c.ID)
	}

	if err := s.MoveCard(ctx, b.ID, ids[0], "doing"); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if err := s.ReorderColumns(ctx, b.ID, []string{"done", "todo", "doing"}); err != nil {
		t.Fatalf("ReorderColumns: %v", err)
	}

	got, err := s.LoadBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if got.Title != "Ideas" || !got.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("board header mismatch: %#v", got)
	}
	if diff := cmp.Diff([]string{"done", "todo", "doing"}, got.ColumnOrder()); diff != "" {
		t.Fatalf("column order mismatch (-want +got):\n%s", diff)
	}
	titles := func(typ string) []string {
		var out []string
		for _, c := range got.CardsIn(typ) {
			out = append(out, c.Title)
		}
		return out
	}
	if diff := cmp.Diff([]string{"two", "three"}, titles("todo")); diff != "" {
		t.Fatalf("todo mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"one"}, titles("doing")); diff != "" {
		t.Fatalf("doing mismatch (-want +got):\n%s", diff)
	}

	// Moving back appends at the end of the column.
	if err := s.MoveCard(ctx, b.ID, ids[0], "todo"); err != nil {
		t.Fatalf("MoveCard back: %v", err)
	}
	got, err = s.LoadBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if diff := cmp.Diff([]string{"two", "three", "one"}, titles("todo")); diff != "" {
		t.Fatalf("todo after move back mismatch (-want +got):\n%s", diff)
	}
}

func TestBoards_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.LatestBoard(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestBoard on empty store: %v", err)
	}
	if _, err := s.LoadBoard(ctx, "brd-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadBoard: %v", err)
	}

	b, err := s.CreateBoard(ctx, "B", []model.Column{{Type: "a", Label: "A"}, {Type: "b"}})
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if b.Columns[1].Label != "b" {
		t.Fatalf("empty label should default to the type, got %q", b.Columns[1].Label)
	}

	_, err = s.AddCard(ctx, b.ID, "nope", "x")
	var nf notFoundError
	if !errors.As(err, &nf) || nf.Kind() != "column" {
		t.Fatalf("AddCard to unknown column: %v", err)
	}
	if err := s.MoveCard(ctx, b.ID, "crd-missing", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("MoveCard unknown card: %v", err)
	}
	if err := s.ReorderColumns(ctx, b.ID, []string{"a"}); err == nil {
		t.Fatalf("expected error for incomplete order")
	}
	if err := s.ReorderColumns(ctx, b.ID, []string{"a", "a"}); err == nil {
		t.Fatalf("expected error for duplicate column")
	}

	latest, err := s.LatestBoard(ctx)
	if err != nil || latest.ID != b.ID {
		t.Fatalf("LatestBoard=%q err=%v", latest.ID, err)
	}
}

func TestCreateBoard_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateBoard(ctx, "  ", nil); err == nil {
		t.Fatalf("expected error for empty title")
	}
	if _, err := s.CreateBoard(ctx, "x", []model.Column{{Type: "a"}, {Type: "a"}}); err == nil {
		t.Fatalf("expected error for duplicate column types")
	}
	bs, err := s.ListBoards(ctx)
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(bs) != 0 {
		t.Fatalf("failed creates must not store boards, got %v", bs)
	}
}

func TestStore_EmptyDir(t *testing.T) {
	t.Parallel()
	s := Store{}
	if err := s.RecordSelection(context.Background(), model.Selection{ContainerID: "x"}); err == nil {
		t.Fatalf("expected error for empty store dir")
	}
}
