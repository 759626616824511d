package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func applyPlan(t *testing.T, xs []Ranked, res ReorderResult) []string {
	t.Helper()
	for i := range xs {
		if r, ok := res.RankByID[xs[i].ID]; ok {
			xs[i].Rank = r
		}
	}
	SortRanked(xs)
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.ID)
	}
	return out
}

func TestPlanReorderRanks_FastPathTouchesOnlyMoved(t *testing.T) {
	xs := []Ranked{{ID: "a", Rank: "h"}, {ID: "b", Rank: "q"}, {ID: "c", Rank: "u"}}
	res, err := PlanReorderRanks(xs, "c", 0)
	if err != nil {
		t.Fatalf("PlanReorderRanks: %v", err)
	}
	if res.UsedFallback || len(res.RankByID) != 1 {
		t.Fatalf("expected a single rank update, got %#v", res)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, applyPlan(t, xs, res)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanReorderRanks_PrefixAdjacentBounds_DoesNotJump(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// "y" < "y0" leaves no rank in between, so the window must be re-ranked.
	xs := []Ranked{
		{ID: "a", Rank: "y", CreatedAt: now},
		{ID: "b", Rank: "y0", CreatedAt: now.Add(time.Second)},
		{ID: "x", Rank: "h", CreatedAt: now.Add(2 * time.Second)},
	}
	// Sorted: [x, a, b]. After removing x: [a, b]; insert after a.
	res, err := PlanReorderRanks(xs, "x", 1)
	if err != nil {
		t.Fatalf("PlanReorderRanks: %v", err)
	}
	if !res.UsedFallback {
		t.Fatalf("expected fallback window, got %#v", res)
	}
	if diff := cmp.Diff([]string{"a", "x", "b"}, applyPlan(t, xs, res)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanReorderRanks_NoOpAndErrors(t *testing.T) {
	xs := []Ranked{{ID: "a", Rank: "h"}, {ID: "b", Rank: "q"}}
	res, err := PlanReorderRanks(xs, "a", 0)
	if err != nil || len(res.RankByID) != 0 {
		t.Fatalf("expected no-op, got %#v err=%v", res, err)
	}
	if _, err := PlanReorderRanks(xs, "", 0); err == nil {
		t.Fatalf("expected error for empty moved id")
	}
	if _, err := PlanReorderRanks(xs, "zz", 0); err == nil {
		t.Fatalf("expected error for unknown moved id")
	}
}

func TestSingleMove(t *testing.T) {
	cur := []string{"a", "b", "c", "d"}
	tests := []struct {
		name   string
		order  []string
		id     string
		at     int
		wantOK bool
	}{
		{name: "last to front", order: []string{"d", "a", "b", "c"}, id: "d", at: 0, wantOK: true},
		{name: "first to end", order: []string{"b", "c", "d", "a"}, id: "a", at: 3, wantOK: true},
		{name: "middle", order: []string{"a", "c", "b", "d"}, id: "c", at: 1, wantOK: true},
		{name: "unchanged", order: []string{"a", "b", "c", "d"}},
		{name: "two moves", order: []string{"b", "a", "d", "c"}},
		{name: "unknown", order: []string{"a", "b", "c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, at, ok := SingleMove(cur, tt.order)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if id != tt.id || at != tt.at {
				t.Fatalf("move=(%q,%d) want (%q,%d)", id, at, tt.id, tt.at)
			}
			// Replaying the move must give back the target order.
			sibs := make([]Ranked, 0, len(cur))
			ranks, _ := RankSequence(len(cur))
			for i, c := range cur {
				sibs = append(sibs, Ranked{ID: c, Rank: ranks[i]})
			}
			res, err := PlanReorderRanks(sibs, id, at)
			if err != nil {
				t.Fatalf("PlanReorderRanks: %v", err)
			}
			if diff := cmp.Diff(tt.order, applyPlan(t, sibs, res)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
