package store

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"
)

// Ranked is one element of an ordered sibling set (a column of a board, or a
// card of a column).
type Ranked struct {
	ID        string
	Rank      string
	CreatedAt time.Time
}

// ReorderResult describes the rank updates needed to realize a move.
// RankByID includes only elements whose ranks should change.
type ReorderResult struct {
	RankByID     map[string]string
	WindowIDs    []string // ids re-ranked by the fallback path, in final order
	UsedFallback bool
}

// SortRanked sorts in place by rank, then CreatedAt, then ID.
func SortRanked(xs []Ranked) {
	sort.SliceStable(xs, func(i, j int) bool {
		return compareRanked(xs[i], xs[j]) < 0
	})
}

func compareRanked(a, b Ranked) int {
	ra := strings.TrimSpace(a.Rank)
	rb := strings.TrimSpace(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		return strings.Compare(ra, rb)
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// PlanReorderRanks plans rank updates for moving movedID within sibs.
// insertAt is the index in the sibling list after the moved element has been
// removed.
//
// Only the moved element's rank changes when its new neighbours leave room;
// otherwise the smallest contiguous window around it that has usable outer
// bounds is re-ranked.
func PlanReorderRanks(sibs []Ranked, movedID string, insertAt int) (ReorderResult, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return ReorderResult{}, errors.New("missing moved id")
	}
	if len(sibs) == 0 {
		return ReorderResult{RankByID: map[string]string{}}, nil
	}

	cur := slices.Clone(sibs)
	SortRanked(cur)

	movedIdx := slices.IndexFunc(cur, func(r Ranked) bool { return strings.TrimSpace(r.ID) == movedID })
	if movedIdx < 0 {
		return ReorderResult{}, errors.New("moved element not found in sibling set")
	}
	moved := cur[movedIdx]
	rest := slices.Delete(slices.Clone(cur), movedIdx, movedIdx+1)

	insertAt = min(max(insertAt, 0), len(rest))
	if insertAt == movedIdx {
		return ReorderResult{RankByID: map[string]string{}}, nil
	}
	// Moving up re-ranks the displaced neighbours to the right first.
	preferRight := insertAt < movedIdx

	final := slices.Insert(rest, insertAt, moved)

	existing := existingRanksExcluding(final, map[string]bool{movedID: true})
	if r, ok := rankBetweenNeighbors(existing, final, insertAt); ok {
		if strings.TrimSpace(moved.Rank) != r {
			return ReorderResult{RankByID: map[string]string{movedID: r}}, nil
		}
		return ReorderResult{RankByID: map[string]string{}}, nil
	}

	lo, hi := minimalValidWindow(final, insertAt, preferRight)
	lower, upper := "", ""
	if lo > 0 {
		lower = strings.TrimSpace(final[lo-1].Rank)
	}
	if hi+1 < len(final) {
		upper = strings.TrimSpace(final[hi+1].Rank)
	}

	excl := map[string]bool{}
	for i := lo; i <= hi; i++ {
		excl[strings.TrimSpace(final[i].ID)] = true
	}
	existing = existingRanksExcluding(final, excl)

	res := ReorderResult{
		RankByID:     map[string]string{},
		WindowIDs:    make([]string, 0, hi-lo+1),
		UsedFallback: true,
	}
	curLower := lower
	for i := lo; i <= hi; i++ {
		id := strings.TrimSpace(final[i].ID)
		r, err := RankBetweenUnique(existing, curLower, upper)
		if err != nil {
			return ReorderResult{}, err
		}
		existing[normRank(r)] = true
		res.RankByID[id] = r
		res.WindowIDs = append(res.WindowIDs, id)
		curLower = r
	}
	return res, nil
}

// SingleMove reports whether order is cur with exactly one element moved, and
// if so which one and where it was inserted (index after removal).
func SingleMove(cur, order []string) (id string, insertAt int, ok bool) {
	if len(cur) != len(order) || slices.Equal(cur, order) {
		return "", 0, false
	}
	for i, id := range order {
		j := slices.Index(cur, id)
		if j < 0 {
			return "", 0, false
		}
		a := slices.Delete(slices.Clone(order), i, i+1)
		b := slices.Delete(slices.Clone(cur), j, j+1)
		if slices.Equal(a, b) {
			return id, i, true
		}
	}
	return "", 0, false
}

func existingRanksExcluding(xs []Ranked, excludeIDs map[string]bool) map[string]bool {
	existing := map[string]bool{}
	for _, x := range xs {
		if excludeIDs[strings.TrimSpace(x.ID)] {
			continue
		}
		if rn := normRank(x.Rank); rn != "" {
			existing[rn] = true
		}
	}
	return existing
}

// rankBetweenNeighbors computes a rank between the immediate neighbours of
// index at. ok is false when the bounds leave no room.
func rankBetweenNeighbors(existing map[string]bool, final []Ranked, at int) (string, bool) {
	lower, upper := "", ""
	if at > 0 {
		lower = strings.TrimSpace(final[at-1].Rank)
	}
	if at+1 < len(final) {
		upper = strings.TrimSpace(final[at+1].Rank)
	}
	if lower != "" && upper != "" && !(lower < upper) {
		return "", false
	}
	r, err := RankBetweenUnique(existing, lower, upper)
	if err != nil {
		return "", false
	}
	return r, true
}

// minimalValidWindow finds the smallest window [lo, hi] containing at whose
// outer bounds leave room for hi-lo+1 increasing ranks. Ties go right when
// preferRight is set, left otherwise.
func minimalValidWindow(final []Ranked, at int, preferRight bool) (lo, hi int) {
	if at < 0 || at >= len(final) {
		return 0, len(final) - 1
	}
	valid := func(lo, hi int) bool {
		lower, upper := "", ""
		if lo > 0 {
			lower = strings.TrimSpace(final[lo-1].Rank)
		}
		if hi+1 < len(final) {
			upper = strings.TrimSpace(final[hi+1].Rank)
		}
		return ranksFit(lower, upper, hi-lo+1)
	}

	for size := 1; size <= len(final); size++ {
		startMin := max(at-(size-1), 0)
		startMax := min(at, len(final)-size)
		if preferRight {
			for lo := startMax; lo >= startMin; lo-- {
				if valid(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
		} else {
			for lo := startMin; lo <= startMax; lo++ {
				if valid(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
		}
	}
	return 0, len(final) - 1
}

// ranksFit reports whether n increasing ranks fit strictly between lower and
// upper.
func ranksFit(lower, upper string, n int) bool {
	cur := lower
	for i := 0; i < n; i++ {
		r, err := RankBetween(cur, upper)
		if err != nil {
			return false
		}
		cur = r
	}
	return true
}
