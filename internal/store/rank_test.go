package store

import (
	"errors"
	"testing"
)

func TestRankBetween_StrictlyBetween(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"", ""},
		{"h", ""},
		{"", "h"},
		{"a", "c"},
		{"a", "b"},
		{"a0", "a1"},
		{"z", ""},
		{"zz", ""},
		{"", "01"},
		{"H", "Q"},
	}
	for _, tt := range tests {
		r, err := RankBetween(tt.a, tt.b)
		if err != nil {
			t.Fatalf("RankBetween(%q,%q): %v", tt.a, tt.b, err)
		}
		a, b := normRank(tt.a), normRank(tt.b)
		if a != "" && !(a < r) {
			t.Fatalf("RankBetween(%q,%q)=%q not above lower bound", tt.a, tt.b, r)
		}
		if b != "" && !(r < b) {
			t.Fatalf("RankBetween(%q,%q)=%q not below upper bound", tt.a, tt.b, r)
		}
	}
}

func TestRankBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// "y" < "y0" but nothing sorts strictly between them: '0' is the minimal
	// digit and end-of-string sorts before any digit.
	if _, err := RankBetween("y", "y0"); !errors.Is(err, ErrNoRankSpace) {
		t.Fatalf("expected ErrNoRankSpace, got %v", err)
	}
}

func TestRankBetween_RejectsBadBounds(t *testing.T) {
	if _, err := RankBetween("c", "a"); err == nil {
		t.Fatalf("expected error for reversed bounds")
	}
	if _, err := RankBetween("a!", ""); err == nil {
		t.Fatalf("expected error for invalid rank character")
	}
}

func TestRankBetweenUnique_AvoidsCollisionByTighteningLowerBound(t *testing.T) {
	existing := map[string]bool{"p": true}
	// RankBetween("m","t") yields "p".
	r, err := RankBetweenUnique(existing, "m", "t")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if existing[r] || !("m" < r && r < "t") {
		t.Fatalf("got %q", r)
	}
}

func TestRankBetweenUnique_OpenEndedUpper_IsUnique(t *testing.T) {
	existing := map[string]bool{"h0": true, "h00": true}
	r, err := RankBetweenUnique(existing, "h", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if existing[r] {
		t.Fatalf("expected returned rank to be unique; got existing rank %q", r)
	}
}

func TestRankSequence_Increasing(t *testing.T) {
	rs, err := RankSequence(50)
	if err != nil {
		t.Fatalf("RankSequence: %v", err)
	}
	if len(rs) != 50 {
		t.Fatalf("len=%d", len(rs))
	}
	for i := 1; i < len(rs); i++ {
		if !(rs[i-1] < rs[i]) {
			t.Fatalf("ranks not increasing at %d: %q >= %q", i, rs[i-1], rs[i])
		}
	}
}
