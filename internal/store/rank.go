package store

import (
	"errors"
	"fmt"
	"strings"
)

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ErrNoRankSpace means no rank fits strictly between the bounds.
var ErrNoRankSpace = errors.New("no space between ranks")

func rankDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return 10 + int(c-'a'), true
	default:
		return 0, false
	}
}

func rankChar(d int) byte {
	return rankAlphabet[min(max(d, 0), 35)]
}

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

// RankBetween returns a lexicographic rank strictly between a and b.
// a may be empty (no lower bound) and b may be empty (no upper bound).
//
// Ranks are lowercase base36 strings compared bytewise; the result is a
// fractional-indexing midpoint.
func RankBetween(a, b string) (string, error) {
	a, b = normRank(a), normRank(b)
	if a != "" && b != "" && a >= b {
		return "", fmt.Errorf("rank bounds out of order: %q >= %q", a, b)
	}

	for _, r := range []string{a, b} {
		for i := 0; i < len(r); i++ {
			if _, ok := rankDigit(r[i]); !ok {
				return "", fmt.Errorf("invalid rank character %q in %q", r[i], r)
			}
		}
	}

	between := func(r string) bool {
		return r != "" && (a == "" || a < r) && (b == "" || r < b)
	}

	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		da, db := 0, 35
		if i < len(a) {
			da, _ = rankDigit(a[i])
		}
		if i < len(b) {
			db, _ = rankDigit(b[i])
		}

		if da == db {
			prefix = append(prefix, rankChar(da))
			continue
		}

		if db-da > 1 {
			r := string(append(prefix, rankChar(da+(db-da)/2)))
			// The upper bound may be a prefix extension of the lower (e.g. "y" < "y0").
			if !between(r) {
				return "", ErrNoRankSpace
			}
			return r, nil
		}

		// Adjacent digits: any extension of a stays below b.
		r := a + "0"
		if !between(r) {
			return "", ErrNoRankSpace
		}
		return r, nil
	}
	return "", ErrNoRankSpace
}

func RankAfter(a string) (string, error)  { return RankBetween(a, "") }
func RankBefore(b string) (string, error) { return RankBetween("", b) }
func RankInitial() (string, error)        { return RankBetween("", "") }

// RankBetweenUnique returns a rank between lower and upper that is not
// already in existing (keys normalized: lowercase, trimmed).
func RankBetweenUnique(existing map[string]bool, lower, upper string) (string, error) {
	lower, upper = normRank(lower), normRank(upper)

	// Each collision tightens the lower bound, so every try yields a new value.
	cur := lower
	for i := 0; i < 256; i++ {
		r, err := RankBetween(cur, upper)
		if err != nil {
			return "", err
		}
		if !existing[r] {
			return r, nil
		}
		cur = r
	}
	return "", errors.New("unable to find unique rank")
}

// RankSequence returns n strictly increasing ranks.
func RankSequence(n int) ([]string, error) {
	out := make([]string, 0, n)
	prev := ""
	for i := 0; i < n; i++ {
		r, err := RankAfter(prev)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		prev = r
	}
	return out, nil
}
