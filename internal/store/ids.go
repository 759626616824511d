package store

import (
	"strings"

	"github.com/google/uuid"
)

const (
	boardIDPrefix = "brd"
	cardIDPrefix  = "crd"
)

// newID returns prefix-<suffix> where suffix is the first 10 hex chars of a
// random UUID.
func newID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	suffix := strings.ReplaceAll(u.String(), "-", "")[:10]
	return prefix + "-" + suffix, nil
}

// IsBoardID reports whether s looks like a board id.
func IsBoardID(s string) bool {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, boardIDPrefix+"-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}
