package dropdown

import (
	"fmt"
	"strings"

	"valentine/internal/overlay"
	"valentine/internal/theme"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	inputPadLeft = 1
	// inputChrome is the left pad plus the " ▾" indicator.
	inputChrome = inputPadLeft + 2

	noResults = "No results"
)

// View renders the input line, exactly as wide as the anchor.
func (m Model) View() string {
	w := m.dd.Anchor().W
	if w <= inputChrome {
		w = inputChrome + 10
	}
	indicator := "▾"
	if m.dd.IsOpen() {
		indicator = "▴"
	}
	ind := theme.Muted().Render(indicator)
	if m.input.Focused() {
		ind = theme.Accent().Render(indicator)
	}
	field := overlay.Normalize(strings.Repeat(" ", inputPadLeft)+m.input.View(), w-2, 1)
	return field + " " + ind
}

// ListView renders the option list block: a bordered box with the active
// option highlighted, the committed option marked, and a "no results" row
// when nothing matches.
func (m Model) ListView() string {
	d := m.dd
	w := d.Position().Width
	if w <= 0 {
		w = d.Anchor().W
	}
	inner := w - 2
	if inner < 4 {
		inner = 4
	}

	rowStyle := lipgloss.NewStyle().Width(inner)
	activeStyle := theme.Active().Width(inner)

	var rows []string
	vis := d.VisibleIndices()
	if len(vis) == 0 {
		rows = append(rows, theme.Muted().Width(inner).Render(truncate(emptyText(d.Query(), d.Options()), inner)))
	} else {
		end := d.ScrollOffset() + d.ListRows()
		if end > len(vis) {
			end = len(vis)
		}
		for _, idx := range vis[d.ScrollOffset():end] {
			opt := d.options[idx]
			marker := "  "
			if idx == d.SelectedIndex() {
				marker = "✓ "
			}
			line := truncate(marker+opt.Label, inner)
			if idx == d.ActiveIndex() {
				rows = append(rows, activeStyle.Render(line))
			} else {
				rows = append(rows, rowStyle.Render(line))
			}
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorCardBorder).
		Width(inner)
	if mh := d.Position().MaxHeight; mh > 0 {
		box = box.MaxHeight(mh)
	}
	return box.Render(strings.Join(rows, "\n"))
}

// Overlay returns the list block and the screen cell of its top-left corner
// when a portaled list is open.
func (m Model) Overlay() (block string, x, y int, ok bool) {
	if !m.dd.IsOpen() || !m.dd.Portaled() {
		return "", 0, 0, false
	}
	pos := m.dd.Position()
	vp := m.dd.viewport
	return m.ListView(), pos.Left - vp.ScrollX, pos.Top - vp.ScrollY, true
}

// HelpView renders the short key help for the list.
func (m Model) HelpView() string {
	return m.help.View(m.keys)
}

func truncate(s string, w int) string {
	if xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Truncate(s, w, "…")
}

func emptyText(query string, opts []Option) string {
	if label, ok := closestLabel(query, opts); ok {
		return fmt.Sprintf("%s (closest: %s)", noResults, label)
	}
	return noResults
}

// closestLabel finds the label nearest to query by edit distance, if one is
// close enough to be a plausible typo.
func closestLabel(query string, opts []Option) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(opts) == 0 {
		return "", false
	}
	best, bestDist := "", -1
	for _, o := range opts {
		l := strings.ToLower(o.Label)
		dist := levenshtein.ComputeDistance(q, l)
		// Also compare against the label prefix of the same length.
		if n := len([]rune(q)); len([]rune(l)) > n {
			if pd := levenshtein.ComputeDistance(q, string([]rune(l)[:n])); pd < dist {
				dist = pd
			}
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = o.Label, dist
		}
	}
	limit := len([]rune(q)) / 3
	if limit < 1 {
		limit = 1
	}
	if bestDist > limit {
		return "", false
	}
	return best, true
}
