// Package overlay composites rendered blocks on top of a rendered frame.
//
// This is how widgets "portal" content in a terminal: the block is drawn at an
// absolute cell position above everything else, regardless of which pane it
// logically belongs to.
package overlay

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const sgrReset = "\x1b[0m"

// Normalize forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. Over-wide lines are cut and end in an ellipsis.
func Normalize(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		ln := lines[i]
		// Bound the cost of width computations on pathological lines.
		if width > 0 && len(ln) > 8192 {
			ln = xansi.Cut(ln, 0, width)
		}
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// Place draws block over base with its top-left corner at (x, y) and returns
// a width x height frame. Parts of block that fall outside the frame are clipped.
func Place(base, block string, x, y, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := strings.Split(Normalize(base, width, height), "\n")
	if block == "" || x >= width {
		return strings.Join(canvas, "\n")
	}

	for i, ln := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(canvas) {
			continue
		}
		startX := x
		w := xansi.StringWidth(ln)
		if startX < 0 {
			ln = xansi.Cut(ln, -startX, w)
			startX = 0
			w = xansi.StringWidth(ln)
		}
		if startX+w > width {
			ln = xansi.Truncate(ln, width-startX, "")
			w = xansi.StringWidth(ln)
		}
		if w == 0 {
			continue
		}

		target := canvas[row]
		left := xansi.Truncate(target, startX, "")
		if lw := xansi.StringWidth(left); lw < startX {
			// A wide rune straddled the cut.
			left += strings.Repeat(" ", startX-lw)
		}
		right := xansi.Cut(target, startX+w, width)
		if rw := xansi.StringWidth(right); startX+w+rw < width {
			right = strings.Repeat(" ", width-startX-w-rw) + right
		}

		if strings.Contains(left, "\x1b[") {
			left += sgrReset
		}
		if strings.Contains(ln, "\x1b[") {
			ln += sgrReset
		}
		canvas[row] = left + ln + right
	}
	return strings.Join(canvas, "\n")
}
