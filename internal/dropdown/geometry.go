package dropdown

// Rect is a screen rectangle. X/Y is the top-left corner.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.H }
func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.W }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(x, y int) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport is the visible area plus the document scroll offset.
type Viewport struct {
	Width, Height    int
	ScrollX, ScrollY int
}

// Geometry tunes list placement. Units are whatever the host measures in.
type Geometry struct {
	// MaxHeight caps the list height.
	MaxHeight int
	// FlipBelow is the minimum room below the anchor; with less (and more room
	// above) the list opens upward.
	FlipBelow int
	// Margin is kept between the list and the viewport edge when clamping.
	Margin int
	// Gap separates an upward list from the anchor.
	Gap int
}

var (
	// PixelGeometry matches browser-sized layouts.
	PixelGeometry = Geometry{MaxHeight: 260, FlipBelow: 160, Margin: 8, Gap: 4}
	// CellGeometry is the terminal default (one unit = one cell).
	CellGeometry = Geometry{MaxHeight: 10, FlipBelow: 6, Margin: 1, Gap: 0}
)

// Position is where the list is drawn, in viewport-independent coordinates.
type Position struct {
	Top, Left int
	Width     int
	MaxHeight int
	Above     bool
}

// Place computes the list position for an anchor (the input's bounding box),
// the list's natural size, and the viewport.
//
// The list opens below the anchor unless less than g.FlipBelow remains below
// and there is more room above. Horizontal overflow past the right edge is
// pulled back inside the viewport, never past the left margin.
func Place(anchor Rect, listW, listH int, vp Viewport, g Geometry) Position {
	pos := Position{
		Top:       anchor.Bottom() + vp.ScrollY,
		Left:      anchor.Left() + vp.ScrollX,
		Width:     anchor.W,
		MaxHeight: g.MaxHeight,
	}

	below := vp.Height - anchor.Bottom()
	if below < g.FlipBelow && anchor.Top() > below {
		h := g.MaxHeight
		if listH > 0 && listH < h {
			h = listH
		}
		pos.Top = anchor.Top() + vp.ScrollY - h - g.Gap
		pos.Above = true
	}

	if listW <= 0 {
		listW = anchor.W
	}
	overflow := (pos.Left + listW) - (vp.ScrollX + vp.Width)
	if overflow > 0 {
		pos.Left = max(vp.ScrollX+g.Margin, pos.Left-overflow-g.Margin)
	}
	return pos
}

// inFlow is the position of a list that is not portaled: directly under the
// anchor, no flipping and no clamping.
func inFlow(anchor Rect, g Geometry) Position {
	return Position{Top: anchor.Bottom(), Left: anchor.Left(), Width: anchor.W, MaxHeight: g.MaxHeight}
}
