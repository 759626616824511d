package dropdown

import "testing"

func TestPlace(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 800}
	tests := []struct {
		name   string
		anchor Rect
		listW  int
		listH  int
		vp     Viewport
		want   Position
	}{
		{
			name:   "below by default",
			anchor: Rect{X: 100, Y: 100, W: 200, H: 30},
			listH:  200,
			vp:     vp,
			want:   Position{Top: 130, Left: 100, Width: 200, MaxHeight: 260},
		},
		{
			name:   "flips above with unknown list height",
			anchor: Rect{X: 100, Y: 700, W: 200, H: 30},
			vp:     vp,
			want:   Position{Top: 436, Left: 100, Width: 200, MaxHeight: 260, Above: true},
		},
		{
			name:   "flips above using the list height",
			anchor: Rect{X: 100, Y: 700, W: 200, H: 30},
			listH:  120,
			vp:     vp,
			want:   Position{Top: 576, Left: 100, Width: 200, MaxHeight: 260, Above: true},
		},
		{
			name:   "stays below when above is not larger",
			anchor: Rect{X: 100, Y: 50, W: 200, H: 30},
			listH:  200,
			vp:     Viewport{Width: 1000, Height: 150},
			want:   Position{Top: 80, Left: 100, Width: 200, MaxHeight: 260},
		},
		{
			name:   "exactly FlipBelow of room stays below",
			anchor: Rect{X: 0, Y: 610, W: 200, H: 30},
			vp:     vp,
			want:   Position{Top: 640, Left: 0, Width: 200, MaxHeight: 260},
		},
		{
			name:   "clamps right overflow with margin",
			anchor: Rect{X: 900, Y: 100, W: 200, H: 30},
			vp:     vp,
			want:   Position{Top: 130, Left: 792, Width: 200, MaxHeight: 260},
		},
		{
			name:   "never past the left margin",
			anchor: Rect{X: 50, Y: 100, W: 200, H: 30},
			listW:  2000,
			vp:     vp,
			want:   Position{Top: 130, Left: 8, Width: 200, MaxHeight: 260},
		},
		{
			name:   "document scroll offsets",
			anchor: Rect{X: 100, Y: 100, W: 200, H: 30},
			vp:     Viewport{Width: 1000, Height: 800, ScrollX: 5, ScrollY: 400},
			want:   Position{Top: 530, Left: 105, Width: 200, MaxHeight: 260},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.anchor, tt.listW, tt.listH, tt.vp, PixelGeometry)
			if got != tt.want {
				t.Fatalf("got=%+v want=%+v", got, tt.want)
			}
		})
	}
}

func TestPlace_CellGeometry(t *testing.T) {
	vp := Viewport{Width: 80, Height: 24}
	got := Place(Rect{X: 2, Y: 20, W: 30, H: 1}, 30, 7, vp, CellGeometry)
	if !got.Above || got.Top != 13 {
		t.Fatalf("got=%+v want flipped to top=13", got)
	}

	got = Place(Rect{X: 2, Y: 3, W: 30, H: 1}, 30, 7, vp, CellGeometry)
	if got.Above || got.Top != 4 {
		t.Fatalf("got=%+v want below at top=4", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 2}
	if !r.Contains(2, 3) || !r.Contains(5, 4) {
		t.Fatalf("corners should be inside")
	}
	if r.Contains(6, 3) || r.Contains(2, 5) || r.Contains(1, 3) {
		t.Fatalf("right/bottom edges are exclusive")
	}
	if (Rect{X: 0, Y: 0}).Contains(0, 0) {
		t.Fatalf("empty rect contains nothing")
	}
}
