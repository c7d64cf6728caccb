package platform

import "fmt"

// Rect is an on-screen rectangle in device-independent pixels.
type Rect struct {
	Left   int `yaml:"x"`
	Top    int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r Rect) Right() int  { return r.Left + r.Width }
func (r Rect) Bottom() int { return r.Top + r.Height }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Left, r.Top, r.Width, r.Height)
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right() && o.Left < r.Right() && r.Top < o.Bottom() && o.Top < r.Bottom()
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	left := min(r.Left, o.Left)
	top := min(r.Top, o.Top)
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// UnionAll folds rects into one bounding box. It returns false when rects is
// empty.
func UnionAll(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out, true
}

// Difference returns the largest rectangle inside r that does not overlap cut.
func Difference(r, cut Rect) Rect {
	if !r.Intersects(cut) {
		return r
	}
	candidates := []Rect{
		{Left: r.Left, Top: r.Top, Width: cut.Left - r.Left, Height: r.Height},
		{Left: cut.Right(), Top: r.Top, Width: r.Right() - cut.Right(), Height: r.Height},
		{Left: r.Left, Top: r.Top, Width: r.Width, Height: cut.Top - r.Top},
		{Left: r.Left, Top: cut.Bottom(), Width: r.Width, Height: r.Bottom() - cut.Bottom()},
	}
	best := Rect{Left: r.Left, Top: r.Top}
	bestArea := 0
	for _, c := range candidates {
		if c.Empty() {
			continue
		}
		if area := c.Width * c.Height; area > bestArea {
			best, bestArea = c, area
		}
	}
	return best
}

// SameRow reports whether the vertical midpoint of b falls inside the
// vertical span of a.
func SameRow(a, b Rect) bool {
	middle := b.Top + b.Height/2
	return a.Top <= middle && middle <= a.Bottom()
}
