package visibility

// Rect is an axis-aligned box in content coordinates (terminal cells).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns Width*Height, or 0 for degenerate rects.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Area() == 0
}

// Intersect returns the overlap of r and o. The result may have zero width or
// height when the rects only touch along an edge.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Expand grows the rect by the margin (negative values shrink it).
func (r Rect) Expand(m Margin) Rect {
	top := m.Top.resolve(r.Height)
	bottom := m.Bottom.resolve(r.Height)
	left := m.Left.resolve(r.Width)
	right := m.Right.resolve(r.Width)
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}

// Target is anything whose on-screen box can be measured.
type Target interface {
	// Bounds returns the current box, or false when the target is detached
	// or has not been laid out yet.
	Bounds() (Rect, bool)
}

// TargetFunc adapts a function to Target.
type TargetFunc func() (Rect, bool)

// Bounds implements Target.
func (f TargetFunc) Bounds() (Rect, bool) { return f() }
