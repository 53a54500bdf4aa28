package geometry

// HitTarget is the part of a capture rectangle under a pointer.
type HitTarget int

const (
	HitOutside HitTarget = iota
	HitInside
	HitTopLeft
	HitTopRight
	HitBottomLeft
	HitBottomRight
	HitTop
	HitBottom
	HitLeft
	HitRight
)

func (h HitTarget) String() string {
	switch h {
	case HitInside:
		return "inside"
	case HitTopLeft:
		return "tl"
	case HitTopRight:
		return "tr"
	case HitBottomLeft:
		return "bl"
	case HitBottomRight:
		return "br"
	case HitTop:
		return "t"
	case HitBottom:
		return "b"
	case HitLeft:
		return "l"
	case HitRight:
		return "r"
	default:
		return "outside"
	}
}

// IsHandle reports whether h is a corner or an edge.
func (h HitTarget) IsHandle() bool { return h >= HitTopLeft }

// IsCorner reports whether h is one of the four corners.
func (h HitTarget) IsCorner() bool { return h >= HitTopLeft && h <= HitBottomRight }

func (h HitTarget) movesLeft() bool   { return h == HitTopLeft || h == HitBottomLeft || h == HitLeft }
func (h HitTarget) movesRight() bool  { return h == HitTopRight || h == HitBottomRight || h == HitRight }
func (h HitTarget) movesTop() bool    { return h == HitTopLeft || h == HitTopRight || h == HitTop }
func (h HitTarget) movesBottom() bool { return h == HitBottomLeft || h == HitBottomRight || h == HitBottom }

// ClassifyHit returns which handle of r the point p is over. Corners win over
// edges when both are within radius.
func ClassifyHit(p Point, r Rect, radius int) HitTarget {
	corners := []struct {
		target HitTarget
		at     Point
	}{
		{HitTopLeft, Point{r.X, r.Y}},
		{HitTopRight, Point{r.Right(), r.Y}},
		{HitBottomLeft, Point{r.X, r.Bottom()}},
		{HitBottomRight, Point{r.Right(), r.Bottom()}},
	}
	for _, c := range corners {
		if distance(p, c.at) <= float64(radius) {
			return c.target
		}
	}

	withinX := p.X >= r.X && p.X <= r.Right()
	withinY := p.Y >= r.Y && p.Y <= r.Bottom()
	switch {
	case abs(p.Y-r.Y) <= radius && withinX:
		return HitTop
	case abs(p.Y-r.Bottom()) <= radius && withinX:
		return HitBottom
	case abs(p.X-r.X) <= radius && withinY:
		return HitLeft
	case abs(p.X-r.Right()) <= radius && withinY:
		return HitRight
	}

	if r.Contains(p) {
		return HitInside
	}
	return HitOutside
}

// ResizeFromEdge moves the bounds implied by edge by (dx, dy) and keeps the
// opposite bounds fixed. Growth stops at MaxSize. If the result would be
// smaller than MinSize in either dimension, anchor is returned with ok=false.
func ResizeFromEdge(anchor Rect, edge HitTarget, dx, dy int) (Rect, bool) {
	left, top, right, bottom := anchor.X, anchor.Y, anchor.Right(), anchor.Bottom()
	if edge.movesLeft() {
		left += dx
	}
	if edge.movesRight() {
		right += dx
	}
	if edge.movesTop() {
		top += dy
	}
	if edge.movesBottom() {
		bottom += dy
	}
	if right-left > MaxSize {
		if edge.movesLeft() {
			left = right - MaxSize
		} else {
			right = left + MaxSize
		}
	}
	if bottom-top > MaxSize {
		if edge.movesTop() {
			top = bottom - MaxSize
		} else {
			bottom = top + MaxSize
		}
	}
	out := Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	if out.Width < MinSize || out.Height < MinSize {
		return anchor, false
	}
	return out, true
}

// LimitResizeDelta shrinks (dx, dy) so that the edges moved by edge stay
// inside bounds.
func LimitResizeDelta(anchor Rect, edge HitTarget, dx, dy int, bounds Rect) (int, int) {
	if edge.movesLeft() {
		dx = max(dx, bounds.X-anchor.X)
	}
	if edge.movesRight() {
		dx = min(dx, bounds.Right()-anchor.Right())
	}
	if edge.movesTop() {
		dy = max(dy, bounds.Y-anchor.Y)
	}
	if edge.movesBottom() {
		dy = min(dy, bounds.Bottom()-anchor.Bottom())
	}
	return dx, dy
}
