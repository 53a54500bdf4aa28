package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	// MinSize is the smallest width or height a capture rectangle may settle at.
	MinSize = 100
	// MaxSize is the largest width or height a capture rectangle may grow to.
	MaxSize = 4000
	// HandleRadius is the pick distance around corners and edges.
	HandleRadius = 15
)

// ErrOutOfBounds is returned by defensive checks when a rectangle escapes the
// area it was clamped to. It should never reach the user.
var ErrOutOfBounds = errors.New("rectangle outside bounds")

// Point is a position in virtual-desktop coordinates.
type Point struct {
	X int
	Y int
}

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle in virtual-desktop coordinates.
// Right and Bottom are exclusive.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r Rect) String() string {
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", r.X, r.Y, r.Width, r.Height)
}

// FromImage converts an image.Rectangle to a Rect.
func FromImage(ir image.Rectangle) Rect {
	ir = ir.Canon()
	return Rect{X: ir.Min.X, Y: ir.Min.Y, Width: ir.Dx(), Height: ir.Dy()}
}

// Union returns the bounding box of all rects. Empty rects are ignored.
func Union(rects ...Rect) Rect {
	var out Rect
	first := true
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		if first {
			out = r
			first = false
			continue
		}
		left := min(out.X, r.X)
		top := min(out.Y, r.Y)
		right := max(out.Right(), r.Right())
		bottom := max(out.Bottom(), r.Bottom())
		out = Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	}
	return out
}

// ClampToBounds translates r so that it lies inside bounds. It never resizes.
// A rect that is already inside is returned unchanged.
func ClampToBounds(r, bounds Rect) Rect {
	r.X = max(bounds.X, min(r.X, bounds.Right()-r.Width))
	r.Y = max(bounds.Y, min(r.Y, bounds.Bottom()-r.Height))
	return r
}

// CenterIn centers a w×h rectangle inside monitor and keeps it there.
func CenterIn(w, h int, monitor Rect) Rect {
	x := monitor.X + (monitor.Width-w)/2
	y := monitor.Y + (monitor.Height-h)/2
	return ClampToBounds(Rect{X: x, Y: y, Width: w, Height: h}, monitor)
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
