package overlay

import (
	"log"

	"portrait-screenshot/src/geometry"
)

// Phase is the interaction state of a capture session.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Resizing
	Confirmed
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Terminal reports whether the session has ended.
func (p Phase) Terminal() bool { return p == Confirmed || p == Cancelled }

// Cursor is the pointer shape a host should show.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorMove
	CursorResizeNWSE
	CursorResizeNESW
	CursorResizeNS
	CursorResizeWE
)

// Observer is told about rectangle size changes made by the user.
type Observer interface {
	OnDimensionsChanged(width, height int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(width, height int)

func (f ObserverFunc) OnDimensionsChanged(width, height int) { f(width, height) }

// Session owns the capture rectangle for one overlay. It is not safe for
// concurrent use; hosts drive it from their UI thread.
type Session struct {
	bounds   geometry.Rect
	rect     geometry.Rect
	phase    Phase
	hover    geometry.HitTarget
	observer Observer

	dragOffset    geometry.Point
	edge          geometry.HitTarget
	anchorRect    geometry.Rect
	anchorPointer geometry.Point
}

// NewSession starts an Idle session over bounds. initial is clamped into bounds.
func NewSession(bounds, initial geometry.Rect, observer Observer) *Session {
	return &Session{
		bounds:   bounds,
		rect:     geometry.ClampToBounds(initial, bounds),
		observer: observer,
	}
}

func (s *Session) Rect() geometry.Rect            { return s.rect }
func (s *Session) Bounds() geometry.Rect          { return s.bounds }
func (s *Session) Phase() Phase                   { return s.phase }
func (s *Session) Hover() geometry.HitTarget      { return s.hover }
func (s *Session) Done() bool                     { return s.phase.Terminal() }
func (s *Session) ResizeEdge() geometry.HitTarget { return s.edge }

// PointerDown handles a primary button press at p.
func (s *Session) PointerDown(p geometry.Point) {
	if s.phase != Idle {
		return
	}
	hit := geometry.ClassifyHit(p, s.rect, geometry.HandleRadius)
	s.hover = hit
	switch {
	case hit.IsHandle():
		s.phase = Resizing
		s.edge = hit
		s.anchorRect = s.rect
		s.anchorPointer = p
	case hit == geometry.HitInside:
		s.phase = Dragging
		s.dragOffset = p.Sub(s.rect.Origin())
	}
}

// PointerMove handles pointer motion and reports whether the rectangle or
// the hover target changed.
func (s *Session) PointerMove(p geometry.Point) bool {
	switch s.phase {
	case Idle:
		hit := geometry.ClassifyHit(p, s.rect, geometry.HandleRadius)
		changed := hit != s.hover
		s.hover = hit
		return changed
	case Dragging:
		next := s.rect
		next.X = p.X - s.dragOffset.X
		next.Y = p.Y - s.dragOffset.Y
		return s.set(geometry.ClampToBounds(next, s.bounds))
	case Resizing:
		dx, dy := p.X-s.anchorPointer.X, p.Y-s.anchorPointer.Y
		dx, dy = geometry.LimitResizeDelta(s.anchorRect, s.edge, dx, dy, s.bounds)
		next, ok := geometry.ResizeFromEdge(s.anchorRect, s.edge, dx, dy)
		if !ok {
			return false
		}
		return s.set(geometry.ClampToBounds(next, s.bounds))
	}
	return false
}

// PointerUp ends a drag or resize.
func (s *Session) PointerUp(p geometry.Point) {
	switch s.phase {
	case Dragging:
		s.phase = Idle
	case Resizing:
		s.phase = Idle
		s.edge = geometry.HitOutside
		if s.rect.Width != s.anchorRect.Width || s.rect.Height != s.anchorRect.Height {
			log.Printf("overlay: resized to %dx%d", s.rect.Width, s.rect.Height)
			if s.observer != nil {
				s.observer.OnDimensionsChanged(s.rect.Width, s.rect.Height)
			}
		}
	default:
		return
	}
	s.hover = geometry.ClassifyHit(p, s.rect, geometry.HandleRadius)
}

// Confirm accepts the rectangle. It only succeeds from Idle.
func (s *Session) Confirm() bool {
	if s.phase != Idle {
		return false
	}
	s.phase = Confirmed
	return true
}

// Cancel ends the session without a result. It succeeds from every
// non-terminal phase.
func (s *Session) Cancel() bool {
	if s.phase.Terminal() {
		return false
	}
	s.phase = Cancelled
	return true
}

// Cursor returns the pointer shape for the current phase and hover target.
func (s *Session) Cursor() Cursor {
	target := s.hover
	switch s.phase {
	case Dragging:
		return CursorMove
	case Resizing:
		target = s.edge
	}
	switch target {
	case geometry.HitTopLeft, geometry.HitBottomRight:
		return CursorResizeNWSE
	case geometry.HitTopRight, geometry.HitBottomLeft:
		return CursorResizeNESW
	case geometry.HitTop, geometry.HitBottom:
		return CursorResizeNS
	case geometry.HitLeft, geometry.HitRight:
		return CursorResizeWE
	case geometry.HitInside:
		return CursorMove
	}
	return CursorArrow
}

func (s *Session) set(r geometry.Rect) bool {
	if r == s.rect {
		return false
	}
	s.rect = r
	return true
}
