package overlay

import (
	"context"
	"fmt"
	"log"

	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/region"
	"portrait-screenshot/src/screenshot"
)

// Request describes the rectangle a capture session starts with.
type Request struct {
	Width    int
	Height   int
	Observer Observer
}

// Selection is the confirmed rectangle plus the still image it was chosen on.
type Selection struct {
	Rect     geometry.Rect
	Snapshot screenshot.Snapshot
}

// Selector runs one modal overlay session. The call blocks until the user
// confirms or cancels, or ctx is done. If cancelled is true the selection is
// undefined and err is nil.
type Selector interface {
	Select(ctx context.Context, req Request) (sel Selection, cancelled bool, err error)
}

// PointerFunc returns the current pointer position in desktop coordinates.
type PointerFunc func() (geometry.Point, bool)

// Deps are the collaborators an overlay host needs.
type Deps struct {
	Desktop screenshot.Desktop
	Regions *region.Memory
	Pointer PointerFunc
}

// NewSelector returns the platform implementation.
func NewSelector(deps Deps) Selector {
	if deps.Desktop == nil {
		deps.Desktop = screenshot.System{}
	}
	if deps.Regions == nil {
		deps.Regions = region.NewInMemory()
	}
	if deps.Pointer == nil {
		deps.Pointer = systemPointer
	}
	return newHost(deps)
}

// Seed picks the starting rectangle: the remembered one for the requested
// size when still usable, otherwise a rectangle centered on the monitor under
// the pointer (or the primary monitor).
func Seed(mem *region.Memory, width, height int, monitors []screenshot.Monitor, pointer PointerFunc) geometry.Rect {
	bounds := screenshot.DesktopBounds(monitors)
	mode := geometry.ModeOf(width, height)
	if mem != nil {
		if r, ok := mem.Load(mode, width, height, bounds, screenshot.Rects(monitors)); ok {
			log.Printf("overlay: using remembered %s region %v", mode, r)
			return r
		}
	}

	target, ok := screenshot.Primary(monitors)
	if pointer != nil {
		if p, found := pointer(); found {
			if m, hit := screenshot.MonitorAt(monitors, p); hit {
				target, ok = m, true
			}
		}
	}
	if !ok {
		return geometry.ClampToBounds(geometry.Rect{Width: width, Height: height}, bounds)
	}
	return geometry.ClampToBounds(geometry.CenterIn(width, height, target.Bounds), bounds)
}

// prepared is everything a host needs to show an overlay.
type prepared struct {
	snapshot screenshot.Snapshot
	session  *Session
	renderer *Renderer
}

func prepare(deps Deps, req Request) (*prepared, error) {
	if req.Width < geometry.MinSize || req.Height < geometry.MinSize {
		return nil, fmt.Errorf("requested size %dx%d is below the %dpx minimum", req.Width, req.Height, geometry.MinSize)
	}
	monitors, err := deps.Desktop.Monitors()
	if err != nil {
		return nil, err
	}
	bounds := screenshot.DesktopBounds(monitors)
	snap, err := deps.Desktop.Capture(bounds)
	if err != nil {
		return nil, err
	}
	width, height := min(req.Width, bounds.Width), min(req.Height, bounds.Height)
	initial := Seed(deps.Regions, width, height, monitors, deps.Pointer)
	log.Printf("overlay: desktop %v, %d monitor(s), initial %v", bounds, len(monitors), initial)
	return &prepared{
		snapshot: snap,
		session:  NewSession(bounds, initial, req.Observer),
		renderer: NewRenderer(snap),
	}, nil
}

// result turns a finished session into Select return values.
func (p *prepared) result() (Selection, bool, error) {
	if p.session.Phase() != Confirmed {
		return Selection{}, true, nil
	}
	return Selection{Rect: p.session.Rect(), Snapshot: p.snapshot}, false, nil
}
