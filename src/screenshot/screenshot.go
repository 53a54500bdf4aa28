package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/kbinani/screenshot"

	"portrait-screenshot/src/geometry"
)

var ErrNoDisplays = errors.New("no active displays found")

// Monitor is one active display in virtual-desktop coordinates.
type Monitor struct {
	Index   int
	Bounds  geometry.Rect
	Primary bool
}

// Snapshot is a still image of the whole desktop. Image pixel (0,0)
// corresponds to Bounds.X, Bounds.Y on the desktop.
type Snapshot struct {
	Image  *image.RGBA
	Bounds geometry.Rect
}

// At translates a desktop rectangle into snapshot image coordinates.
func (s Snapshot) At(r geometry.Rect) image.Rectangle {
	min := s.Image.Bounds().Min
	return image.Rect(
		r.X-s.Bounds.X+min.X,
		r.Y-s.Bounds.Y+min.Y,
		r.Right()-s.Bounds.X+min.X,
		r.Bottom()-s.Bounds.Y+min.Y,
	)
}

// Desktop enumerates monitors and grabs desktop pixels.
type Desktop interface {
	Monitors() ([]Monitor, error)
	Capture(bounds geometry.Rect) (Snapshot, error)
}

// System is the Desktop backed by the operating system.
type System struct{}

// Monitors returns all active displays. Display 0 is the primary one.
func (System) Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplays
	}
	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, Monitor{
			Index:   i,
			Bounds:  geometry.FromImage(screenshot.GetDisplayBounds(i)),
			Primary: i == 0,
		})
	}
	return monitors, nil
}

// Capture grabs bounds, usually the union of all monitors. Areas that no
// monitor covers stay black.
func (System) Capture(bounds geometry.Rect) (Snapshot, error) {
	if bounds.Empty() {
		return Snapshot{}, fmt.Errorf("invalid capture bounds: %v", bounds)
	}
	img, err := screenshot.CaptureRect(bounds.Image())
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to capture desktop: %w", err)
	}
	if img.Bounds().Dx() != bounds.Width || img.Bounds().Dy() != bounds.Height {
		// Some backends return a smaller image when part of the union has no
		// monitor behind it.
		full := image.NewRGBA(image.Rect(0, 0, bounds.Width, bounds.Height))
		draw.Draw(full, full.Bounds(), image.Black, image.Point{}, draw.Src)
		draw.Draw(full, img.Bounds().Sub(img.Bounds().Min), img, img.Bounds().Min, draw.Src)
		img = full
	}
	return Snapshot{Image: img, Bounds: bounds}, nil
}

// DesktopBounds returns the union of all monitor bounds.
func DesktopBounds(monitors []Monitor) geometry.Rect {
	rects := make([]geometry.Rect, len(monitors))
	for i, m := range monitors {
		rects[i] = m.Bounds
	}
	return geometry.Union(rects...)
}

// Rects returns the monitor bounds only.
func Rects(monitors []Monitor) []geometry.Rect {
	rects := make([]geometry.Rect, len(monitors))
	for i, m := range monitors {
		rects[i] = m.Bounds
	}
	return rects
}

// Primary returns the primary monitor, or the first one.
func Primary(monitors []Monitor) (Monitor, bool) {
	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	if len(monitors) > 0 {
		return monitors[0], true
	}
	return Monitor{}, false
}

// MonitorAt returns the monitor containing p.
func MonitorAt(monitors []Monitor, p geometry.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}
