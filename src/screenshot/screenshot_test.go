package screenshot

import (
	"image"
	"testing"

	"portrait-screenshot/src/geometry"
)

func TestSystemCapture(t *testing.T) {
	// Requires a display; headless runs only log the failure.
	monitors, err := System{}.Monitors()
	if err != nil {
		t.Logf("No monitors (expected in headless environment): %v", err)
		return
	}
	bounds := DesktopBounds(monitors)
	snap, err := System{}.Capture(bounds)
	if err != nil {
		t.Logf("Failed to capture desktop (expected in headless environment): %v", err)
		return
	}
	if snap.Image.Bounds().Dx() != bounds.Width || snap.Image.Bounds().Dy() != bounds.Height {
		t.Errorf("snapshot size %v does not match bounds %v", snap.Image.Bounds(), bounds)
	}
}

func TestCaptureInvalidBounds(t *testing.T) {
	if _, err := (System{}).Capture(geometry.Rect{}); err == nil {
		t.Error("Expected error for empty bounds")
	}
}

func TestMonitorHelpers(t *testing.T) {
	monitors := []Monitor{
		{Index: 0, Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Primary: true},
		{Index: 1, Bounds: geometry.Rect{X: -1280, Y: 100, Width: 1280, Height: 1024}},
	}

	want := geometry.Rect{X: -1280, Y: 0, Width: 3200, Height: 1124}
	if got := DesktopBounds(monitors); got != want {
		t.Errorf("DesktopBounds = %v, want %v", got, want)
	}

	if m, ok := MonitorAt(monitors, geometry.Point{X: -10, Y: 500}); !ok || m.Index != 1 {
		t.Errorf("MonitorAt left = %+v, %v", m, ok)
	}
	if _, ok := MonitorAt(monitors, geometry.Point{X: -10, Y: 10}); ok {
		t.Error("point in the dead corner must not match a monitor")
	}
	if m, _ := Primary(monitors); m.Index != 0 {
		t.Errorf("Primary = %d", m.Index)
	}
}

func TestSnapshotAt(t *testing.T) {
	snap := Snapshot{
		Image:  image.NewRGBA(image.Rect(0, 0, 3200, 1124)),
		Bounds: geometry.Rect{X: -1280, Y: 0, Width: 3200, Height: 1124},
	}
	got := snap.At(geometry.Rect{X: -1000, Y: 50, Width: 608, Height: 1000})
	want := image.Rect(280, 50, 888, 1050)
	if got != want {
		t.Errorf("At = %v, want %v", got, want)
	}
}
