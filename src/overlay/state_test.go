package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portrait-screenshot/src/geometry"
)

var desktop1080 = geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

type recordingObserver struct {
	calls [][2]int
}

func (r *recordingObserver) OnDimensionsChanged(w, h int) {
	r.calls = append(r.calls, [2]int{w, h})
}

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

func TestDragMovesAndClamps(t *testing.T) {
	s := NewSession(desktop1080, geometry.Rect{X: 100, Y: 100, Width: 300, Height: 300}, nil)

	s.PointerDown(pt(200, 200))
	require.Equal(t, Dragging, s.Phase())

	assert.True(t, s.PointerMove(pt(250, 220)))
	assert.Equal(t, geometry.Rect{X: 150, Y: 120, Width: 300, Height: 300}, s.Rect())

	s.PointerMove(pt(2250, 220))
	assert.Equal(t, 1620, s.Rect().X, "clamped to the right edge")

	s.PointerUp(pt(2250, 220))
	assert.Equal(t, Idle, s.Phase())
}

func TestResizeBelowMinimumSticks(t *testing.T) {
	obs := &recordingObserver{}
	s := NewSession(desktop1080, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, obs)

	s.PointerDown(pt(300, 300))
	require.Equal(t, Resizing, s.Phase())
	require.Equal(t, geometry.HitBottomRight, s.ResizeEdge())

	s.PointerMove(pt(250, 300))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 150, Height: 200}, s.Rect())

	// total delta (-150, 0) would leave 50px: keep the last valid rect
	assert.False(t, s.PointerMove(pt(150, 300)))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 150, Height: 200}, s.Rect())

	s.PointerUp(pt(150, 300))
	assert.Equal(t, Idle, s.Phase())
	assert.Equal(t, [][2]int{{150, 200}}, obs.calls)
}

func TestResizeStopsAtMaxSize(t *testing.T) {
	wide := geometry.Rect{X: 0, Y: 0, Width: 7680, Height: 4320}
	obs := &recordingObserver{}
	s := NewSession(wide, geometry.Rect{X: 100, Y: 100, Width: 3000, Height: 2000}, obs)

	s.PointerDown(pt(3100, 1100))
	require.Equal(t, geometry.HitRight, s.ResizeEdge())
	assert.True(t, s.PointerMove(pt(6000, 1100)))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: geometry.MaxSize, Height: 2000}, s.Rect())

	s.PointerUp(pt(6000, 1100))
	assert.Equal(t, [][2]int{{geometry.MaxSize, 2000}}, obs.calls)
}

func TestResizeStopsAtDesktopEdge(t *testing.T) {
	s := NewSession(desktop1080, geometry.Rect{X: 1500, Y: 100, Width: 300, Height: 300}, nil)

	s.PointerDown(pt(1800, 250))
	require.Equal(t, geometry.HitRight, s.ResizeEdge())

	s.PointerMove(pt(2500, 250))
	assert.Equal(t, geometry.Rect{X: 1500, Y: 100, Width: 420, Height: 300}, s.Rect())
	assert.True(t, desktop1080.ContainsRect(s.Rect()))
}

func TestResizeWithoutSizeChangeDoesNotNotify(t *testing.T) {
	obs := &recordingObserver{}
	s := NewSession(desktop1080, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, obs)
	s.PointerDown(pt(100, 200))
	require.Equal(t, Resizing, s.Phase())
	s.PointerUp(pt(100, 200))
	assert.Empty(t, obs.calls)
}

func TestPointerDownOutsideStaysIdle(t *testing.T) {
	s := NewSession(desktop1080, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, nil)
	s.PointerDown(pt(900, 900))
	assert.Equal(t, Idle, s.Phase())
	assert.False(t, s.PointerMove(pt(901, 900)))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, s.Rect())
}

func TestIdleMoveOnlyUpdatesHover(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	s := NewSession(desktop1080, start, nil)

	assert.True(t, s.PointerMove(pt(200, 200)))
	assert.Equal(t, geometry.HitInside, s.Hover())
	assert.Equal(t, CursorMove, s.Cursor())

	s.PointerMove(pt(100, 100))
	assert.Equal(t, CursorResizeNWSE, s.Cursor())
	s.PointerMove(pt(300, 100))
	assert.Equal(t, CursorResizeNESW, s.Cursor())
	s.PointerMove(pt(200, 300))
	assert.Equal(t, CursorResizeNS, s.Cursor())
	s.PointerMove(pt(300, 200))
	assert.Equal(t, CursorResizeWE, s.Cursor())
	s.PointerMove(pt(800, 800))
	assert.Equal(t, CursorArrow, s.Cursor())

	assert.Equal(t, start, s.Rect())
}

func TestConfirmOnlyFromIdle(t *testing.T) {
	s := NewSession(desktop1080, geometry.Rect{X: 100, Y: 100, Width: 300, Height: 300}, nil)
	s.PointerDown(pt(200, 200))
	assert.False(t, s.Confirm())
	assert.Equal(t, Dragging, s.Phase())

	s.PointerUp(pt(200, 200))
	assert.True(t, s.Confirm())
	assert.Equal(t, Confirmed, s.Phase())
	assert.True(t, s.Done())
}

func TestCancelFromEveryPhase(t *testing.T) {
	rect := geometry.Rect{X: 100, Y: 100, Width: 300, Height: 300}
	tests := []struct {
		name  string
		setup func(s *Session)
	}{
		{"idle", func(*Session) {}},
		{"dragging", func(s *Session) { s.PointerDown(pt(250, 250)) }},
		{"resizing", func(s *Session) { s.PointerDown(pt(400, 400)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(desktop1080, rect, nil)
			tt.setup(s)
			assert.True(t, s.Cancel())
			assert.Equal(t, Cancelled, s.Phase())
		})
	}
}

func TestTerminalIgnoresInput(t *testing.T) {
	rect := geometry.Rect{X: 100, Y: 100, Width: 300, Height: 300}
	s := NewSession(desktop1080, rect, nil)
	require.True(t, s.Cancel())

	s.PointerDown(pt(200, 200))
	s.PointerMove(pt(500, 500))
	s.PointerUp(pt(500, 500))
	assert.False(t, s.Confirm())
	assert.False(t, s.Cancel())
	assert.Equal(t, Cancelled, s.Phase())
	assert.Equal(t, rect, s.Rect())
}

func TestNewSessionClampsInitial(t *testing.T) {
	s := NewSession(desktop1080, geometry.Rect{X: 1800, Y: -50, Width: 608, Height: 1080}, nil)
	assert.Equal(t, geometry.Rect{X: 1312, Y: 0, Width: 608, Height: 1080}, s.Rect())
}

func TestNegativeOriginDesktop(t *testing.T) {
	bounds := geometry.Rect{X: -1920, Y: 0, Width: 3840, Height: 1080}
	s := NewSession(bounds, geometry.Rect{X: -1000, Y: 100, Width: 400, Height: 400}, nil)
	s.PointerDown(pt(-800, 300))
	s.PointerMove(pt(-5000, 300))
	assert.Equal(t, -1920, s.Rect().X)
}
