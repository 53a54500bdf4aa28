//go:build !windows

package overlay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"portrait-screenshot/src/geometry"
)

var errNoApp = errors.New("overlay requires a running fyne application")

type fyneHost struct {
	deps Deps
}

func newHost(deps Deps) Selector { return &fyneHost{deps: deps} }

// Select shows the composed desktop frame in a full-screen window. The whole
// desktop is scaled into the window, so pointer positions are mapped back to
// desktop coordinates.
func (h *fyneHost) Select(ctx context.Context, req Request) (Selection, bool, error) {
	a := fyne.CurrentApp()
	if a == nil {
		return Selection{}, false, errNoApp
	}
	p, err := prepare(h.deps, req)
	if err != nil {
		return Selection{}, false, fmt.Errorf("failed to prepare overlay: %w", err)
	}

	done := make(chan struct{})
	var surface *overlaySurface
	fyne.DoAndWait(func() {
		w := a.NewWindow("Portrait Screenshot")
		surface = newOverlaySurface(p, w, func() { close(done) })
		w.SetContent(surface)
		w.SetPadded(false)
		w.SetFullScreen(true)
		w.Canvas().SetOnTypedKey(surface.typedKey)
		w.SetCloseIntercept(func() { surface.finish("window closed", p.session.Cancel) })
		w.Show()
		w.RequestFocus()
	})

	select {
	case <-done:
	case <-ctx.Done():
		fyne.DoAndWait(func() { surface.finish("shutdown", p.session.Cancel) })
		<-done
	}
	log.Printf("overlay: session ended %s with %v", p.session.Phase(), p.session.Rect())
	return p.result()
}

// overlaySurface feeds fyne pointer events into the session. All methods run
// on the fyne event goroutine.
type overlaySurface struct {
	widget.BaseWidget

	prep   *prepared
	win    fyne.Window
	image  *canvas.Image
	last   geometry.Point
	ended  sync.Once
	onDone func()
}

var (
	_ desktop.Mouseable  = (*overlaySurface)(nil)
	_ desktop.Hoverable  = (*overlaySurface)(nil)
	_ desktop.Cursorable = (*overlaySurface)(nil)
	_ fyne.Draggable     = (*overlaySurface)(nil)
)

func newOverlaySurface(p *prepared, w fyne.Window, onDone func()) *overlaySurface {
	img := canvas.NewImageFromImage(p.renderer.Render(p.session))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest
	s := &overlaySurface{prep: p, win: w, image: img, onDone: onDone}
	s.ExtendBaseWidget(s)
	return s
}

func (s *overlaySurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

// toDesktop maps a widget position to desktop coordinates.
func (s *overlaySurface) toDesktop(pos fyne.Position) geometry.Point {
	b := s.prep.session.Bounds()
	size := s.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.Point{X: b.X, Y: b.Y}
	}
	return geometry.Point{
		X: b.X + int(pos.X*float32(b.Width)/size.Width),
		Y: b.Y + int(pos.Y*float32(b.Height)/size.Height),
	}
}

func (s *overlaySurface) redraw() {
	s.image.Image = s.prep.renderer.Render(s.prep.session)
	s.image.Refresh()
}

func (s *overlaySurface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	s.last = s.toDesktop(ev.Position)
	s.prep.session.PointerDown(s.last)
	s.redraw()
}

func (s *overlaySurface) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	s.last = s.toDesktop(ev.Position)
	s.prep.session.PointerUp(s.last)
	s.redraw()
}

func (s *overlaySurface) MouseIn(ev *desktop.MouseEvent) { s.MouseMoved(ev) }
func (s *overlaySurface) MouseOut()                     {}

func (s *overlaySurface) MouseMoved(ev *desktop.MouseEvent) {
	s.last = s.toDesktop(ev.Position)
	if s.prep.session.PointerMove(s.last) {
		s.redraw()
	}
}

func (s *overlaySurface) Dragged(ev *fyne.DragEvent) {
	s.last = s.toDesktop(ev.Position)
	if s.prep.session.PointerMove(s.last) {
		s.redraw()
	}
}

func (s *overlaySurface) DragEnd() {
	s.prep.session.PointerUp(s.last)
	s.redraw()
}

func (s *overlaySurface) Cursor() desktop.Cursor {
	switch s.prep.session.Cursor() {
	case CursorMove:
		return desktop.PointerCursor
	case CursorResizeNS:
		return desktop.VResizeCursor
	case CursorResizeWE:
		return desktop.HResizeCursor
	case CursorResizeNWSE, CursorResizeNESW:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (s *overlaySurface) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		if !s.prep.session.Confirm() {
			log.Printf("overlay: confirm ignored while %s", s.prep.session.Phase())
			return
		}
		s.finish("confirmed", nil)
	case fyne.KeyEscape:
		s.finish("escape", s.prep.session.Cancel)
	}
}

// finish applies transition and closes the window once.
func (s *overlaySurface) finish(reason string, transition func() bool) {
	if transition != nil {
		transition()
	}
	s.ended.Do(func() {
		log.Printf("overlay: closing (%s)", reason)
		s.win.Close()
		s.onDone()
	})
}
