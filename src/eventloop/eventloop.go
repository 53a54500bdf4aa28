package eventloop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"

	"portrait-screenshot/src/capture"
	"portrait-screenshot/src/config"
	"portrait-screenshot/src/overlay"
	"portrait-screenshot/src/region"
	"portrait-screenshot/src/session"
	"portrait-screenshot/src/singleinstance"
)

// ErrBusy is reported when a capture is requested while a session runs.
var ErrBusy = errors.New("Busy, please retry")

// Listener is told about finished captures and user resizes.
type Listener interface {
	CaptureCompleted(res capture.Result)
	DimensionsChanged(width, height int)
}

// StatusSink receives tray tooltip updates.
type StatusSink interface {
	UpdateTooltip(text string)
}

type Deps struct {
	Selector  overlay.Selector
	Settings  *config.Store
	Regions   *region.Memory
	Clipboard func(img image.Image) error
	// Server answers --capture clients. Nil disables delegation.
	Server singleinstance.Server
	// Hotkeys delivers global hotkey presses. May be nil.
	Hotkeys <-chan struct{}
	Status  StatusSink
}

// Loop is the single-threaded coordinator for every capture trigger. Only
// one overlay session runs at a time.
type Loop struct {
	deps     Deps
	busy     atomic.Bool
	manual   chan struct{}
	hotkeyCh <-chan struct{}

	mu             sync.Mutex
	listeners      []Listener
	defaultTooltip string
}

func New(deps Deps) *Loop {
	if deps.Regions == nil {
		deps.Regions = region.New(deps.Settings)
	}
	return &Loop{
		deps:           deps,
		manual:         make(chan struct{}, 1),
		hotkeyCh:       deps.Hotkeys,
		defaultTooltip: "Portrait Screenshot",
	}
}

// SetDefaultTooltip sets the tray tooltip shown while idle.
func (l *Loop) SetDefaultTooltip(tt string) {
	l.mu.Lock()
	l.defaultTooltip = tt
	l.mu.Unlock()
	if l.deps.Status != nil && !l.busy.Load() {
		l.deps.Status.UpdateTooltip(tt)
	}
}

// AddListener registers l for session-end events.
func (l *Loop) AddListener(lis Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, lis)
}

// Busy reports whether a session is running.
func (l *Loop) Busy() bool { return l.busy.Load() }

// RequestCapture asks the loop to start a session, as the tray and settings
// window do. It returns ErrBusy while a session is active or queued.
func (l *Loop) RequestCapture() error {
	if l.busy.Load() {
		return ErrBusy
	}
	select {
	case l.manual <- struct{}{}:
		return nil
	default:
		return ErrBusy
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy.Store(b)
	if l.deps.Status == nil {
		return
	}
	if b {
		l.deps.Status.UpdateTooltip("Portrait Screenshot: capturing...")
		return
	}
	l.mu.Lock()
	tt := l.defaultTooltip
	l.mu.Unlock()
	l.deps.Status.UpdateTooltip(tt)
}

// Run processes capture requests until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	reqCh := make(chan singleinstance.Conn)
	if srv := l.deps.Server; srv != nil {
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Close()
		log.Printf("Resident listening on 127.0.0.1:%d", srv.Port())
		go l.accept(ctx, srv, reqCh)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			log.Printf("handleHotkey: called")
			_, _ = l.runSession(ctx, session.NotifyTarget{})
		case <-l.manual:
			log.Printf("handleManual: called")
			_, _ = l.runSession(ctx, session.NotifyTarget{})
		case conn := <-reqCh:
			log.Printf("handleConn: called")
			_, _ = l.runSession(ctx, session.DelegatedTarget{Conn: conn})
			_ = conn.Close()
		}
	}
}

// accept forwards delegated requests and refuses those that arrive while a
// session is active.
func (l *Loop) accept(ctx context.Context, srv singleinstance.Server, out chan<- singleinstance.Conn) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		if l.busy.Load() {
			log.Printf("handleConn: busy, refusing request")
			_ = conn.RespondError(ErrBusy.Error())
			_ = conn.Close()
			continue
		}
		select {
		case out <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

// CaptureOnce runs a single session outside Run, for one-shot invocations.
func (l *Loop) CaptureOnce(ctx context.Context, target session.ResultTarget) (capture.Result, error) {
	return l.runSession(ctx, target)
}

func (l *Loop) runSession(ctx context.Context, target session.ResultTarget) (capture.Result, error) {
	if !l.busy.CompareAndSwap(false, true) {
		_ = target.OnFailure(ErrBusy)
		return capture.Result{}, ErrBusy
	}
	l.setBusy(true)
	defer func() {
		l.drainHotkeys()
		l.setBusy(false)
	}()

	settings := l.deps.Settings.Get()
	req := overlay.Request{
		Width:    settings.Width,
		Height:   settings.Height,
		Observer: overlay.ObserverFunc(l.dimensionsChanged),
	}
	res, err := session.Execute(ctx, session.Options{
		SelectRegion: func(ctx context.Context) (overlay.Selection, bool, error) {
			return l.deps.Selector.Select(ctx, req)
		},
		Persist: l.persist,
		Target:  target,
	})
	switch {
	case errors.Is(err, session.ErrSelectionCancelled):
		log.Printf("runSession: selection cancelled")
	case err != nil:
		log.Printf("runSession: capture failed: %v", err)
	default:
		log.Printf("runSession: saved %s (%v)", res.Path, res.Rect)
		for _, lis := range l.snapshotListeners() {
			lis.CaptureCompleted(res)
		}
	}
	return res, err
}

// persist writes the selection using the current settings.
func (l *Loop) persist(sel overlay.Selection) (capture.Result, error) {
	s := l.deps.Settings.Get()
	p := capture.Persister{Regions: l.deps.Regions, Clipboard: l.deps.Clipboard}
	res, err := p.Persist(sel.Snapshot, sel.Rect, capture.Options{
		Dir:             s.SaveDir(),
		Prefix:          s.FilePrefix,
		CopyToClipboard: s.CopyToClipboard,
	})
	if err != nil {
		return capture.Result{}, fmt.Errorf("capture %v: %w", sel.Rect, err)
	}
	return res, nil
}

// dimensionsChanged keeps the requested size in step with a manual resize so
// the next session starts from it.
func (l *Loop) dimensionsChanged(w, h int) {
	if err := l.deps.Settings.Update(func(s *config.Settings) { s.SetDimensions(w, h) }); err != nil {
		log.Printf("dimensionsChanged: %v", err)
	}
	for _, lis := range l.snapshotListeners() {
		lis.DimensionsChanged(w, h)
	}
}

// drainHotkeys drops presses buffered while the overlay was open.
func (l *Loop) drainHotkeys() {
	for {
		select {
		case <-l.hotkeyCh:
			log.Printf("drainHotkeys: dropped press received during session")
		default:
			return
		}
	}
}

func (l *Loop) snapshotListeners() []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Listener(nil), l.listeners...)
}
