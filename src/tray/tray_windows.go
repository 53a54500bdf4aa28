//go:build windows

package tray

import (
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

type impl struct {
	t     *Tray
	ready chan struct{}
	once  sync.Once
}

func newImpl(t *Tray) *impl {
	return &impl{t: t, ready: make(chan struct{})}
}

// Start runs the systray message loop on its own locked thread.
func (i *impl) Start() {
	go func() {
		runtime.LockOSThread()
		systray.Run(i.onReady, func() {})
	}()
}

// Destroy removes the icon.
func (i *impl) Destroy() {
	i.once.Do(systray.Quit)
}

func (i *impl) setTooltip(text string) {
	select {
	case <-i.ready:
		systray.SetTooltip(text)
	default:
	}
}

func (i *impl) onReady() {
	cfg := i.t.cfg
	systray.SetIcon(IconICO())
	systray.SetTitle(cfg.Title)
	systray.SetTooltip(cfg.Tooltip)

	mCapture := systray.AddMenuItem("Capture Screenshot", "Select a region to capture")
	mSettings := systray.AddMenuItem("Settings", "Open the settings window")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit Portrait Screenshot")
	close(i.ready)

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				i.t.capture()
			case <-mSettings.ClickedCh:
				i.t.settings()
			case <-mQuit.ClickedCh:
				i.t.quit()
				return
			}
		}
	}()
}
