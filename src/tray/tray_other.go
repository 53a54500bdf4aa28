//go:build !windows

package tray

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

type impl struct {
	t      *Tray
	menu   *fyne.Menu
	status *fyne.MenuItem
}

func newImpl(t *Tray) *impl {
	return &impl{t: t}
}

// Start installs the menu on the fyne system tray. It must run on the fyne
// goroutine or before the app starts.
func (i *impl) Start() {
	desk, ok := fyne.CurrentApp().(desktop.App)
	if !ok {
		log.Printf("tray: system tray not supported by this driver")
		return
	}
	i.status = fyne.NewMenuItem(i.t.cfg.Tooltip, nil)
	i.status.Disabled = true
	i.menu = fyne.NewMenu(i.t.cfg.Title,
		i.status,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Capture Screenshot", i.t.capture),
		fyne.NewMenuItem("Settings", i.t.settings),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", i.t.quit),
	)
	desk.SetSystemTrayMenu(i.menu)
	desk.SetSystemTrayIcon(fyne.NewStaticResource("portrait-screenshot.png", IconPNG()))
}

// Destroy is a no-op; the tray goes away with the app.
func (i *impl) Destroy() {}

func (i *impl) setTooltip(text string) {
	if i.menu == nil {
		return
	}
	fyne.Do(func() {
		i.status.Label = text
		i.menu.Refresh()
	})
}
