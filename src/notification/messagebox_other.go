//go:build !windows

package notification

import (
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// ShowBlockingError shows an error dialog in a window of its own and returns
// once it is dismissed. Without a running fyne app it only logs. It must not
// be called from the fyne event goroutine.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
	a := fyne.CurrentApp()
	if a == nil {
		return
	}
	closed := make(chan struct{})
	fyne.Do(func() {
		w := a.NewWindow(title)
		w.Resize(fyne.NewSize(420, 160))
		d := dialog.NewError(errors.New(message), w)
		d.SetOnClosed(func() {
			w.Close()
			close(closed)
		})
		w.Show()
		d.Show()
	})
	<-closed
}
