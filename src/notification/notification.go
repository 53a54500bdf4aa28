package notification

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
)

const appTitle = "Portrait Screenshot"

// Notify shows a desktop notification through the running fyne app. Without
// one the message is only logged.
func Notify(title, message string) {
	log.Printf("notification: %s: %s", title, message)
	a := fyne.CurrentApp()
	if a == nil {
		return
	}
	a.SendNotification(fyne.NewNotification(title, message))
}

// CaptureSaved announces a written screenshot.
func CaptureSaved(path string) {
	Notify(appTitle, fmt.Sprintf("Screenshot saved: %s", filepath.Base(path)))
}

// CaptureFailed reports a failed capture. Persist errors get a dismissible
// dialog on top of the notification.
func CaptureFailed(err error, persist bool) {
	if err == nil {
		err = errors.New("unknown error")
	}
	Notify(appTitle, fmt.Sprintf("Capture failed: %v", err))
	if persist {
		go ShowBlockingError("Save Error", fmt.Sprintf("Failed to save screenshot:\n%v", err))
	}
}
