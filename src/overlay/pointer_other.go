//go:build !windows

package overlay

import (
	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/hotkey"
)

// systemPointer uses the position tracked by the global input hook.
func systemPointer() (geometry.Point, bool) {
	return hotkey.LastPointer()
}
