//go:build windows

package overlay

import (
	"github.com/lxn/win"

	"portrait-screenshot/src/geometry"
)

func systemPointer() (geometry.Point, bool) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(pt.X), Y: int(pt.Y)}, true
}
