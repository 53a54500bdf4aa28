package geometry

import "strings"

// AspectMode selects which last-region slot a capture size belongs to.
type AspectMode int

const (
	Landscape AspectMode = iota
	Portrait
)

// ModeOf derives the aspect mode from a capture size.
func ModeOf(width, height int) AspectMode {
	if width < height {
		return Portrait
	}
	return Landscape
}

// String returns the ratio form used in the settings file.
func (m AspectMode) String() string {
	if m == Portrait {
		return "9:16"
	}
	return "16:9"
}

// Label is the human readable mode name.
func (m AspectMode) Label() string {
	if m == Portrait {
		return "Portrait"
	}
	return "Landscape"
}

// ParseAspectMode accepts "9:16", "16:9", "portrait" or "landscape".
// Anything else is Portrait, the application default.
func ParseAspectMode(s string) AspectMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "16:9", "landscape":
		return Landscape
	default:
		return Portrait
	}
}
