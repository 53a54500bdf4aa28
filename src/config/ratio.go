package config

import (
	"fmt"
	"strings"

	"portrait-screenshot/src/geometry"
)

// Default capture sizes applied when switching to a mode whose orientation
// the current size does not match.
var modeDefaults = map[geometry.AspectMode][2]int{
	geometry.Portrait:  {608, 1080},
	geometry.Landscape: {1920, 1080},
}

func clampDimension(v int) int {
	return max(MinDimension, min(v, MaxDimension))
}

func ratioMode(s *Settings) geometry.AspectMode {
	return geometry.ParseAspectMode(s.RatioMode)
}

// SetWidth changes the width and, when the ratio is locked, derives the height.
func (s *Settings) SetWidth(w int) {
	s.Width = clampDimension(w)
	if !s.LockRatio {
		return
	}
	if ratioMode(s) == geometry.Portrait {
		s.Height = clampDimension(s.Width * 16 / 9)
	} else {
		s.Height = clampDimension(s.Width * 9 / 16)
	}
}

// SetHeight changes the height and, when the ratio is locked, derives the width.
func (s *Settings) SetHeight(h int) {
	s.Height = clampDimension(h)
	if !s.LockRatio {
		return
	}
	if ratioMode(s) == geometry.Portrait {
		s.Width = clampDimension(s.Height * 9 / 16)
	} else {
		s.Width = clampDimension(s.Height * 16 / 9)
	}
}

// SetLockRatio toggles the lock; locking re-derives the height from the width.
func (s *Settings) SetLockRatio(locked bool) {
	s.LockRatio = locked
	if locked {
		s.SetWidth(s.Width)
	}
}

// SetRatioMode switches between 9:16 and 16:9. A size that already has the
// new orientation is kept, otherwise the mode's default size is applied.
func (s *Settings) SetRatioMode(mode geometry.AspectMode) {
	s.RatioMode = mode.String()
	if geometry.ModeOf(s.Width, s.Height) == mode {
		return
	}
	d := modeDefaults[mode]
	s.Width, s.Height = d[0], d[1]
}

// RatioLabel describes the current ratio state for the settings window.
func (s Settings) RatioLabel() string {
	if !s.LockRatio {
		return fmt.Sprintf("Custom dimensions: %d × %d px (ratio unlocked)", s.Width, s.Height)
	}
	if geometry.ParseAspectMode(s.RatioMode) == geometry.Portrait {
		return "Ratio: 9:16 (Portrait - YouTube Shorts/TikTok/Instagram)"
	}
	return "Ratio: 16:9 (Landscape - YouTube/Standard Video)"
}

// SetDimensions stores a size chosen by resizing the capture rectangle. The
// ratio lock is not applied.
func (s *Settings) SetDimensions(w, h int) {
	s.Width = clampDimension(w)
	s.Height = clampDimension(h)
}

// LastRegionsLabel summarizes the remembered capture regions.
func (s Settings) LastRegionsLabel() string {
	var parts []string
	if r, ok := s.LastRegion(geometry.Portrait); ok {
		parts = append(parts, fmt.Sprintf("Portrait (9:16): %d×%d at (%d, %d)", r.Width, r.Height, r.X, r.Y))
	}
	if r, ok := s.LastRegion(geometry.Landscape); ok {
		parts = append(parts, fmt.Sprintf("Landscape (16:9): %d×%d at (%d, %d)", r.Width, r.Height, r.X, r.Y))
	}
	if len(parts) == 0 {
		return "No previous capture regions saved"
	}
	return "Last regions: " + strings.Join(parts, " | ")
}
