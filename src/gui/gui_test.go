package gui

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portrait-screenshot/src/config"
	"portrait-screenshot/src/geometry"
)

func newWindow(t *testing.T, deps Deps) *SettingsWindow {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	if deps.Settings == nil {
		deps.Settings = config.NewMemoryStore(config.DefaultSettings())
	}
	w := NewSettingsWindow(a, deps)
	w.Show()
	return w
}

func TestShowLoadsSettings(t *testing.T) {
	w := newWindow(t, Deps{})

	assert.Equal(t, "608", w.width.Text)
	assert.Equal(t, "1080", w.height.Text)
	assert.Equal(t, config.DefaultHotkey, w.hotkey.Text)
	assert.True(t, w.lock.Checked)
	assert.Equal(t, portraitOption, w.ratio.Selected)
	assert.Equal(t, "Ratio: 9:16 (Portrait - YouTube Shorts/TikTok/Instagram)", w.ratioLabel.Text)
	assert.Equal(t, "No previous capture regions saved", w.regionsLabel.Text)
	assert.Equal(t, "Press CTRL+SHIFT+P to capture\nRuns in system tray when minimized", w.info.Text)
}

func TestLockedWidthDerivesHeight(t *testing.T) {
	store := config.NewMemoryStore(config.DefaultSettings())
	w := newWindow(t, Deps{Settings: store})

	w.width.SetText("7")
	assert.Equal(t, "1080", w.height.Text, "partial input must not touch the height")

	w.width.SetText("720")
	assert.Equal(t, "1280", w.height.Text)
	assert.Equal(t, 608, store.Get().Width, "edits stay in the draft until saved")
}

func TestLockedHeightDerivesWidth(t *testing.T) {
	w := newWindow(t, Deps{})
	w.height.SetText("1600")
	assert.Equal(t, "900", w.width.Text)
}

func TestUnlockedDimensionsAreIndependent(t *testing.T) {
	w := newWindow(t, Deps{})
	w.lock.SetChecked(false)
	assert.True(t, w.ratio.Disabled())

	w.width.SetText("700")
	assert.Equal(t, "1080", w.height.Text)
	assert.Equal(t, "Custom dimensions: 700 × 1080 px (ratio unlocked)", w.ratioLabel.Text)

	w.lock.SetChecked(true)
	assert.Equal(t, "1244", w.height.Text)
}

func TestRatioSwitchAppliesDefaults(t *testing.T) {
	w := newWindow(t, Deps{})
	w.ratio.SetSelected(landscapeOption)

	assert.Equal(t, "1920", w.width.Text)
	assert.Equal(t, "1080", w.height.Text)
	assert.Equal(t, "Ratio: 16:9 (Landscape - YouTube/Standard Video)", w.ratioLabel.Text)
}

func TestSaveCommitsDraft(t *testing.T) {
	store := config.NewMemoryStore(config.DefaultSettings())
	var applied []string
	w := newWindow(t, Deps{Settings: store, ApplyHotkey: func(combo string) error {
		applied = append(applied, combo)
		return nil
	}})

	w.hotkey.SetText("ctrl+alt+s")
	w.prefix.SetText(" shot ")
	w.width.SetText("720")
	w.clipboard.SetChecked(false)
	w.save()

	s := store.Get()
	assert.Equal(t, "ctrl+alt+s", s.Hotkey)
	assert.Equal(t, "shot", s.FilePrefix)
	assert.Equal(t, 720, s.Width)
	assert.Equal(t, 1280, s.Height)
	assert.False(t, s.CopyToClipboard)
	assert.Equal(t, []string{"ctrl+alt+s"}, applied)
}

func TestSaveKeepsHotkeyRegistrationWhenUnchanged(t *testing.T) {
	called := false
	w := newWindow(t, Deps{ApplyHotkey: func(string) error {
		called = true
		return nil
	}})
	w.save()
	assert.False(t, called)
}

func TestSaveRejectedHotkeyPersistsNothing(t *testing.T) {
	store := config.NewMemoryStore(config.DefaultSettings())
	var applied []string
	w := newWindow(t, Deps{Settings: store, ApplyHotkey: func(combo string) error {
		applied = append(applied, combo)
		return errors.New("unknown key")
	}})

	w.hotkey.SetText("ctrl+bogus")
	w.prefix.SetText("other")
	w.save()

	s := store.Get()
	assert.Equal(t, config.DefaultHotkey, s.Hotkey)
	assert.Equal(t, config.DefaultSettings().FilePrefix, s.FilePrefix)
	assert.Equal(t, []string{"ctrl+bogus"}, applied)
}

func TestSaveBlankHotkeyMeansDefault(t *testing.T) {
	called := false
	w := newWindow(t, Deps{ApplyHotkey: func(string) error {
		called = true
		return nil
	}})
	w.hotkey.SetText("  ")
	w.save()
	assert.False(t, called)
}

func TestOverlayResizeUpdatesFields(t *testing.T) {
	w := newWindow(t, Deps{})
	w.setDimensions(700, 1000)

	assert.Equal(t, "700", w.width.Text)
	assert.Equal(t, "1000", w.height.Text)
}

func TestCaptureRefreshesRegions(t *testing.T) {
	store := config.NewMemoryStore(config.DefaultSettings())
	w := newWindow(t, Deps{Settings: store})

	require.NoError(t, store.SetLastRegion(geometry.Portrait, geometry.Rect{X: 656, Y: 0, Width: 608, Height: 1080}))
	w.refreshRegions()
	assert.Equal(t, "Last regions: Portrait (9:16): 608×1080 at (656, 0)", w.regionsLabel.Text)
}

func TestCaptureNow(t *testing.T) {
	calls := 0
	w := newWindow(t, Deps{Capture: func() error {
		calls++
		return nil
	}})
	w.captureNow()
	assert.Equal(t, 1, calls)
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"608", 608, true},
		{" 100 ", 100, true},
		{"4000", 4000, true},
		{"99", 0, false},
		{"4001", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDimension(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
