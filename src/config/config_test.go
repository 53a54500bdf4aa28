package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portrait-screenshot/src/geometry"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("HOTKEY", "Ctrl+Alt+S")
	t.Setenv(SettingsFileEnvVar, "/tmp/custom-settings.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.EnableFileLogging)
	assert.Equal(t, "Ctrl+Alt+S", cfg.HotkeyOverride)
	assert.Equal(t, "/tmp/custom-settings.json", cfg.SettingsPath)
}

func TestLoadWithOptionsOverride(t *testing.T) {
	t.Setenv(SettingsFileEnvVar, "/tmp/from-env.json")

	cfg, err := LoadWithOptions(LoadOptions{SettingsPathOverride: "/tmp/from-flag.json", LogFileOverride: "/tmp/x.log"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-flag.json", cfg.SettingsPath)
	assert.Equal(t, "/tmp/x.log", cfg.LogFile)
	assert.True(t, cfg.EnableFileLogging)
}

func TestReadSettingsMissingFile(t *testing.T) {
	s, err := ReadSettings(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, "ctrl+shift+p", s.Hotkey)
	assert.Equal(t, 608, s.Width)
	assert.Equal(t, 1080, s.Height)
}

func TestReadSettingsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := ReadSettings(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Equal(t, DefaultSettings(), s)
}

func TestReadSettingsMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"hotkey":"alt+f9","portrait_width":50,"ratio_mode":"16:9",
	"last_capture_rect_9:16":{"x":10,"y":20,"width":608,"height":1080}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := ReadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "alt+f9", s.Hotkey)
	assert.Equal(t, MinDimension, s.Width, "width is clamped")
	assert.Equal(t, "16:9", s.RatioMode)
	assert.True(t, s.CopyToClipboard, "absent keys keep defaults")

	r, ok := s.LastRegion(geometry.Portrait)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 608, Height: 1080}, r)
	_, ok = s.LastRegion(geometry.Landscape)
	assert.False(t, ok)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	st, err := OpenStore(path)
	require.NoError(t, err)

	require.NoError(t, st.Update(func(s *Settings) {
		s.FilePrefix = "shot"
		s.CopyToClipboard = false
	}))
	want := geometry.Rect{X: 1, Y: 2, Width: 1920, Height: 1080}
	require.NoError(t, st.SetLastRegion(geometry.Landscape, want))

	again, err := OpenStore(path)
	require.NoError(t, err)
	got := again.Get()
	assert.Equal(t, "shot", got.FilePrefix)
	assert.False(t, got.CopyToClipboard)
	r, ok := again.LastRegion(geometry.Landscape)
	require.True(t, ok)
	assert.Equal(t, want, r)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	st := NewMemoryStore(DefaultSettings())
	require.NoError(t, st.SetLastRegion(geometry.Portrait, geometry.Rect{Width: 608, Height: 1080}))

	s := st.Get()
	s.LastPortrait.X = 999
	r, _ := st.LastRegion(geometry.Portrait)
	assert.Equal(t, 0, r.X)
}

func TestDimensionRules(t *testing.T) {
	s := DefaultSettings()

	s.SetWidth(720)
	assert.Equal(t, 1280, s.Height)

	s.SetHeight(1920)
	assert.Equal(t, 1080, s.Width)

	s.SetRatioMode(geometry.Landscape)
	assert.Equal(t, 1920, s.Width)
	assert.Equal(t, 1080, s.Height)

	s.SetWidth(1280)
	assert.Equal(t, 720, s.Height)

	s.SetLockRatio(false)
	s.SetWidth(333)
	assert.Equal(t, 720, s.Height, "unlocked width edit keeps height")
	assert.Equal(t, "Custom dimensions: 333 × 720 px (ratio unlocked)", s.RatioLabel())

	s.SetLockRatio(true)
	assert.Equal(t, 187, s.Height)
}

func TestSetRatioModeKeepsMatchingOrientation(t *testing.T) {
	s := DefaultSettings()
	s.RatioMode = "16:9"
	s.Width, s.Height = 1000, 1200

	s.SetRatioMode(geometry.Portrait)
	assert.Equal(t, 1000, s.Width)
	assert.Equal(t, 1200, s.Height)
	assert.Equal(t, "Ratio: 9:16 (Portrait - YouTube Shorts/TikTok/Instagram)", s.RatioLabel())
}

func TestLastRegionsLabel(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "No previous capture regions saved", s.LastRegionsLabel())

	s.setLastRegion(geometry.Portrait, geometry.Rect{X: 656, Y: 0, Width: 608, Height: 1080})
	assert.Equal(t, "Last regions: Portrait (9:16): 608×1080 at (656, 0)", s.LastRegionsLabel())

	s.setLastRegion(geometry.Landscape, geometry.Rect{X: -10, Y: 5, Width: 1920, Height: 1080})
	assert.Equal(t, "Last regions: Portrait (9:16): 608×1080 at (656, 0) | Landscape (16:9): 1920×1080 at (-10, 5)", s.LastRegionsLabel())
}

func TestSetDimensionsIgnoresLock(t *testing.T) {
	s := DefaultSettings()
	s.SetDimensions(700, 50)
	assert.Equal(t, 700, s.Width)
	assert.Equal(t, MinDimension, s.Height)
	assert.True(t, s.LockRatio)
}

func TestSaveDirExpandsHome(t *testing.T) {
	home := homeDir()
	s := DefaultSettings()
	s.SaveLocation = "~/shots"
	assert.Equal(t, filepath.Join(home, "shots"), s.SaveDir())
	s.SaveLocation = "/abs/path"
	assert.Equal(t, "/abs/path", s.SaveDir())
}
