package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"portrait-screenshot/src/geometry"
)

const (
	DefaultHotkey = "ctrl+shift+p"
	MinDimension  = geometry.MinSize
	MaxDimension  = geometry.MaxSize
)

// Settings is the user-editable state persisted between runs.
type Settings struct {
	Hotkey          string         `json:"hotkey"`
	SaveLocation    string         `json:"save_location"`
	FilePrefix      string         `json:"file_prefix"`
	Width           int            `json:"portrait_width"`
	Height          int            `json:"portrait_height"`
	LockRatio       bool           `json:"lock_ratio"`
	RatioMode       string         `json:"ratio_mode"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	LastPortrait    *geometry.Rect `json:"last_capture_rect_9:16,omitempty"`
	LastLandscape   *geometry.Rect `json:"last_capture_rect_16:9,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Hotkey:          DefaultHotkey,
		SaveLocation:    filepath.Join(homeDir(), "Screenshots"),
		Width:           608,
		Height:          1080,
		LockRatio:       true,
		RatioMode:       geometry.Portrait.String(),
		CopyToClipboard: true,
	}
}

// Validate normalizes values into safe ranges.
func (s *Settings) Validate() {
	if strings.TrimSpace(s.Hotkey) == "" {
		s.Hotkey = DefaultHotkey
	}
	if strings.TrimSpace(s.SaveLocation) == "" {
		s.SaveLocation = DefaultSettings().SaveLocation
	}
	s.RatioMode = geometry.ParseAspectMode(s.RatioMode).String()
	s.Width = clampDimension(s.Width)
	s.Height = clampDimension(s.Height)
}

// SaveDir returns SaveLocation with a leading ~ expanded.
func (s Settings) SaveDir() string {
	loc := strings.TrimSpace(s.SaveLocation)
	if loc == "~" {
		return homeDir()
	}
	if strings.HasPrefix(loc, "~/") || strings.HasPrefix(loc, `~\`) {
		return filepath.Join(homeDir(), loc[2:])
	}
	return loc
}

// Mode is the aspect mode implied by the configured width and height.
func (s Settings) Mode() geometry.AspectMode {
	return geometry.ModeOf(s.Width, s.Height)
}

// LastRegion returns the stored slot for mode.
func (s Settings) LastRegion(mode geometry.AspectMode) (geometry.Rect, bool) {
	slot := s.LastPortrait
	if mode == geometry.Landscape {
		slot = s.LastLandscape
	}
	if slot == nil {
		return geometry.Rect{}, false
	}
	return *slot, true
}

func (s *Settings) setLastRegion(mode geometry.AspectMode, r geometry.Rect) {
	if mode == geometry.Landscape {
		s.LastLandscape = &r
		return
	}
	s.LastPortrait = &r
}

func (s Settings) clone() Settings {
	out := s
	if s.LastPortrait != nil {
		r := *s.LastPortrait
		out.LastPortrait = &r
	}
	if s.LastLandscape != nil {
		r := *s.LastLandscape
		out.LastLandscape = &r
	}
	return out
}

// ReadSettings loads settings from path. A missing file yields defaults and
// no error. An unreadable or corrupt file yields defaults and an ErrConfig.
func ReadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	s.Validate()
	return s, nil
}

// WriteSettings writes s to path as indented JSON, replacing the file in one step.
func WriteSettings(path string, s Settings) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Store is the shared, mutex-guarded owner of the settings file.
type Store struct {
	mu       sync.Mutex
	path     string
	settings Settings
}

// OpenStore reads path into a new Store. Config errors are logged and the
// store starts from defaults; the error is still returned for callers that
// want to surface it.
func OpenStore(path string) (*Store, error) {
	s, err := ReadSettings(path)
	if err != nil {
		log.Printf("config: %v; using defaults", err)
	}
	return &Store{path: path, settings: s}, err
}

// NewMemoryStore returns a Store that never touches the disk.
func NewMemoryStore(s Settings) *Store {
	s.Validate()
	return &Store{settings: s}
}

func (st *Store) Path() string { return st.path }

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings.clone()
}

// Update applies fn to the settings, validates and persists them.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.settings.clone()
	fn(&next)
	next.Validate()
	st.settings = next
	return st.saveLocked()
}

// LastRegion implements region.Backend.
func (st *Store) LastRegion(mode geometry.AspectMode) (geometry.Rect, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings.LastRegion(mode)
}

// SetLastRegion implements region.Backend.
func (st *Store) SetLastRegion(mode geometry.AspectMode, r geometry.Rect) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings.setLastRegion(mode, r)
	return st.saveLocked()
}

func (st *Store) saveLocked() error {
	if st.path == "" {
		return nil
	}
	if err := WriteSettings(st.path, st.settings); err != nil {
		return fmt.Errorf("save settings %s: %w", st.path, err)
	}
	return nil
}
