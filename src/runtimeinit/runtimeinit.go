package runtimeinit

import (
	"fmt"
	"log"

	"portrait-screenshot/src/clipboard"
	"portrait-screenshot/src/config"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(enable bool, path string)
}

// Runtime is what both the resident and one-shot modes start from.
type Runtime struct {
	Config   *config.Config
	Settings *config.Store
	// ClipboardReady is false when the system clipboard could not be opened;
	// captures still save, only the copy is skipped.
	ClipboardReady bool
}

// Hotkey returns the combination to register, honoring the HOTKEY override.
func (r *Runtime) Hotkey() string {
	if r.Config.HotkeyOverride != "" {
		return r.Config.HotkeyOverride
	}
	return r.Settings.Get().Hotkey
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging, cfg.LogFile)
	}

	// A corrupt settings file is logged by OpenStore and replaced by defaults.
	store, _ := config.OpenStore(cfg.SettingsPath)
	log.Printf("Settings: %s", cfg.SettingsPath)

	rt := &Runtime{Config: cfg, Settings: store, ClipboardReady: true}
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard disabled: %v", err)
		rt.ClipboardReady = false
	}
	return rt, nil
}
