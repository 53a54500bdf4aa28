package tray

import "log"

// Config describes the tray icon and its menu actions.
type Config struct {
	Title      string
	Tooltip    string
	OnCapture  func()
	OnSettings func()
	OnExit     func()
}

// Tray is the notification-area icon of the resident.
type Tray struct {
	cfg Config
	*impl
}

// New fills defaults into cfg and returns an idle tray. Call Start to show it.
func New(cfg Config) *Tray {
	if cfg.Title == "" {
		cfg.Title = "Portrait Screenshot"
	}
	if cfg.Tooltip == "" {
		cfg.Tooltip = cfg.Title
	}
	t := &Tray{cfg: cfg}
	t.impl = newImpl(t)
	return t
}

// UpdateTooltip implements eventloop.StatusSink.
func (t *Tray) UpdateTooltip(text string) {
	t.setTooltip(text)
}

func (t *Tray) capture() {
	log.Printf("tray: Capture clicked")
	if t.cfg.OnCapture != nil {
		t.cfg.OnCapture()
	}
}

func (t *Tray) settings() {
	log.Printf("tray: Settings clicked")
	if t.cfg.OnSettings != nil {
		t.cfg.OnSettings()
	}
}

func (t *Tray) quit() {
	log.Printf("tray: Quit clicked")
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}
