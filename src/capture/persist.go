package capture

import (
	"image"
	"log"
	"path/filepath"
	"time"

	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/screenshot"
)

// Result describes a saved capture.
type Result struct {
	Path string
	Rect geometry.Rect
}

// RegionStore receives the rectangle of every successful capture.
type RegionStore interface {
	Store(mode geometry.AspectMode, r geometry.Rect) error
}

// Options are the per-capture settings.
type Options struct {
	Dir             string
	Prefix          string
	CopyToClipboard bool
}

// Persister crops, writes and records captures.
type Persister struct {
	Regions   RegionStore
	Clipboard func(img image.Image) error
	Now       func() time.Time
}

// Persist crops rect out of snap and writes it under opts.Dir. Region memory
// and the clipboard are only touched once the file is in place.
func (p *Persister) Persist(snap screenshot.Snapshot, rect geometry.Rect, opts Options) (Result, error) {
	img, err := Crop(snap, rect)
	if err != nil {
		return Result{}, err
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	name, err := NextFilename(opts.Dir, opts.Prefix, now())
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(opts.Dir, name)
	if err := WritePNG(path, img); err != nil {
		return Result{}, err
	}

	if p.Regions != nil {
		if err := p.Regions.Store(geometry.ModeOf(rect.Width, rect.Height), rect); err != nil {
			log.Printf("capture: failed to remember region: %v", err)
		}
	}
	if opts.CopyToClipboard && p.Clipboard != nil {
		if err := p.Clipboard(img); err != nil {
			log.Printf("capture: clipboard copy failed: %v", err)
		}
	}
	return Result{Path: path, Rect: rect}, nil
}
