package region

import (
	"log"
	"sync"

	"portrait-screenshot/src/geometry"
)

// Backend persists one rectangle per aspect mode.
type Backend interface {
	LastRegion(mode geometry.AspectMode) (geometry.Rect, bool)
	SetLastRegion(mode geometry.AspectMode, r geometry.Rect) error
}

// Memory remembers the last confirmed capture rectangle per aspect mode and
// decides whether a remembered rectangle is still usable.
type Memory struct {
	backend Backend
}

// New wraps a persistent backend.
func New(backend Backend) *Memory {
	return &Memory{backend: backend}
}

// NewInMemory returns a Memory that keeps slots in process only.
func NewInMemory() *Memory {
	return New(&memBackend{slots: map[geometry.AspectMode]geometry.Rect{}})
}

// Load returns the stored rectangle for mode when its size equals the
// requested size and it still overlaps one of monitors. The result is
// clamped to bounds.
func (m *Memory) Load(mode geometry.AspectMode, width, height int, bounds geometry.Rect, monitors []geometry.Rect) (geometry.Rect, bool) {
	stored, ok := m.backend.LastRegion(mode)
	if !ok {
		return geometry.Rect{}, false
	}
	if stored.Width != width || stored.Height != height {
		log.Printf("region: stored %s region %v does not match requested %dx%d", mode, stored, width, height)
		return geometry.Rect{}, false
	}
	for _, mon := range monitors {
		if stored.Intersects(mon) {
			return geometry.ClampToBounds(stored, bounds), true
		}
	}
	log.Printf("region: stored %s region %v is off every monitor", mode, stored)
	return geometry.Rect{}, false
}

// Store overwrites the slot for mode.
func (m *Memory) Store(mode geometry.AspectMode, r geometry.Rect) error {
	if err := m.backend.SetLastRegion(mode, r); err != nil {
		return err
	}
	log.Printf("region: saved %s capture region: %v", mode, r)
	return nil
}

// Peek returns the raw stored slot without validation.
func (m *Memory) Peek(mode geometry.AspectMode) (geometry.Rect, bool) {
	return m.backend.LastRegion(mode)
}

type memBackend struct {
	mu    sync.Mutex
	slots map[geometry.AspectMode]geometry.Rect
}

func (b *memBackend) LastRegion(mode geometry.AspectMode) (geometry.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.slots[mode]
	return r, ok
}

func (b *memBackend) SetLastRegion(mode geometry.AspectMode, r geometry.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[mode] = r
	return nil
}
