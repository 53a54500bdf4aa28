package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	initMu  sync.Mutex
	ready   bool
)

var ErrUnavailable = errors.New("clipboard unavailable")

// Init prepares the system clipboard. Calling it more than once is harmless.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()
	if ready {
		return nil
	}
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ready = true
	return nil
}

// WriteImage places img on the clipboard as PNG.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}

// WritePNG performs a mutex-guarded clipboard write of already encoded PNG data.
func WritePNG(data []byte) error {
	if err := Init(); err != nil {
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
