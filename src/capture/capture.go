package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/screenshot"
)

var (
	// ErrCaptureIO covers snapshot, crop and encode failures.
	ErrCaptureIO = errors.New("capture failed")
	// ErrPersist covers directory creation and file write failures.
	ErrPersist = errors.New("failed to save screenshot")
)

const timestampLayout = "2006-01-02_15-04-05"

// Crop copies rect out of snap. rect is in desktop coordinates.
func Crop(snap screenshot.Snapshot, rect geometry.Rect) (*image.RGBA, error) {
	if snap.Image == nil {
		return nil, fmt.Errorf("%w: no snapshot", ErrCaptureIO)
	}
	if rect.Empty() || !snap.Bounds.ContainsRect(rect) {
		return nil, fmt.Errorf("%w: %w: %v not within %v", ErrCaptureIO, geometry.ErrOutOfBounds, rect, snap.Bounds)
	}
	src := snap.At(rect)
	out := image.NewRGBA(image.Rect(0, 0, rect.Width, rect.Height))
	draw.Draw(out, out.Bounds(), snap.Image, src.Min, draw.Src)
	return out, nil
}

// NextFilename picks the file name for the next capture in dir. A non-empty
// prefix yields prefix<N>.png with N one past the highest existing number; an
// empty prefix yields a timestamped name.
func NextFilename(dir, prefix string, now time.Time) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "Portrait_" + now.Format(timestampLayout) + ".png", nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `(\d+)\.png$`)
	maxN := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		maxN = max(maxN, n)
	}
	return prefix + strconv.Itoa(maxN+1) + ".png", nil
}

// WritePNG encodes img and writes it to path. The file appears complete or
// not at all.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrCaptureIO, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersist, dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".capture-*.png.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersist, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrPersist, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersist, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", ErrPersist, path, err)
	}
	ok = true
	log.Printf("capture: wrote %s (%d bytes)", path, buf.Len())
	return nil
}
