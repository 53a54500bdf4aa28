package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPNGDecodes(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(IconPNG()))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())
	assert.Equal(t, iconSize, img.Bounds().Dy())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "corner must stay transparent")
	r, g, b, _ := img.At(15, 3).RGBA()
	assert.Equal(t, [3]uint32{0x93, 0x33, 0xEA}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestIconICOHeader(t *testing.T) {
	ico := IconICO()
	pngData := IconPNG()
	require.Len(t, ico, 22+len(pngData))

	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[2:4]), "type")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[4:6]), "count")
	assert.Equal(t, uint32(len(pngData)), binary.LittleEndian.Uint32(ico[14:18]))
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(ico[18:22]))
	assert.Equal(t, pngData, ico[22:])
}

func TestTrayCallbacks(t *testing.T) {
	var got []string
	tr := New(Config{
		OnCapture:  func() { got = append(got, "capture") },
		OnSettings: func() { got = append(got, "settings") },
		OnExit:     func() { got = append(got, "quit") },
	})
	require.NotNil(t, tr.impl)
	assert.Equal(t, "Portrait Screenshot", tr.cfg.Tooltip)

	tr.capture()
	tr.settings()
	tr.quit()
	assert.Equal(t, []string{"capture", "settings", "quit"}, got)
}

func TestNewKeepsExplicitTooltip(t *testing.T) {
	tr := New(Config{Title: "Shots", Tooltip: "Idle - Ctrl+Alt+P"})
	require.NotNil(t, tr.impl)
	assert.Equal(t, "Shots", tr.cfg.Title)
	assert.Equal(t, "Idle - Ctrl+Alt+P", tr.cfg.Tooltip)
}
