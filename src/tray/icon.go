package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
)

const iconSize = 32

var accent = color.RGBA{R: 0x93, G: 0x33, B: 0xEA, A: 0xFF}

// IconPNG returns the tray and window icon: a portrait frame with corner
// handles.
var IconPNG = sync.OnceValue(func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, drawIcon()); err != nil {
		return nil
	}
	return buf.Bytes()
})

// IconICO wraps IconPNG in a single-entry ICO container, which is what the
// Windows notification area loads.
var IconICO = sync.OnceValue(func() []byte {
	data := IconPNG()
	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{iconSize, iconSize, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(data)), 6 + 16})
	buf.Write(data)
	return buf.Bytes()
})

func drawIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	frame := image.Rect(9, 3, 23, 29)
	fill := image.NewUniform(color.NRGBA{R: 0x93, G: 0x33, B: 0xEA, A: 0x40})
	draw.Draw(img, frame, fill, image.Point{}, draw.Over)

	line := image.NewUniform(accent)
	for _, r := range []image.Rectangle{
		image.Rect(frame.Min.X, frame.Min.Y, frame.Max.X, frame.Min.Y+2),
		image.Rect(frame.Min.X, frame.Max.Y-2, frame.Max.X, frame.Max.Y),
		image.Rect(frame.Min.X, frame.Min.Y, frame.Min.X+2, frame.Max.Y),
		image.Rect(frame.Max.X-2, frame.Min.Y, frame.Max.X, frame.Max.Y),
	} {
		draw.Draw(img, r, line, image.Point{}, draw.Src)
	}
	for _, c := range []image.Point{frame.Min, {frame.Max.X, frame.Min.Y}, {frame.Min.X, frame.Max.Y}, frame.Max} {
		draw.Draw(img, image.Rect(c.X-3, c.Y-3, c.X+3, c.Y+3).Intersect(img.Bounds()), line, image.Point{}, draw.Src)
	}
	return img
}
