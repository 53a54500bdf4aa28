package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/screenshot"
)

const (
	borderWidth = 4
	handleSize  = 10
	labelPad    = 4

	Instructions = "ENTER = Capture | ESC = Cancel | Drag to move | Drag edges/corners to resize"
)

var (
	accent    = color.RGBA{R: 0x93, G: 0x33, B: 0xEA, A: 0xFF}
	shade     = color.RGBA{A: 100}
	labelBack = color.RGBA{R: 0x1F, G: 0x1F, B: 0x1F, A: 0xDD}
)

// DimensionLabel is the size caption drawn above the rectangle.
func DimensionLabel(r geometry.Rect) string {
	return fmt.Sprintf("%d × %d px", r.Width, r.Height)
}

// Renderer composes overlay frames on top of a static desktop snapshot.
type Renderer struct {
	snap   screenshot.Snapshot
	dimmed *image.RGBA
	frame  *image.RGBA
	face   font.Face
}

// NewRenderer precomputes the dimmed background for snap.
func NewRenderer(snap screenshot.Snapshot) *Renderer {
	b := snap.Image.Bounds()
	dimmed := image.NewRGBA(b)
	draw.Draw(dimmed, b, snap.Image, b.Min, draw.Src)
	draw.Draw(dimmed, b, image.NewUniform(shade), image.Point{}, draw.Over)
	return &Renderer{
		snap:   snap,
		dimmed: dimmed,
		frame:  image.NewRGBA(b),
		face:   basicfont.Face7x13,
	}
}

// Render draws s into the renderer's frame buffer and returns it. The frame
// is reused between calls.
func (r *Renderer) Render(s *Session) *image.RGBA {
	f := r.frame
	draw.Draw(f, f.Bounds(), r.dimmed, f.Bounds().Min, draw.Src)

	sel := r.snap.At(s.Rect())
	draw.Draw(f, sel, r.snap.Image, sel.Min, draw.Src)

	r.border(sel)
	r.handles(sel)

	label := DimensionLabel(s.Rect())
	lw, lh := r.textSize(label)
	ly := sel.Min.Y - lh - 2*labelPad - borderWidth
	if ly < f.Bounds().Min.Y {
		ly = sel.Min.Y + borderWidth + labelPad
	}
	r.text(label, image.Pt(sel.Min.X, ly), lw, lh)

	iw, ih := r.textSize(Instructions)
	ix := sel.Min.X + (sel.Dx()-iw)/2
	iy := sel.Max.Y + borderWidth + labelPad
	if iy+ih+2*labelPad > f.Bounds().Max.Y {
		iy = sel.Max.Y - ih - 2*labelPad - borderWidth - labelPad
	}
	ix = max(f.Bounds().Min.X, min(ix, f.Bounds().Max.X-iw-2*labelPad))
	r.text(Instructions, image.Pt(ix, iy), iw, ih)
	return f
}

func (r *Renderer) border(sel image.Rectangle) {
	outer := sel.Inset(-borderWidth / 2)
	inner := sel.Inset(borderWidth / 2)
	src := image.NewUniform(accent)
	for _, band := range []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	} {
		draw.Draw(r.frame, band, src, image.Point{}, draw.Src)
	}
}

func (r *Renderer) handles(sel image.Rectangle) {
	cx, cy := (sel.Min.X+sel.Max.X)/2, (sel.Min.Y+sel.Max.Y)/2
	for _, c := range []image.Point{
		sel.Min, image.Pt(sel.Max.X, sel.Min.Y), image.Pt(sel.Min.X, sel.Max.Y), sel.Max,
	} {
		r.disc(c, handleSize/2+1, color.White)
		r.disc(c, handleSize/2, accent)
	}
	half := handleSize / 2
	for _, c := range []image.Point{
		image.Pt(cx, sel.Min.Y), image.Pt(cx, sel.Max.Y), image.Pt(sel.Min.X, cy), image.Pt(sel.Max.X, cy),
	} {
		sq := image.Rect(c.X-half, c.Y-half, c.X+half, c.Y+half)
		draw.Draw(r.frame, sq, image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(r.frame, sq.Inset(1), image.NewUniform(accent), image.Point{}, draw.Src)
	}
}

func (r *Renderer) disc(c image.Point, radius int, col color.Color) {
	clip := r.frame.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := image.Pt(c.X+dx, c.Y+dy)
			if p.In(clip) {
				r.frame.Set(p.X, p.Y, col)
			}
		}
	}
}

func (r *Renderer) textSize(s string) (int, int) {
	d := font.Drawer{Face: r.face}
	m := r.face.Metrics()
	return d.MeasureString(printable(s)).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// text draws s on a dark box whose top-left corner is at.
func (r *Renderer) text(s string, at image.Point, w, h int) {
	box := image.Rect(at.X, at.Y, at.X+w+2*labelPad, at.Y+h+2*labelPad)
	draw.Draw(r.frame, box, image.NewUniform(labelBack), image.Point{}, draw.Over)
	d := font.Drawer{
		Dst:  r.frame,
		Src:  image.NewUniform(color.White),
		Face: r.face,
		Dot:  fixed.P(at.X+labelPad, at.Y+labelPad+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(printable(s))
}

// printable maps text onto the ASCII glyphs basicfont carries.
func printable(s string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c == '×':
			return 'x'
		case c < 0x20 || c > 0x7e:
			return '?'
		}
		return c
	}, s)
}
