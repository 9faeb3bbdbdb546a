// Package framebuffer implements the TinyBit source framebuffer. It is a
// draw.Image, so the drawing tools of the standard library can be used, and a
// pix.Driver for the embeddedgo display package.
package framebuffer

import (
	"image"
	"image/color"
)

// Framebuffer stores pixels in RGBA4444, two bytes per pixel.
type Framebuffer struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle

	fill RGBA4444
}

func New(r image.Rectangle) *Framebuffer {
	return &Framebuffer{
		Pix:    make([]uint8, r.Dx()*r.Dy()*2),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

func (p *Framebuffer) ColorModel() color.Model { return RGBA4444Model }

func (p *Framebuffer) Bounds() image.Rectangle { return p.Rect }

func (p *Framebuffer) At(x, y int) color.Color {
	return p.RGBA4444At(x, y)
}

func (p *Framebuffer) RGBA4444At(x, y int) RGBA4444 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGBA4444(uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1]))
}

func (p *Framebuffer) Set(x, y int, c color.Color) {
	p.SetRGBA4444(x, y, rgba4444Model(c).(RGBA4444))
}

func (p *Framebuffer) SetRGBA4444(x, y int, c RGBA4444) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = uint8(c >> 8)
	p.Pix[i+1] = uint8(c)
}

func (p *Framebuffer) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Row returns the bytes of row y.
func (p *Framebuffer) Row(y int) []uint8 {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+2*p.Rect.Dx()]
}
