package framebuffer

import (
	"image"
	"image/color"
	"image/draw"
)

func (p *Framebuffer) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	if u, ok := src.(*image.Uniform); ok && mask == nil {
		if c, ok := rgba4444Model(u.C).(RGBA4444); ok && (op == draw.Src || c&0xf == 0xf) {
			p.fillRect(r, c)
			return
		}
	}
	draw.DrawMask(p, r, src, sp, mask, mp, op)
}

func (p *Framebuffer) Fill(r image.Rectangle) {
	if p.fill&0xf == 0xf {
		p.fillRect(r, p.fill)
		return
	}
	draw.Draw(p, r, image.NewUniform(p.fill), image.Point{}, draw.Over)
}

func (p *Framebuffer) fillRect(r image.Rectangle, c RGBA4444) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}
	hi, lo := uint8(c>>8), uint8(c)
	row := p.Pix[p.PixOffset(r.Min.X, r.Min.Y):][:2*r.Dx()]
	for i := 0; i < len(row); i += 2 {
		row[i], row[i+1] = hi, lo
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(p.Pix[p.PixOffset(r.Min.X, y):], row)
	}
}

func (p *Framebuffer) SetColor(c color.Color) {
	p.fill = rgba4444Model(c).(RGBA4444)
}

func (p *Framebuffer) SetDir(dir int) image.Rectangle {
	return p.Rect
}

// Flush is a no-op, the framebuffer is handed to the display with
// display.RenderFrame.
func (p *Framebuffer) Flush() {}

func (p *Framebuffer) Err(clear bool) error {
	return nil
}
