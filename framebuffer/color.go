package framebuffer

import "image/color"

// RGBA4444 is the pixel format of the TinyBit framebuffer: 4 bits per channel,
// red in the most significant nibble. In memory it is stored big-endian, i.e.
// the first byte holds red and green, the second blue and alpha.
type RGBA4444 uint16

// RGBA implements color.Color. Alpha is premultiplied as required by the
// interface, the stored channels are not.
func (c RGBA4444) RGBA() (r, g, b, a uint32) {
	a = uint32(c&0xf) * 0x1111
	r = uint32(c>>12) * 0x1111 * a / 0xffff
	g = uint32(c>>8&0xf) * 0x1111 * a / 0xffff
	b = uint32(c>>4&0xf) * 0x1111 * a / 0xffff
	return
}

// RGB565 converts c to the panel's pixel format and drops alpha. Each 4 bit
// channel is widened by replicating its top bits, so 0x0 and 0xf map to the
// ends of the target range.
func (c RGBA4444) RGB565() RGB565 {
	r := uint16(c >> 12)
	g := uint16(c>>8) & 0xf
	b := uint16(c>>4) & 0xf
	return RGB565((r<<1|r>>3)<<11 | (g<<2|g>>2)<<5 | (b<<1 | b>>3))
}

var RGBA4444Model color.Model = color.ModelFunc(rgba4444Model)

func rgba4444Model(c color.Color) color.Color {
	if _, ok := c.(RGBA4444); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBA4444(0)
	}
	if a != 0xffff {
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	return RGBA4444((r>>12)<<12 | (g>>12)<<8 | (b>>12)<<4 | a>>12)
}

// RGB565 is the pixel format of the ST7789 panel.
type RGB565 uint16

func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c >> 11)
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	r = r5<<11 | r5<<6 | r5<<1 | r5>>4
	g = g6<<10 | g6<<4 | g6>>2
	b = b5<<11 | b5<<6 | b5<<1 | b5>>4
	return r, g, b, 0xffff
}
