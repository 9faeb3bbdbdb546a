package st7789

import "github.com/tinybit/picobit/framebuffer"

// rgb565 converts a pixel stored as R<<4|G, B<<4|A.
func rgb565(hi, lo byte) framebuffer.RGB565 {
	return framebuffer.RGBA4444(uint16(hi)<<8 | uint16(lo)).RGB565()
}
