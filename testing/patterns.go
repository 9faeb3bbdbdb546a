package testing

import (
	"image"
	"math"

	"github.com/tinybit/picobit/framebuffer"
)

// RowIndexPixel returns the pixel at x, y of RowIndexGradient: the row index
// in the red and green nibbles, the low bits of the column in blue.
func RowIndexPixel(x, y int) framebuffer.RGBA4444 {
	return framebuffer.RGBA4444(uint16(y&0xff)<<8 | uint16(x&0xf)<<4 | 0xf)
}

// RowIndexGradient returns a framebuffer whose rows can be identified from any
// of their pixels. Rows beyond 255 wrap.
func RowIndexGradient(w, h int) *framebuffer.Framebuffer {
	fb := framebuffer.New(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fb.SetRGBA4444(x, y, RowIndexPixel(x, y))
		}
	}
	return fb
}

// FrameIndex returns a framebuffer filled with a color derived from i.
func FrameIndex(w, h int, i int) *framebuffer.Framebuffer {
	fb := framebuffer.New(image.Rect(0, 0, w, h))
	FillFrameIndex(fb, i)
	return fb
}

// FillFrameIndex fills fb with the color of frame i.
func FillFrameIndex(fb *framebuffer.Framebuffer, i int) {
	hi, lo := byte(i>>4), byte(i<<4|0xf)
	for j := 0; j < len(fb.Pix); j += 2 {
		fb.Pix[j], fb.Pix[j+1] = hi, lo
	}
}

// Sine returns n samples of a sine tone at the given frequency and amplitude.
func Sine(n int, freq, sampleRate float64, amplitude int16) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(float64(amplitude) * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return s
}
