package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/tinybit/picobit/framebuffer"
)

func halves(w, h int, left, right color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := left
			if x >= w/2 {
				c = right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestConvert(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	blue := color.RGBA{0, 0, 0xff, 0xff}
	tests := map[string]struct {
		src     image.Image
		palette int
		dither  bool
	}{
		"downscale":      {halves(512, 256, red, blue), 0, false},
		"upscale":        {halves(32, 32, red, blue), 0, false},
		"palette":        {halves(300, 300, red, blue), 2, false},
		"palette dither": {halves(300, 300, red, blue), 4, true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fb := convert(tc.src, image.Pt(128, 128), tc.palette, tc.dither)
			if fb.Bounds() != image.Rect(0, 0, 128, 128) {
				t.Fatalf("got bounds %v", fb.Bounds())
			}
			for _, p := range []image.Point{{0, 0}, {10, 127}, {40, 64}} {
				if got := fb.RGBA4444At(p.X, p.Y); got != framebuffer.RGBA4444(0xf00f) {
					t.Fatalf("pixel %v: got %#04x, want red", p, uint16(got))
				}
			}
			for _, p := range []image.Point{{127, 0}, {90, 100}} {
				if got := fb.RGBA4444At(p.X, p.Y); got != framebuffer.RGBA4444(0x00ff) {
					t.Fatalf("pixel %v: got %#04x, want blue", p, uint16(got))
				}
			}
		})
	}
}
