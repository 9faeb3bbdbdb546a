package framebuffer_test

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/tinybit/picobit/framebuffer"
)

func TestRGB565(t *testing.T) {
	tests := map[string]struct {
		in   framebuffer.RGBA4444
		want framebuffer.RGB565
	}{
		"white":             {0xfff0, 0xffff},
		"white opaque":      {0xffff, 0xffff},
		"black":             {0x000f, 0x0000},
		"red":               {0xf00f, 0xf800},
		"green":             {0x0f0f, 0x07e0},
		"blue":              {0x00ff, 0x001f},
		"mid gray":          {0x888f, 0x8c51},
		"alpha is ignored":  {0x1230, 0x1106},
		"lowest red nibble": {0x100f, 0x1000},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.in.RGB565(); got != tc.want {
				t.Fatalf("RGBA4444(%#04x).RGB565() = %#04x, want %#04x", uint16(tc.in), uint16(got), uint16(tc.want))
			}
		})
	}
}

// TestRGB565Exhaustive checks all channel combinations against the bit
// replication formula and that every channel keeps its nibble in the high bits.
func TestRGB565Exhaustive(t *testing.T) {
	for rgb := uint16(0); rgb < 1<<12; rgb++ {
		r, g, b := rgb>>8, rgb>>4&0xf, rgb&0xf
		for _, a := range []uint16{0, 7, 0xf} {
			c := framebuffer.RGBA4444(rgb<<4 | a)
			got := uint16(c.RGB565())
			r5, g6, b5 := got>>11, got>>5&0x3f, got&0x1f
			if r5 != r<<1|r>>3 || g6 != g<<2|g>>2 || b5 != b<<1|b>>3 {
				t.Fatalf("%#04x converted to %#04x", uint16(c), got)
			}
			if r5>>1 != r || g6>>2 != g || b5>>1 != b {
				t.Fatalf("%#04x: nibbles not in the high bits of %#04x", uint16(c), got)
			}
		}
	}
}

func TestModel(t *testing.T) {
	tests := map[string]struct {
		in   color.Color
		want framebuffer.RGBA4444
	}{
		"white":       {color.White, 0xffff},
		"black":       {color.Black, 0x000f},
		"transparent": {color.Transparent, 0x0000},
		"red":         {color.RGBA{0xff, 0, 0, 0xff}, 0xf00f},
		"half red":    {color.RGBA{0x88, 0, 0, 0x88}, 0xf008},
		"nrgba":       {color.NRGBA{0x11, 0x22, 0x33, 0xff}, 0x123f},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := framebuffer.RGBA4444Model.Convert(tc.in).(framebuffer.RGBA4444)
			if got != tc.want {
				t.Fatalf("got %#04x, want %#04x", uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestFramebuffer(t *testing.T) {
	fb := framebuffer.New(image.Rect(0, 0, 4, 3))
	if len(fb.Pix) != 4*3*2 {
		t.Fatalf("len(Pix) = %d", len(fb.Pix))
	}

	fb.Set(1, 2, color.NRGBA{0x11, 0x22, 0x33, 0xff})
	if fb.Pix[fb.PixOffset(1, 2)] != 0x12 || fb.Pix[fb.PixOffset(1, 2)+1] != 0x3f {
		t.Fatalf("pixel bytes % x", fb.Pix[fb.PixOffset(1, 2):][:2])
	}
	if got := fb.RGBA4444At(1, 2); got != 0x123f {
		t.Fatalf("RGBA4444At = %#04x", uint16(got))
	}
	if got := fb.RGBA4444At(4, 0); got != 0 {
		t.Fatalf("out of bounds At = %#04x", uint16(got))
	}

	fb.SetColor(color.White)
	fb.Fill(image.Rect(2, 0, 10, 2))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := framebuffer.RGBA4444(0)
			if x >= 2 && y < 2 {
				want = 0xffff
			}
			if x == 1 && y == 2 {
				want = 0x123f
			}
			if got := fb.RGBA4444At(x, y); got != want {
				t.Fatalf("(%d,%d) = %#04x, want %#04x", x, y, uint16(got), uint16(want))
			}
		}
	}

	fb.Draw(fb.Bounds(), image.NewUniform(color.Black), image.Point{}, nil, image.Point{}, draw.Src)
	for i := 0; i < len(fb.Pix); i += 2 {
		if fb.Pix[i] != 0x00 || fb.Pix[i+1] != 0x0f {
			t.Fatalf("byte %d: % x", i, fb.Pix[i:i+2])
		}
	}
}
