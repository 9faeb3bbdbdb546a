package tinybit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/embeddedgo/display/pix"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/tinybit/picobit/fixed"
	"github.com/tinybit/picobit/framebuffer"
)

// Demo is a minimal engine bouncing a box over the cartridge artwork while
// playing a square wave whose pitch follows the box.
type Demo struct {
	SampleRate int
	Volume     fixed.UInt8_8 // 1.0 is full scale

	bg      *framebuffer.Framebuffer
	box     image.Rectangle
	vel     image.Point
	phase   int
	samples []int16
	frame   int
	pressed Buttons

	disp *pix.Display
	fb   *framebuffer.Framebuffer
}

const boxSize = 16

var boxColors = []color.RGBA{
	colornames.Orangered,
	colornames.Gold,
	colornames.Limegreen,
	colornames.Deepskyblue,
	colornames.Mediumorchid,
}

func NewDemo(sampleRate int) *Demo {
	return &Demo{
		SampleRate: sampleRate,
		Volume:     fixed.UInt8_8Ratio(1, 4),
		box:        image.Rect(0, 0, boxSize, boxSize),
		vel:        image.Pt(2, 1),
		samples:    make([]int16, 0, sampleRate/FrameRate+1),
	}
}

// FeedCartridge loads a PNG cartridge. Its image is scaled to the screen and
// used as background.
func (g *Demo) FeedCartridge(data []byte) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCartridge, err)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", ErrCartridge)
	}
	bg := framebuffer.New(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	draw.NearestNeighbor.Scale(bg, bg.Bounds(), img, img.Bounds(), draw.Src, nil)
	g.bg = bg
	return nil
}

func (g *Demo) Update(pressed Buttons) error {
	g.pressed = pressed
	g.frame++

	speed := 1
	if pressed&ButtonB != 0 {
		speed = 2
	}
	r := g.box.Add(g.vel.Mul(speed))
	if r.Min.X < 0 || r.Max.X > ScreenWidth {
		g.vel.X = -g.vel.X
	}
	if r.Min.Y < 0 || r.Max.Y > ScreenHeight {
		g.vel.Y = -g.vel.Y
	}
	g.box = g.box.Add(g.vel.Mul(speed))

	g.synth()
	return nil
}

// synth renders one frame of a square wave. The pitch rises from 220 Hz
// towards the top of the screen. Button A mutes.
func (g *Demo) synth() {
	n := g.SampleRate / FrameRate
	g.samples = g.samples[:0]
	if n <= 0 {
		return
	}
	freq := 220 + 2*(ScreenHeight-g.box.Min.Y)
	half := max(g.SampleRate/(2*freq), 1)
	amp := int16(g.Volume.MulInt(0x7fff))
	if g.pressed&ButtonA != 0 {
		amp = 0
	}
	for i := 0; i < n; i++ {
		s := amp
		if (g.phase/half)&1 != 0 {
			s = -amp
		}
		g.samples = append(g.samples, s)
		g.phase = (g.phase + 1) % (2 * half)
	}
}

func (g *Demo) Draw(fb *framebuffer.Framebuffer) {
	if g.fb != fb {
		g.fb = fb
		g.disp = pix.NewDisplay(fb)
	}
	a := g.disp.NewArea(g.disp.Bounds())
	if g.bg != nil {
		a.Draw(a.Bounds(), g.bg, image.Point{}, nil, image.Point{}, draw.Src)
	} else {
		a.SetColor(colornames.Midnightblue)
		a.Fill(a.Bounds())
	}
	a.SetColor(boxColors[(g.frame/FrameRate)%len(boxColors)])
	a.Fill(g.box)
	a.Flush()
}

func (g *Demo) Samples() []int16 {
	return g.samples
}
