package sim

import (
	"image"
	"image/color"
	"sync"

	"github.com/sigurn/crc8"

	"github.com/tinybit/picobit/framebuffer"
)

// ST7789 commands understood by Panel.
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2a
	cmdRASET   = 0x2b
	cmdRAMWR   = 0x2c
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3a
)

var digestTable = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xF4, Name: "CRC-8"})

// Panel is an ST7789 controller with its frame memory. It decodes the byte
// stream of a 4-wire serial interface: a byte is a command while DC is low and
// a parameter or pixel data while DC is high. Bytes are ignored while CS is
// high. The byte is taken from the top of the FIFO word.
type Panel struct {
	mu sync.Mutex

	width, height int
	mem           []uint16

	dc, cs, reset, backlight bool

	cmd    byte
	params []byte
	hi     byte
	half   bool

	x0, x1, y0, y1 int
	x, y           int

	sleeping, on, inverted bool
	colmod, madctl         byte
	frames, pixels         int
}

func NewPanel(width, height int) *Panel {
	p := &Panel{width: width, height: height, cs: true, reset: true}
	p.mem = make([]uint16, width*height)
	p.swreset()
	return p
}

func (p *Panel) swreset() {
	p.sleeping = true
	p.on = false
	p.inverted = false
	p.colmod = 0x66
	p.madctl = 0
	p.x0, p.x1 = 0, p.width-1
	p.y0, p.y1 = 0, p.height-1
}

func (p *Panel) SetDC(high bool) { p.mu.Lock(); p.dc = high; p.mu.Unlock() }
func (p *Panel) SetCS(high bool) { p.mu.Lock(); p.cs = high; p.mu.Unlock() }

func (p *Panel) SetReset(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !high {
		p.swreset()
		p.cmd = 0
	}
	p.reset = high
}

func (p *Panel) SetBacklight(on bool) { p.mu.Lock(); p.backlight = on; p.mu.Unlock() }

func (p *Panel) Put(w uint32) {
	b := byte(w >> 24)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cs || !p.reset {
		return
	}
	if !p.dc {
		p.command(b)
	} else {
		p.data(b)
	}
}

func (p *Panel) command(b byte) {
	p.cmd = b
	p.params = p.params[:0]
	switch b {
	case cmdSWRESET:
		p.swreset()
	case cmdSLPOUT:
		p.sleeping = false
	case cmdNORON:
	case cmdINVON:
		p.inverted = true
	case cmdDISPON:
		p.on = true
	case cmdRAMWR:
		p.x, p.y = p.x0, p.y0
		p.half = false
		p.frames++
	}
}

func (p *Panel) data(b byte) {
	switch p.cmd {
	case cmdRAMWR:
		p.pixel(b)
		return
	case cmdCOLMOD:
		p.colmod = b
	case cmdMADCTL:
		p.madctl = b
	case cmdCASET, cmdRASET:
		p.params = append(p.params, b)
		if len(p.params) != 4 {
			return
		}
		start := int(p.params[0])<<8 | int(p.params[1])
		end := int(p.params[2])<<8 | int(p.params[3])
		if p.cmd == cmdCASET {
			p.x0, p.x1 = start, min(end, p.width-1)
		} else {
			p.y0, p.y1 = start, min(end, p.height-1)
		}
	}
}

func (p *Panel) pixel(b byte) {
	if !p.half {
		p.hi = b
		p.half = true
		return
	}
	p.half = false
	if p.y > p.y1 {
		return
	}
	p.mem[p.y*p.width+p.x] = uint16(p.hi)<<8 | uint16(b)
	p.pixels++
	p.x++
	if p.x > p.x1 {
		p.x = p.x0
		p.y++
	}
}

func (p *Panel) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// Pixel returns the frame memory at x, y.
func (p *Panel) Pixel(x, y int) framebuffer.RGB565 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return framebuffer.RGB565(p.mem[y*p.width+x])
}

// Image returns the frame memory as seen on the glass, black while the
// display is off or sleeping.
func (p *Panel) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := image.NewRGBA(p.Bounds())
	if !p.on || p.sleeping {
		return img
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := color.RGBAModel.Convert(framebuffer.RGB565(p.mem[y*p.width+x])).(color.RGBA)
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Digest returns the CRC-8 of the frame memory, two bytes per pixel, MSB
// first.
func (p *Panel) Digest() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	crc := crc8.Init(digestTable)
	var b [2]byte
	for _, v := range p.mem {
		b[0], b[1] = byte(v>>8), byte(v)
		crc = crc8.Update(crc, b[:], digestTable)
	}
	return crc8.Complete(crc, digestTable)
}

// PanelState is a snapshot of the controller registers.
type PanelState struct {
	On, Sleeping, Inverted, Backlight bool
	ColorMode, MemoryAccess           byte
	Window                            image.Rectangle
	Frames, Pixels                    int
}

func (p *Panel) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelState{
		On:           p.on,
		Sleeping:     p.sleeping,
		Inverted:     p.inverted,
		Backlight:    p.backlight,
		ColorMode:    p.colmod,
		MemoryAccess: p.madctl,
		Window:       image.Rect(p.x0, p.y0, p.x1+1, p.y1+1),
		Frames:       p.frames,
		Pixels:       p.pixels,
	}
}
