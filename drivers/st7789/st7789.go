// Package st7789 drives an ST7789 panel over a PIO serial link. Frames are
// rescaled from the source framebuffer on the fly, one scanline at a time.
package st7789

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/tinybit/picobit/fixed"
	"github.com/tinybit/picobit/rp2/dma"
	"github.com/tinybit/picobit/rp2/pio"
)

const (
	SWRESET = 0x01
	SLPOUT  = 0x11
	NORON   = 0x13
	INVON   = 0x21
	DISPON  = 0x29
	CASET   = 0x2a
	RASET   = 0x2b
	RAMWR   = 0x2c
	MADCTL  = 0x36
	COLMOD  = 0x3a
)

// Pins are the control lines of the panel besides the serial data and clock.
type Pins interface {
	SetDC(high bool)
	SetCS(high bool)
	SetReset(high bool)
	SetBacklight(on bool)
}

// Config is the build-time configuration of the driver.
type Config struct {
	Source image.Point // framebuffer resolution
	Panel  image.Point // panel resolution
}

// Stats counts frames sent to the panel. Safe to read from another core.
type Stats struct {
	Frames   int
	Rejected int           // snapshots shorter than the source framebuffer
	Duration time.Duration // of the last frame
}

// Driver streams rescaled frames to the panel. All methods except Stats must
// be called from the goroutine driving the panel.
type Driver struct {
	cfg  Config
	sm   pio.StateMachine
	ch   dma.Channel[uint8]
	pins Pins

	lines [2][]byte // scanlines in RGB565, MSB first
	cols  []uint16  // source column of each panel column
	rows  fixed.Scaler
	row   []uint16 // current source row in RGB565

	frames, rejected atomic.Uint32
	duration         atomic.Int64
}

// New claims a DMA channel for sm. It panics if no DMA channel is available.
func New(cfg Config, sm pio.StateMachine, dmas dma.Allocator[uint8], pins Pins) *Driver {
	ch, err := dmas.Claim(sm)
	if err != nil {
		panic("st7789: " + err.Error())
	}
	d := &Driver{
		cfg:  cfg,
		sm:   sm,
		ch:   ch,
		pins: pins,
		cols: make([]uint16, cfg.Panel.X),
		rows: fixed.NewScaler(cfg.Source.Y, cfg.Panel.Y),
		row:  make([]uint16, cfg.Source.X),
	}
	for i := range d.lines {
		d.lines[i] = make([]byte, 2*cfg.Panel.X)
	}
	cols := fixed.NewScaler(cfg.Source.X, cfg.Panel.X)
	cols.Table(d.cols)
	pins.SetCS(true)
	pins.SetDC(true)
	pins.SetReset(true)
	return d
}

// Config returns the configuration passed to New.
func (d *Driver) Config() Config { return d.cfg }

// initSequence is the panel bring-up: command, delay in 5 ms units,
// parameters.
var initSequence = []struct {
	cmd    byte
	delay  int
	params []byte
}{
	{SWRESET, 20, nil},
	{SLPOUT, 10, nil},
	{COLMOD, 2, []byte{0x55}}, // 16 bit/pixel
	{MADCTL, 0, []byte{0x00}},
	{CASET, 0, nil},
	{RASET, 0, nil},
	{INVON, 2, nil},
	{NORON, 2, nil},
	{DISPON, 2, nil},
}

// Init resets the panel, runs the bring-up sequence for the full panel window
// and turns the backlight on.
func (d *Driver) Init() {
	d.pins.SetReset(false)
	time.Sleep(5 * time.Millisecond)
	d.pins.SetReset(true)
	time.Sleep(5 * time.Millisecond)

	w, h := d.cfg.Panel.X-1, d.cfg.Panel.Y-1
	for _, c := range initSequence {
		params := c.params
		switch c.cmd {
		case CASET:
			params = []byte{0, 0, byte(w >> 8), byte(w)}
		case RASET:
			params = []byte{0, 0, byte(h >> 8), byte(h)}
		}
		d.Command(c.cmd, params...)
		time.Sleep(time.Duration(c.delay) * 5 * time.Millisecond)
	}
	d.pins.SetBacklight(true)
}

// Start enables the serial link.
func (d *Driver) Start() {
	d.sm.SetEnabled(true)
}

// Stop aborts a running frame transfer and disables the serial link.
func (d *Driver) Stop() {
	d.ch.Abort()
	d.sm.SetEnabled(false)
	d.pins.SetCS(true)
}

func (d *Driver) setDCCS(dc, cs bool) {
	time.Sleep(time.Microsecond)
	d.pins.SetDC(dc)
	d.pins.SetCS(cs)
	time.Sleep(time.Microsecond)
}

// waitIdle returns once DMA and the TX FIFO are drained.
func (d *Driver) waitIdle() {
	dma.Wait(d.ch)
	pio.Drain(d.sm)
}

// Command sends cmd followed by its parameters.
func (d *Driver) Command(cmd byte, params ...byte) {
	d.waitIdle()
	d.setDCCS(false, false)
	pio.Put(d.sm, uint32(cmd)<<24)
	if len(params) != 0 {
		d.waitIdle()
		d.setDCCS(true, false)
		for _, p := range params {
			pio.Put(d.sm, uint32(p)<<24)
		}
	}
	d.waitIdle()
	d.setDCCS(true, true)
}

// SendFrame streams src, a framebuffer of the configured source resolution in
// RGBA4444, rescaled to the full panel. Scanline k+1 is built while scanline k
// is transmitted, a scanline is submitted only after the previous transfer
// completed. A nil or short src is ignored.
func (d *Driver) SendFrame(src []byte) {
	start := time.Now()
	stride := 2 * d.cfg.Source.X
	if len(src) < stride*d.cfg.Source.Y {
		d.rejected.Add(1)
		return
	}

	d.waitIdle()
	d.setDCCS(false, false)
	pio.Put(d.sm, RAMWR<<24)
	d.waitIdle()
	d.setDCCS(true, false)

	d.rows.Reset()
	prev := -1
	build := func(line, last []byte) {
		sy := d.rows.Next()
		if sy == prev {
			copy(line, last)
			return
		}
		prev = sy
		d.convertRow(src[sy*stride : (sy+1)*stride])
		d.expandRow(line)
	}

	n := d.cfg.Panel.Y
	build(d.lines[0], nil)
	for y := 0; y < n; y++ {
		line := d.lines[y&1]
		dma.Wait(d.ch)
		d.ch.Start(line)
		if y+1 < n {
			build(d.lines[(y+1)&1], line)
		}
	}
	d.waitIdle()
	d.setDCCS(true, true)

	d.duration.Store(int64(time.Since(start)))
	d.frames.Add(1)
}

// convertRow converts one source row to RGB565 into the row cache.
func (d *Driver) convertRow(src []byte) {
	for x := range d.row {
		d.row[x] = uint16(rgb565(src[2*x], src[2*x+1]))
	}
}

// expandRow writes the cached row to line through the column table.
func (d *Driver) expandRow(line []byte) {
	for x, sx := range d.cols {
		v := d.row[sx]
		line[2*x] = byte(v >> 8)
		line[2*x+1] = byte(v)
	}
}

// Stats returns the counters. Safe to call while another goroutine sends
// frames.
func (d *Driver) Stats() Stats {
	return Stats{
		Frames:   int(d.frames.Load()),
		Rejected: int(d.rejected.Load()),
		Duration: time.Duration(d.duration.Load()),
	}
}
