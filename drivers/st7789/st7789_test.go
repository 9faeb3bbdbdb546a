package st7789_test

import (
	"bytes"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/tinybit/picobit/drivers/st7789"
	"github.com/tinybit/picobit/framebuffer"
	"github.com/tinybit/picobit/rp2/dma"
	"github.com/tinybit/picobit/rp2/pio"
	"github.com/tinybit/picobit/rp2/sim"
	tbtesting "github.com/tinybit/picobit/testing"
)

func TestMain(m *testing.M) { tbtesting.TestMain(m) }

var cfg = st7789.Config{
	Source: image.Pt(128, 128),
	Panel:  image.Pt(240, 240),
}

// watched checks every scanline when it is handed to DMA.
type watched struct {
	dma.Channel[uint8]
	want func(row int) []byte
	rows int
	err  error
}

func (w *watched) Start(p []byte) {
	if w.err == nil && w.want != nil {
		if w.Channel.Busy() {
			w.err = fmt.Errorf("row %d started while the previous transfer is in flight", w.rows)
		} else if want := w.want(w.rows); !bytes.Equal(p, want) {
			w.err = fmt.Errorf("row %d submitted before it was built", w.rows)
		}
	}
	w.rows++
	w.Channel.Start(p)
}

type watchingAllocator struct {
	sim.Allocator[uint8]
	ch *watched
}

func (a *watchingAllocator) Claim(sm pio.StateMachine) (dma.Channel[uint8], error) {
	ch, err := a.Allocator.Claim(sm)
	if err != nil {
		return nil, err
	}
	a.ch = &watched{Channel: ch}
	return a.ch, nil
}

type fixture struct {
	d     *st7789.Driver
	panel *sim.Panel
	ch    *watched
	sm    *sim.StateMachine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{panel: sim.NewPanel(cfg.Panel.X, cfg.Panel.Y)}
	f.sm = sim.NewStateMachine(&pio.ST7789, f.panel)
	a := &watchingAllocator{Allocator: sim.Allocator[uint8]{
		Controller: sim.NewController(1),
		WordTime:   time.Nanosecond,
	}}
	f.d = st7789.New(cfg, f.sm, a, f.panel)
	f.ch = a.ch
	f.d.Start()
	return f
}

func sourceRow(y int) int { return (y * cfg.Source.Y * 65536 / cfg.Panel.Y) >> 16 }
func sourceCol(x int) int { return (x * cfg.Source.X * 65536 / cfg.Panel.X) >> 16 }

// expectedLine is the scanline of panel row y for the row index gradient.
func expectedLine(y int) []byte {
	line := make([]byte, 2*cfg.Panel.X)
	sy := sourceRow(y)
	for x := range cfg.Panel.X {
		c := tbtesting.RowIndexPixel(sourceCol(x), sy).RGB565()
		line[2*x], line[2*x+1] = byte(c>>8), byte(c)
	}
	return line
}

func TestInit(t *testing.T) {
	f := newFixture(t)
	f.d.Init()

	s := f.panel.State()
	if !s.On || s.Sleeping || !s.Inverted || !s.Backlight {
		t.Fatalf("panel state %+v", s)
	}
	if s.ColorMode != 0x55 {
		t.Fatalf("color mode %#x, want 16 bit", s.ColorMode)
	}
	if s.Window != image.Rect(0, 0, 240, 240) {
		t.Fatalf("window %v", s.Window)
	}
}

func TestScanlinePipeline(t *testing.T) {
	f := newFixture(t)
	f.d.Init()

	fb := tbtesting.RowIndexGradient(cfg.Source.X, cfg.Source.Y)
	f.ch.want = expectedLine
	f.d.SendFrame(fb.Pix)

	if f.ch.err != nil {
		t.Fatal(f.ch.err)
	}
	if f.ch.rows != cfg.Panel.Y {
		t.Fatalf("%d scanlines transmitted, want %d", f.ch.rows, cfg.Panel.Y)
	}
	if f.d.Stats().Frames != 1 {
		t.Fatal("frame not counted")
	}

	for y := 0; y < cfg.Panel.Y; y++ {
		c := uint16(f.panel.Pixel(0, y))
		got := int(c>>12)<<4 | int(c>>7&0xf)
		if want := sourceRow(y); got != want {
			t.Fatalf("panel row %d shows source row %d, want %d", y, got, want)
		}
		for x := 0; x < cfg.Panel.X; x++ {
			want := tbtesting.RowIndexPixel(sourceCol(x), sourceRow(y)).RGB565()
			if got := f.panel.Pixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %#04x, want %#04x", x, y, uint16(got), uint16(want))
			}
		}
	}
}

func TestSendFrameColors(t *testing.T) {
	tests := map[string]struct {
		in   framebuffer.RGBA4444
		want framebuffer.RGB565
	}{
		"white":       {0xffff, 0xffff},
		"transparent": {0xfff0, 0xffff},
		"black":       {0x000f, 0x0000},
		"red":         {0xf00f, 0xf800},
	}
	f := newFixture(t)
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fb := framebuffer.New(image.Rectangle{Max: cfg.Source})
			for y := 0; y < cfg.Source.Y; y++ {
				for x := 0; x < cfg.Source.X; x++ {
					fb.SetRGBA4444(x, y, tc.in)
				}
			}
			f.d.SendFrame(fb.Pix)
			for _, p := range []image.Point{{0, 0}, {239, 0}, {0, 239}, {239, 239}, {120, 77}} {
				if got := f.panel.Pixel(p.X, p.Y); got != tc.want {
					t.Fatalf("pixel %v = %#04x, want %#04x", p, uint16(got), uint16(tc.want))
				}
			}
		})
	}
}

func TestSendFrameInvalid(t *testing.T) {
	frame := tbtesting.RowIndexGradient(cfg.Source.X, cfg.Source.Y).Pix
	tests := map[string][]byte{
		"nil":       nil,
		"empty":     {},
		"short row": frame[:len(frame)-1],
		"short":     frame[:2*cfg.Source.X*(cfg.Source.Y-1)],
	}
	f := newFixture(t)
	f.d.SendFrame(frame)
	digest, ramwr, rows := f.panel.Digest(), f.panel.State().Frames, f.ch.rows

	rejected := 0
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			f.d.SendFrame(src)
			rejected++
			if f.panel.Digest() != digest || f.panel.State().Frames != ramwr {
				t.Fatal("panel written")
			}
			if f.ch.rows != rows {
				t.Fatalf("%d scanlines started", f.ch.rows-rows)
			}
			if st := f.d.Stats(); st.Frames != 1 || st.Rejected != rejected {
				t.Fatalf("stats %+v", st)
			}
		})
	}
}

func TestStatsConcurrent(t *testing.T) {
	f := newFixture(t)
	frame := tbtesting.FrameIndex(cfg.Source.X, cfg.Source.Y, 1).Pix
	const frames = 5
	done := make(chan struct{})
	go func() {
		for range frames {
			f.d.SendFrame(frame)
		}
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if st := f.d.Stats(); st.Frames < 0 || st.Frames > frames || st.Duration < 0 {
			t.Fatalf("stats %+v", st)
		}
	}
	if st := f.d.Stats(); st.Frames != frames || st.Duration <= 0 {
		t.Fatalf("stats %+v after %d frames", st, frames)
	}
}

func TestFrameDigest(t *testing.T) {
	f := newFixture(t)
	fb := tbtesting.RowIndexGradient(cfg.Source.X, cfg.Source.Y)
	f.d.SendFrame(fb.Pix)
	first := f.panel.Digest()
	f.d.SendFrame(fb.Pix)
	if f.panel.Digest() != first {
		t.Fatal("same frame produced a different panel image")
	}
	fb.SetRGBA4444(64, 64, 0xf00f)
	f.d.SendFrame(fb.Pix)
	if f.panel.Digest() == first {
		t.Fatal("changed frame not visible on the panel")
	}
	if got := f.panel.State().Frames; got != 3 {
		t.Fatalf("%d RAMWR, want 3", got)
	}
}

func TestStop(t *testing.T) {
	f := newFixture(t)
	f.d.Stop()
	if f.sm.IsEnabled() {
		t.Fatal("state machine enabled after Stop")
	}
	if f.ch.Busy() {
		t.Fatal("transfer in flight after Stop")
	}
}

func TestNoChannel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New did not panic without a free DMA channel")
		}
	}()
	panel := sim.NewPanel(240, 240)
	sm := sim.NewStateMachine(&pio.ST7789, panel)
	st7789.New(cfg, sm, &sim.Allocator[uint8]{Controller: sim.NewController(0)}, panel)
}
