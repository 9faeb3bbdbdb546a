package console

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/tinybit/picobit/drivers/display"
	"github.com/tinybit/picobit/framebuffer"
	"github.com/tinybit/picobit/tinybit"
)

type nullSender struct{}

func (nullSender) SendFrame([]byte) {}

// audio accepts every other buffer.
type audio struct {
	calls  int
	queued [][]int16
}

func (a *audio) BufferReady() bool {
	a.calls++
	return a.calls%2 == 1
}

func (a *audio) QueueSamples(s []int16) {
	a.queued = append(a.queued, append([]int16(nil), s...))
}

// engine counts frames and fails at frame failAt.
type engine struct {
	frames  int
	failAt  int
	pressed []tinybit.Buttons
	drawn   int
}

var errGameOver = errors.New("game over")

func (g *engine) FeedCartridge([]byte) error { return nil }

func (g *engine) Update(b tinybit.Buttons) error {
	g.frames++
	g.pressed = append(g.pressed, b)
	if g.frames == g.failAt {
		return errGameOver
	}
	return nil
}

func (g *engine) Draw(fb *framebuffer.Framebuffer) {
	g.drawn++
	fb.SetRGBA4444(0, 0, framebuffer.RGBA4444(g.frames))
}

func (g *engine) Samples() []int16 {
	return []int16{int16(g.frames), int16(-g.frames)}
}

func newDisplay() *display.Display {
	return display.New(framebuffer.New(image.Rect(0, 0, 8, 8)), nullSender{})
}

func TestRun(t *testing.T) {
	g := &engine{}
	a := &audio{}
	d := newDisplay()
	input := tinybit.ButtonLeft | tinybit.ButtonA

	st, err := Run(context.Background(), g, Config{
		Display: d,
		Audio:   a,
		Input:   func() tinybit.Buttons { return input },
		Frames:  10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.Frames != 10 || g.frames != 10 || g.drawn != 10 {
		t.Fatalf("stats %+v, engine updated %d drew %d", st, g.frames, g.drawn)
	}
	if st.DroppedAudio != 5 || len(a.queued) != 5 || st.QueuedSamples != 10 {
		t.Fatalf("stats %+v, queued %d buffers", st, len(a.queued))
	}
	for i, s := range a.queued {
		if want := int16(2*i + 1); s[0] != want {
			t.Fatalf("buffer %d from frame %d, want %d", i, s[0], want)
		}
	}
	for i, b := range g.pressed {
		if b != input {
			t.Fatalf("frame %d: buttons %08b, want %08b", i, b, input)
		}
	}
	if ds := d.Stats(); ds.Rendered != 10 {
		t.Fatalf("display stats %+v", ds)
	}
}

func TestRunStops(t *testing.T) {
	t.Run("engine error", func(t *testing.T) {
		g := &engine{failAt: 3}
		st, err := Run(context.Background(), g, Config{Display: newDisplay()})
		if !errors.Is(err, errGameOver) {
			t.Fatalf("got %v, want %v", err, errGameOver)
		}
		if st.Frames != 2 {
			t.Fatalf("rendered %d frames, want 2", st.Frames)
		}
	})
	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, &engine{}, Config{Display: newDisplay()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want %v", err, context.Canceled)
		}
	})
}

func TestRunPacing(t *testing.T) {
	const period = 5 * time.Millisecond
	start := time.Now()
	_, err := Run(context.Background(), &engine{}, Config{
		Display:     newDisplay(),
		FramePeriod: period,
		Frames:      6,
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d < 6*period {
		t.Fatalf("6 frames took %v, want at least %v", d, 6*period)
	}
}
