// Package console runs the game loop of a TinyBit engine.
package console

import (
	"context"
	"time"

	"github.com/tinybit/picobit/drivers/display"
	"github.com/tinybit/picobit/tinybit"
)

// Audio is the sample sink of the game loop, implemented by i2s.Driver.
type Audio interface {
	BufferReady() bool
	QueueSamples(samples []int16)
}

type Config struct {
	Display *display.Display
	Audio   Audio                 // optional
	Input   func() tinybit.Buttons // optional, polled once per frame

	// FramePeriod paces the loop. Zero runs frames back to back.
	FramePeriod time.Duration

	// Frames stops the loop after the given number of frames. Zero runs
	// until the context is done.
	Frames int
}

type Stats struct {
	Frames        int // frames updated and rendered
	DroppedAudio  int // frames whose samples were dropped, driver busy
	QueuedSamples int
	Late          int // frames that took longer than FramePeriod
}

// Run drives g, which must have been fed a cartridge already. Each frame it
// polls input, updates and draws the engine, hands the frame to the display
// and queues the frame's audio if the driver has room. Audio is never waited
// for: a frame produced while both buffers are in use is dropped.
//
// Run returns the error of Update, ctx.Err() if the context was cancelled or
// nil after cfg.Frames frames.
func Run(ctx context.Context, g tinybit.Engine, cfg Config) (Stats, error) {
	var st Stats
	fb := cfg.Display.Framebuffer()
	next := time.Now()

	for cfg.Frames == 0 || st.Frames < cfg.Frames {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		var pressed tinybit.Buttons
		if cfg.Input != nil {
			pressed = cfg.Input()
		}
		if err := g.Update(pressed); err != nil {
			return st, err
		}
		g.Draw(fb)
		cfg.Display.RenderFrame()

		if samples := g.Samples(); cfg.Audio != nil && len(samples) > 0 {
			if cfg.Audio.BufferReady() {
				cfg.Audio.QueueSamples(samples)
				st.QueuedSamples += len(samples)
			} else {
				st.DroppedAudio++
			}
		}
		st.Frames++

		if cfg.FramePeriod > 0 {
			next = next.Add(cfg.FramePeriod)
			if d := time.Until(next); d > 0 {
				time.Sleep(d)
			} else {
				st.Late++
				next = time.Now()
			}
		}
	}
	return st, nil
}
