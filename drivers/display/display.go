// Package display hands finished frames from the game loop to the panel
// driver running on the other core.
package display

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tinybit/picobit/framebuffer"
	"github.com/tinybit/picobit/rp2"
)

// Sender transmits a frame snapshot to the panel.
type Sender interface {
	SendFrame(snapshot []byte)
}

// Display implements a latest-frame-wins handoff of framebuffer snapshots.
// RenderFrame never waits for the panel: a frame not yet picked up by the
// consumer is replaced by the next one.
type Display struct {
	fb     *framebuffer.Framebuffer
	lcd    Sender
	frames *rp2.Handoff[[]byte]
	wake   chan struct{}
	busy   atomic.Bool

	// owned by the producer
	start     time.Time
	frametime time.Duration

	rendered, replaced, shown atomic.Uint32
	sendtime                  atomic.Int64
}

// Stats counts frames at the handoff.
type Stats struct {
	Rendered uint32 // published by RenderFrame
	Replaced uint32 // overwritten before the consumer picked them up
	Shown    uint32 // transmitted to the panel
}

func New(fb *framebuffer.Framebuffer, lcd Sender) *Display {
	n := len(fb.Pix)
	p := &Display{
		fb:    fb,
		lcd:   lcd,
		wake:  make(chan struct{}, 1),
		start: time.Now(),
	}
	p.frames = rp2.NewHandoff([3][]byte{make([]byte, n), make([]byte, n), make([]byte, n)})
	return p
}

// Framebuffer returns the framebuffer the game draws into.
func (p *Display) Framebuffer() *framebuffer.Framebuffer {
	return p.fb
}

// RenderFrame publishes a snapshot of the framebuffer. Must only be called by
// the producer.
func (p *Display) RenderFrame() {
	copy(*p.frames.Back(), p.fb.Pix)
	if p.frames.Publish() {
		p.replaced.Add(1)
	}
	p.rendered.Add(1)

	select {
	case p.wake <- struct{}{}:
	default:
	}

	p.frametime = time.Since(p.start)
	p.start = time.Now()
}

// Pending reports whether a published frame waits for the consumer.
func (p *Display) Pending() bool {
	return p.frames.Pending()
}

// Busy reports whether the consumer is transmitting a frame.
func (p *Display) Busy() bool {
	return p.busy.Load()
}

// Poll transmits the newest published frame, if any, and reports whether it
// did. Must only be called by the consumer.
func (p *Display) Poll() bool {
	// busy is set before the frame leaves the handoff, so Pending and Busy
	// are never both false while a frame is held.
	p.busy.Store(true)
	snapshot, ok := p.frames.Acquire()
	if !ok {
		p.busy.Store(false)
		return false
	}
	start := time.Now()
	p.lcd.SendFrame(*snapshot)
	p.sendtime.Store(int64(time.Since(start)))
	p.shown.Add(1)
	p.busy.Store(false)
	return true
}

// Serve runs the consumer until ctx is done.
func (p *Display) Serve(ctx context.Context) {
	for ctx.Err() == nil {
		if p.Poll() {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
		}
	}
}

// FPS returns the rate of RenderFrame calls, measured over the last frame.
func (p *Display) FPS() float32 {
	if p.frametime == 0 {
		return 0
	}
	return 1e9 / float32(p.frametime)
}

// Duration returns the transmission time of the last frame.
func (p *Display) Duration() time.Duration {
	return time.Duration(p.sendtime.Load())
}

func (p *Display) Stats() Stats {
	return Stats{
		Rendered: p.rendered.Load(),
		Replaced: p.replaced.Load(),
		Shown:    p.shown.Load(),
	}
}
