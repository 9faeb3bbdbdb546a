// Package i2s implements double buffered audio output through a PIO I2S
// transmitter fed by DMA.
//
// The producer converts mono samples into the fill buffer while DMA streams
// the active buffer. On transfer completion the interrupt handler swaps the
// buffers if the fill buffer was marked ready and goes idle otherwise, so an
// underrun plays silence instead of repeating stale audio.
package i2s

import (
	"sync/atomic"

	"github.com/tinybit/picobit/debug"
	"github.com/tinybit/picobit/rp2/dma"
	"github.com/tinybit/picobit/rp2/pio"
)

// Config is the build-time configuration of the driver.
type Config struct {
	SampleRate int // Hz, programmed into the state machine clock divider
	Capacity   int // stereo frames per buffer
}

// Stats counts audio lost at the driver boundary.
type Stats struct {
	Transfers uint32 // buffers handed to DMA
	Underruns uint32 // completions without a ready buffer
	Replaced  uint32 // ready buffers overwritten before DMA took them
	Truncated uint32 // samples beyond capacity dropped by QueueSamples
}

// Driver owns the two sample buffers and the DMA channel feeding the I2S
// state machine. QueueSamples, BufferReady, Start and Stop must be called from
// one goroutine.
type Driver struct {
	cfg Config
	sm  pio.StateMachine
	ch  dma.Channel[uint32]

	bufs   [2][]uint32
	lens   [2]int
	active int // buffer owned by DMA, the other one is the fill buffer

	// Accessed by the handler and by the producer with the interrupt masked.
	running bool
	started bool

	ready atomic.Bool

	transfers, underruns, replaced, truncated atomic.Uint32
}

// New claims a DMA channel for sm and returns the driver with zeroed buffers
// and the state machine disabled. It panics if no DMA channel is available.
func New(cfg Config, sm pio.StateMachine, dmas dma.Allocator[uint32]) *Driver {
	if cfg.Capacity <= 0 {
		panic("i2s: invalid buffer capacity")
	}
	ch, err := dmas.Claim(sm)
	if err != nil {
		panic("i2s: " + err.Error())
	}
	d := &Driver{cfg: cfg, sm: sm, ch: ch}
	for i := range d.bufs {
		d.bufs[i] = make([]uint32, cfg.Capacity)
	}
	sm.SetEnabled(false)
	ch.SetHandler(d.handler)
	ch.Enable()
	return d
}

// Config returns the configuration passed to New.
func (d *Driver) Config() Config { return d.cfg }

// Start enables the state machine. A buffer queued before Start begins
// playing now.
func (d *Driver) Start() {
	d.ch.Disable()
	d.started = true
	d.sm.SetEnabled(true)
	if !d.running && d.ready.Load() {
		d.kick()
	}
	d.ch.Enable()
}

// Stop aborts the in-flight transfer and disables the state machine. Queued
// audio is discarded.
func (d *Driver) Stop() {
	d.ch.Disable()
	d.ch.Abort()
	d.sm.SetEnabled(false)
	d.sm.ClearFIFOs()
	d.sm.Restart()
	d.started = false
	d.running = false
	d.ready.Store(false)
	d.ch.Enable()
}

// BufferReady reports whether the driver can take another buffer without
// replacing one that has not been played yet.
func (d *Driver) BufferReady() bool {
	return !d.ready.Load()
}

// QueueSamples converts mono samples into stereo frames in the fill buffer and
// marks it ready. Samples beyond the buffer capacity are dropped. If DMA is
// idle the buffer starts playing immediately. A ready buffer not taken by DMA
// yet is replaced. It never blocks on DMA.
func (d *Driver) QueueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	if len(samples) > d.cfg.Capacity {
		d.truncated.Add(uint32(len(samples) - d.cfg.Capacity))
		samples = samples[:d.cfg.Capacity]
	}

	// Reclaim the fill buffer. With ready cleared the handler will not swap,
	// so active is stable until the buffer is handed over again.
	if d.ready.Load() {
		d.ch.Disable()
		if d.ready.Swap(false) {
			d.replaced.Add(1)
		}
		d.ch.Enable()
	}

	fill := d.active ^ 1
	buf := d.bufs[fill]
	for i, s := range samples {
		v := uint32(uint16(s))
		buf[i] = v<<16 | v
	}

	d.ch.Disable()
	d.lens[fill] = len(samples)
	d.ready.Store(true)
	if d.started && !d.running {
		d.kick()
	}
	d.ch.Enable()
}

// kick swaps the ready fill buffer in and starts its transfer. Must be called
// with the interrupt masked or from the handler.
func (d *Driver) kick() {
	if debug.Enabled {
		debug.Assert(!d.ch.Busy(), "i2s: DMA busy")
	}
	d.active ^= 1
	d.ready.Store(false)
	d.running = true
	d.transfers.Add(1)
	d.ch.Start(d.bufs[d.active][:d.lens[d.active]])
}

func (d *Driver) handler() {
	if !d.ch.Ack() {
		return // aborted
	}
	if !d.started {
		d.running = false
		return
	}
	if !d.ready.Load() {
		d.running = false
		d.underruns.Add(1)
		return
	}
	d.kick()
}

// Stats returns the counters. Safe to call from any goroutine.
func (d *Driver) Stats() Stats {
	return Stats{
		Transfers: d.transfers.Load(),
		Underruns: d.underruns.Load(),
		Replaced:  d.replaced.Load(),
		Truncated: d.truncated.Load(),
	}
}
