// Package dma describes DMA channels streaming memory into a state machine's
// TX FIFO, one transfer at a time.
package dma

import (
	"errors"
	"runtime"

	"github.com/tinybit/picobit/rp2"
	"github.com/tinybit/picobit/rp2/pio"
)

// ErrNoChannel is returned by Claim if all channels are in use.
var ErrNoChannel = errors.New("dma: no free channel")

// Word is the transfer size of a channel.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

// Channel is a DMA channel paced by the data requests of its target FIFO.
//
// The embedded IRQ masks the channel's completion interrupt. The completion
// status stays set until acknowledged with Ack, also while masked.
type Channel[T Word] interface {
	rp2.IRQ

	// Start transfers p into the target FIFO. The channel must be idle and p
	// must not be modified until the transfer completed.
	Start(p []T)

	// Busy reports whether a transfer is in flight.
	Busy() bool

	// Ack clears the completion status and reports whether it was set.
	Ack() bool

	// Abort stops an in-flight transfer and clears its completion status.
	Abort()

	// SetHandler installs the completion interrupt handler.
	SetHandler(h func())
}

// Allocator hands out channels targeting a state machine's TX FIFO.
type Allocator[T Word] interface {
	Claim(sm pio.StateMachine) (Channel[T], error)
}

// Wait spins until ch is idle.
func Wait[T Word](ch Channel[T]) {
	for ch.Busy() {
		runtime.Gosched()
	}
}
