package sim

import (
	"sync"
	"time"
	"unsafe"

	"github.com/tinybit/picobit/rp2/dma"
	"github.com/tinybit/picobit/rp2/pio"
)

// Controller is a DMA controller with a fixed number of channels.
type Controller struct {
	mu   sync.Mutex
	free int
}

func NewController(channels int) *Controller {
	return &Controller{free: channels}
}

func (c *Controller) claim() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.free == 0 {
		return dma.ErrNoChannel
	}
	c.free--
	return nil
}

// Allocator claims T sized channels of Controller. Channels complete their
// transfers after WordTime per word, or only on Complete if WordTime is zero.
type Allocator[T dma.Word] struct {
	Controller *Controller
	WordTime   time.Duration

	Claimed []*DMA[T]
}

func (a *Allocator[T]) Claim(sm pio.StateMachine) (dma.Channel[T], error) {
	target, ok := sm.(*StateMachine)
	if !ok {
		panic("sim: DMA target is not a simulated state machine")
	}
	if err := a.Controller.claim(); err != nil {
		return nil, err
	}
	ch := &DMA[T]{sm: target, wordTime: a.WordTime}
	a.Claimed = append(a.Claimed, ch)
	return ch, nil
}

// DMA is a channel moving words into a state machine. The source buffer is
// read when the transfer completes.
type DMA[T dma.Word] struct {
	IRQ

	sm       *StateMachine
	wordTime time.Duration

	mu     sync.Mutex
	buf    []T
	busy   bool
	done   bool
	gen    uint64
	starts int
	aborts int
	words  int
}

func (c *DMA[T]) Start(p []T) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		panic("sim: DMA started while busy")
	}
	c.buf = p
	c.busy = true
	c.gen++
	c.starts++
	gen := c.gen
	c.mu.Unlock()

	if c.wordTime > 0 {
		time.AfterFunc(c.wordTime*time.Duration(len(p)), func() { c.complete(gen) })
	}
}

func (c *DMA[T]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *DMA[T]) Ack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	done := c.done
	c.done = false
	return done
}

func (c *DMA[T]) Abort() {
	c.mu.Lock()
	c.busy = false
	c.done = false
	c.buf = nil
	c.gen++
	c.aborts++
	c.mu.Unlock()
}

// Complete finishes the in-flight transfer and raises the completion
// interrupt. It reports false if the channel was idle.
func (c *DMA[T]) Complete() bool {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	return c.complete(gen)
}

func (c *DMA[T]) complete(gen uint64) bool {
	c.mu.Lock()
	if !c.busy || c.gen != gen {
		c.mu.Unlock()
		return false
	}
	for _, w := range c.buf {
		c.sm.TxPut(busWord(w))
	}
	c.words += len(c.buf)
	c.buf = nil
	c.busy = false
	c.done = true
	c.mu.Unlock()

	c.Raise()
	return true
}

// InFlight returns the buffer of the running transfer.
func (c *DMA[T]) InFlight() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf
}

// Stats returns the number of started and aborted transfers and of words
// moved.
func (c *DMA[T]) Stats() (starts, aborts, words int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts, c.aborts, c.words
}

// busWord replicates narrow writes over the 32 bit bus like the bus fabric of
// the RP2040 does.
func busWord[T dma.Word](w T) uint32 {
	switch unsafe.Sizeof(w) {
	case 1:
		return uint32(w) * 0x01010101
	case 2:
		return uint32(w) * 0x00010001
	}
	return uint32(w)
}
