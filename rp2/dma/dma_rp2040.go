//go:build tinygo && rp2040

package dma

import (
	"device/rp"
	"math/bits"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/tinybit/picobit/rp2/pio"
)

const nchannels = 12

type channelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32 // aliases
}

var (
	channels = unsafe.Slice((*channelHW)(unsafe.Pointer(&rp.DMA.CH0_READ_ADDR)), nchannels)
	claimed  uint16
	handlers [nchannels]func()
	intr     interrupt.Interrupt
)

func init() {
	intr = interrupt.New(rp.IRQ_DMA_IRQ_0, handleInterrupt)
}

// handleInterrupt dispatches DMA_IRQ_0 to the channel handlers. Handlers
// acknowledge their channel themselves.
func handleInterrupt(interrupt.Interrupt) {
	status := rp.DMA.INTS0.Get()
	for status != 0 {
		i := bits.TrailingZeros32(status)
		status &^= 1 << i
		if h := handlers[i]; h != nil {
			h()
		} else {
			rp.DMA.INTS0.Set(1 << i)
		}
	}
}

// fifo is implemented by *pio.Machine.
type fifo interface {
	TxAddr() uintptr
	TxDREQ() uint32
}

// Channels allocates hardware channels with T sized transfers.
type Channels[T Word] struct{}

func (Channels[T]) Claim(sm pio.StateMachine) (Channel[T], error) {
	target, ok := sm.(fifo)
	if !ok {
		panic("dma: state machine has no TX FIFO address")
	}
	state := interrupt.Disable()
	defer interrupt.Restore(state)

	for i := uint8(0); i < nchannels; i++ {
		if claimed&(1<<i) != 0 {
			continue
		}
		claimed |= 1 << i

		var t T
		size := uint32(bits.TrailingZeros(uint(unsafe.Sizeof(t))))
		ch := &channel[T]{
			idx:  i,
			hw:   &channels[i],
			dst:  uint32(target.TxAddr()),
			mask: 1 << i,
			ctrl: rp.DMA_CH0_CTRL_TRIG_EN_Msk |
				size<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
				1<<rp.DMA_CH0_CTRL_TRIG_INCR_READ_Pos |
				target.TxDREQ()<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos |
				uint32(i)<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos,
		}
		return ch, nil
	}
	return nil, ErrNoChannel
}

type channel[T Word] struct {
	idx  uint8
	hw   *channelHW
	dst  uint32
	mask uint32
	ctrl uint32
}

func (c *channel[T]) Start(p []T) {
	c.hw.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(unsafe.SliceData(p)))))
	c.hw.WRITE_ADDR.Set(c.dst)
	c.hw.TRANS_COUNT.Set(uint32(len(p)))
	c.hw.CTRL_TRIG.Set(c.ctrl)
}

func (c *channel[T]) Busy() bool {
	return c.hw.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_BUSY_Msk != 0
}

func (c *channel[T]) Ack() bool {
	if rp.DMA.INTS0.Get()&c.mask == 0 {
		return false
	}
	rp.DMA.INTS0.Set(c.mask)
	return true
}

// Abort works around RP2040-E13: an abort may raise a spurious completion
// interrupt, so the interrupt is masked until the abort finished.
func (c *channel[T]) Abort() {
	enabled := rp.DMA.INTE0.Get()&c.mask != 0
	rp.DMA.INTE0.ClearBits(c.mask)
	rp.DMA.CHAN_ABORT.Set(c.mask)
	for rp.DMA.CHAN_ABORT.Get()&c.mask != 0 {
	}
	rp.DMA.INTS0.Set(c.mask)
	if enabled {
		rp.DMA.INTE0.SetBits(c.mask)
	}
}

func (c *channel[T]) Enable()  { rp.DMA.INTE0.SetBits(c.mask) }
func (c *channel[T]) Disable() { rp.DMA.INTE0.ClearBits(c.mask) }

func (c *channel[T]) SetHandler(h func()) {
	state := interrupt.Disable()
	handlers[c.idx] = h
	interrupt.Restore(state)
	intr.Enable()
}
