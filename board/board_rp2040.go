//go:build tinygo && rp2040

package board

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/tinybit/picobit/drivers/i2s"
	"github.com/tinybit/picobit/drivers/st7789"
	"github.com/tinybit/picobit/rp2/dma"
	"github.com/tinybit/picobit/rp2/pio"
)

type lcdPins struct{}

func (lcdPins) SetDC(high bool)      { machine.Pin(PinLCDDC).Set(high) }
func (lcdPins) SetCS(high bool)      { machine.Pin(PinLCDCS).Set(high) }
func (lcdPins) SetReset(high bool)   { machine.Pin(PinLCDReset).Set(high) }
func (lcdPins) SetBacklight(on bool) { machine.Pin(PinLCDBL).Set(on) }

// Init claims the state machines and DMA channels, brings up the panel and
// returns the board with audio stopped. It panics if a resource can't be
// claimed.
func Init() *Board {
	out := machine.PinConfig{Mode: machine.PinOutput}
	for _, p := range []machine.Pin{PinLCDCS, PinLCDDC, PinLCDReset, PinLCDBL} {
		p.Configure(out)
	}

	lcdSM, err := pio.NewST7789(rp2pio.PIO0, PinLCDDIN, PinLCDCLK, LCDClkDiv)
	if err != nil {
		panic("board: lcd: " + err.Error())
	}
	audioSM, err := pio.NewI2S(rp2pio.PIO1, PinI2SDIN, PinI2SBCLK, SampleRate)
	if err != nil {
		panic("board: i2s: " + err.Error())
	}

	lcd := st7789.New(LCDConfig, lcdSM, dma.Channels[uint8]{}, lcdPins{})
	audio := i2s.New(AudioConfig, audioSM, dma.Channels[uint32]{})
	return newBoard(audio, lcd)
}
