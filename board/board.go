// Package board wires the drivers to the TinyBit handheld: an RP2040 with a
// 240x240 ST7789 panel on PIO0 and an I2S DAC on PIO1.
package board

import (
	"image"

	"github.com/tinybit/picobit/drivers/display"
	"github.com/tinybit/picobit/drivers/i2s"
	"github.com/tinybit/picobit/drivers/st7789"
	"github.com/tinybit/picobit/framebuffer"
	"github.com/tinybit/picobit/tinybit"
)

const (
	SampleRate = 22000

	// AudioCapacity holds one frame of engine audio.
	AudioCapacity = (SampleRate + tinybit.FrameRate - 1) / tinybit.FrameRate

	PanelWidth  = 240
	PanelHeight = 240
)

// GPIO numbers.
const (
	PinLCDDIN   = 0
	PinLCDCLK   = 1
	PinLCDCS    = 2
	PinLCDDC    = 3
	PinLCDReset = 4
	PinLCDBL    = 5

	PinI2SBCLK  = 8
	PinI2SLRCLK = PinI2SBCLK + 1 // side-set pins are consecutive
	PinI2SDIN   = 10
)

// LCDClkDiv divides the system clock for the panel state machine; the serial
// clock runs at half the state machine clock.
const LCDClkDiv = 1

var (
	AudioConfig = i2s.Config{
		SampleRate: SampleRate,
		Capacity:   AudioCapacity,
	}
	LCDConfig = st7789.Config{
		Source: image.Pt(tinybit.ScreenWidth, tinybit.ScreenHeight),
		Panel:  image.Pt(PanelWidth, PanelHeight),
	}
)

// Board holds the initialised drivers.
type Board struct {
	Audio   *i2s.Driver
	LCD     *st7789.Driver
	Display *display.Display
}

func newBoard(audio *i2s.Driver, lcd *st7789.Driver) *Board {
	lcd.Start()
	lcd.Init()
	fb := framebuffer.New(image.Rectangle{Max: LCDConfig.Source})
	return &Board{
		Audio:   audio,
		LCD:     lcd,
		Display: display.New(fb, lcd),
	}
}
