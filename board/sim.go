package board

import (
	"time"

	"github.com/tinybit/picobit/drivers/i2s"
	"github.com/tinybit/picobit/drivers/st7789"
	"github.com/tinybit/picobit/rp2/pio"
	"github.com/tinybit/picobit/rp2/sim"
)

// SimConfig sets the pace of the simulated peripherals. A zero AudioWordTime
// leaves audio transfers pending until completed with AudioDMA.Complete. The
// panel link always runs, at least at one word per nanosecond.
type SimConfig struct {
	AudioWordTime time.Duration
	LCDWordTime   time.Duration
}

// RealTime paces audio at SampleRate and the panel at a 62.5 MHz serial
// clock.
var RealTime = SimConfig{
	AudioWordTime: time.Second / SampleRate,
	LCDWordTime:   8 * 16 * time.Nanosecond,
}

// Sim is the board running on simulated peripherals.
type Sim struct {
	*Board

	DAC   *sim.DAC
	Panel *sim.Panel

	AudioSM  *sim.StateMachine
	AudioDMA *sim.DMA[uint32]
	LCDDMA   *sim.DMA[uint8]
}

func NewSim(cfg SimConfig) *Sim {
	if cfg.LCDWordTime <= 0 {
		cfg.LCDWordTime = time.Nanosecond
	}
	s := &Sim{
		DAC:   &sim.DAC{},
		Panel: sim.NewPanel(PanelWidth, PanelHeight),
	}
	dmac := sim.NewController(12)
	audioDMA := &sim.Allocator[uint32]{Controller: dmac, WordTime: cfg.AudioWordTime}
	lcdDMA := &sim.Allocator[uint8]{Controller: dmac, WordTime: cfg.LCDWordTime}

	lcdSM := sim.NewStateMachine(&pio.ST7789, s.Panel)
	lcdSM.SetEnabled(true)
	s.AudioSM = sim.NewStateMachine(&pio.I2S, s.DAC)

	lcd := st7789.New(LCDConfig, lcdSM, lcdDMA, s.Panel)
	audio := i2s.New(AudioConfig, s.AudioSM, audioDMA)
	s.Board = newBoard(audio, lcd)
	s.LCDDMA = lcdDMA.Claimed[0]
	s.AudioDMA = audioDMA.Claimed[0]
	return s
}
