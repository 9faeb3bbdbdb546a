//go:build tinygo && rp2040

package pio

import (
	"machine"
	"unsafe"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// DREQ numbers of the TX FIFOs, see RP2040 datasheet 2.5.3.1.
const (
	dreqPIO0TX0 = 0x0
	dreqPIO1TX0 = 0x8
)

// Machine is a claimed state machine with its program loaded.
type Machine struct {
	rp2pio.StateMachine
	offset uint8
}

// TxAddr returns the bus address of the TX FIFO, the write target for DMA.
func (m *Machine) TxAddr() uintptr {
	return uintptr(unsafe.Pointer(m.TxReg()))
}

// TxDREQ returns the data request line pacing DMA into the TX FIFO.
func (m *Machine) TxDREQ() uint32 {
	return dreqPIO0TX0 + uint32(m.PIO().BlockIndex())*(dreqPIO1TX0-dreqPIO0TX0) +
		uint32(m.StateMachineIndex())
}

func load(block *rp2pio.PIO, p *Program) (m *Machine, cfg rp2pio.StateMachineConfig, err error) {
	sm, err := block.ClaimStateMachine()
	if err != nil {
		return nil, cfg, err
	}
	offset, err := block.AddProgram(p.Instructions, p.Origin)
	if err != nil {
		sm.Unclaim()
		return nil, cfg, err
	}
	cfg = rp2pio.DefaultStateMachineConfig()
	cfg.SetWrap(offset+p.WrapTarget, offset+p.Wrap)
	cfg.SetSidesetParams(p.SideSetBits, false, false)
	return &Machine{StateMachine: sm, offset: offset}, cfg, nil
}

// NewI2S claims a state machine on block and configures it as I2S
// transmitter. LRCLK is the pin following bclk. The state machine is left
// disabled.
func NewI2S(block *rp2pio.PIO, din, bclk machine.Pin, sampleRate uint32) (*Machine, error) {
	m, cfg, err := load(block, &I2S)
	if err != nil {
		return nil, err
	}
	pinCfg := machine.PinConfig{Mode: block.PinMode()}
	din.Configure(pinCfg)
	bclk.Configure(pinCfg)
	(bclk + 1).Configure(pinCfg)

	cfg.SetOutPins(din, 1)
	cfg.SetSidesetPins(bclk)
	cfg.SetOutShift(false, true, 32)
	cfg.SetFIFOJoin(rp2pio.FifoJoinTx)
	whole, frac, err := rp2pio.ClkDivFromFrequency(sampleRate*I2SCyclesPerFrame, machine.CPUFrequency())
	if err != nil {
		return nil, err
	}
	cfg.SetClkDivIntFrac(whole, frac)

	m.Init(m.offset, cfg)
	pinMask := uint32(1<<din) | uint32(0b11<<bclk)
	m.SetPindirsMasked(pinMask, pinMask)
	m.SetPinsMasked(0, pinMask)
	m.Exec(rp2pio.EncodeJmp(m.offset+I2S.EntryPoint, rp2pio.JmpAlways))
	m.SetEnabled(false)
	return m, nil
}

// NewST7789 claims a state machine on block and configures it as serial
// writer for the panel. The bit clock is sysclk/(2*clkdiv).
func NewST7789(block *rp2pio.PIO, din, clk machine.Pin, clkdiv uint16) (*Machine, error) {
	m, cfg, err := load(block, &ST7789)
	if err != nil {
		return nil, err
	}
	pinCfg := machine.PinConfig{Mode: block.PinMode()}
	din.Configure(pinCfg)
	clk.Configure(pinCfg)

	cfg.SetOutPins(din, 1)
	cfg.SetSidesetPins(clk)
	cfg.SetOutShift(false, true, 8)
	cfg.SetFIFOJoin(rp2pio.FifoJoinTx)
	cfg.SetClkDivIntFrac(clkdiv, 0)

	m.Init(m.offset, cfg)
	pinMask := uint32(1<<din) | uint32(1<<clk)
	m.SetPindirsMasked(pinMask, pinMask)
	m.SetPinsMasked(0, pinMask)
	m.SetEnabled(true)
	return m, nil
}
