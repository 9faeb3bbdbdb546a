// Package pio describes the programmable I/O state machines driving the
// audio and display links.
package pio

// StateMachine is a PIO state machine fed through its TX FIFO.
type StateMachine interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
	Restart()
	ClearFIFOs()
	TxPut(data uint32)
	IsTxFIFOFull() bool
	IsTxFIFOEmpty() bool
}

// Program is an assembled PIO program together with the configuration pioasm
// derives from its directives.
type Program struct {
	Name         string
	Instructions []uint16
	Origin       int8 // -1 for relocatable programs
	WrapTarget   uint8
	Wrap         uint8
	SideSetBits  uint8
	EntryPoint   uint8
}

// Put writes data into the TX FIFO of sm, spinning while the FIFO is full.
func Put(sm StateMachine, data uint32) {
	for sm.IsTxFIFOFull() {
	}
	sm.TxPut(data)
}

// Drain spins until the TX FIFO of sm is empty.
func Drain(sm StateMachine) {
	for !sm.IsTxFIFOEmpty() {
	}
}
