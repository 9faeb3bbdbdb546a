package sim

import (
	"sync"

	"github.com/tinybit/picobit/rp2/pio"
)

// Sink receives the words shifted out by a state machine.
type Sink interface {
	Put(w uint32)
}

// StateMachine passes TX FIFO words to its sink while enabled. Words written
// while disabled are counted and dropped.
type StateMachine struct {
	Program *pio.Program

	mu       sync.Mutex
	sink     Sink
	enabled  bool
	restarts int
	dropped  int
}

func NewStateMachine(p *pio.Program, sink Sink) *StateMachine {
	return &StateMachine{Program: p, sink: sink}
}

func (sm *StateMachine) SetEnabled(enabled bool) {
	sm.mu.Lock()
	sm.enabled = enabled
	sm.mu.Unlock()
}

func (sm *StateMachine) IsEnabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.enabled
}

func (sm *StateMachine) Restart() {
	sm.mu.Lock()
	sm.restarts++
	sm.mu.Unlock()
}

func (sm *StateMachine) ClearFIFOs() {}

func (sm *StateMachine) TxPut(w uint32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.enabled || sm.sink == nil {
		sm.dropped++
		return
	}
	sm.sink.Put(w)
}

func (sm *StateMachine) IsTxFIFOFull() bool  { return false }
func (sm *StateMachine) IsTxFIFOEmpty() bool { return true }

// Dropped returns the number of words written while disabled.
func (sm *StateMachine) Dropped() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.dropped
}
