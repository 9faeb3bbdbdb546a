package rp2

import "sync/atomic"

const (
	slotMask = 0x3
	fresh    = 0x4
)

// Handoff passes the latest value from a single writer to a single reader
// running on another core. It keeps three slots: the writer owns the back
// slot, the reader owns the front slot and the middle slot is exchanged
// atomically. Neither side ever blocks or sees a slot the other side is
// using. A published value not yet acquired is replaced by the next Publish.
type Handoff[T any] struct {
	slots [3]T
	back  uint32 // owned by writer
	front uint32 // owned by reader
	mid   atomic.Uint32
}

// NewHandoff returns a Handoff using the given slots. Slots holding references
// (e.g. slices) must not share memory.
func NewHandoff[T any](slots [3]T) *Handoff[T] {
	h := &Handoff[T]{slots: slots, back: 0, front: 1}
	h.mid.Store(2)
	return h
}

// Back returns the slot the writer fills next. It stays valid until Publish.
func (h *Handoff[T]) Back() *T {
	return &h.slots[h.back]
}

// Publish makes the back slot the newest value and hands the writer a new back
// slot. It reports whether a previously published value was replaced before
// the reader acquired it.
func (h *Handoff[T]) Publish() (replaced bool) {
	old := h.mid.Swap(h.back | fresh)
	h.back = old & slotMask
	return old&fresh != 0
}

// Pending reports whether a published value waits to be acquired.
func (h *Handoff[T]) Pending() bool {
	return h.mid.Load()&fresh != 0
}

// Acquire returns the newest published value. If nothing was published since
// the last call it returns the previous front slot and false. The returned
// slot stays valid until the next Acquire.
func (h *Handoff[T]) Acquire() (v *T, ok bool) {
	if h.mid.Load()&fresh == 0 {
		return &h.slots[h.front], false
	}
	old := h.mid.Swap(h.front)
	h.front = old & slotMask
	return &h.slots[h.front], true
}
