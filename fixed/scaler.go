package fixed

// Scaler maps indices of a destination extent onto a source extent by nearest
// neighbour sampling. The ratio is computed once, mapping is a multiply and a
// shift, stepping is an add.
//
// The step is rounded up, so for destination extents up to 256 every index
// maps exactly to floor(i*src/dst).
type Scaler struct {
	step UInt16_16
	acc  UInt16_16
}

// NewScaler returns a Scaler mapping dst indices onto src indices.
func NewScaler(src, dst int) Scaler {
	if src <= 0 || dst <= 0 {
		panic("fixed: invalid scaler extent")
	}
	step := (uint64(src)<<16 + uint64(dst) - 1) / uint64(dst)
	return Scaler{step: UInt16_16(step)}
}

// Step returns the source distance between two adjacent destination indices.
func (s *Scaler) Step() UInt16_16 { return s.step }

// Map returns the source index of destination index i.
func (s *Scaler) Map(i int) int { return s.step.MulInt(i) }

// Reset rewinds the accumulator to destination index 0.
func (s *Scaler) Reset() { s.acc = 0 }

// Next returns the source index of the current destination index and advances
// to the next one.
func (s *Scaler) Next() int {
	i := s.acc.Floor()
	s.acc += s.step
	return i
}

// Table fills tab with the source index of each destination index.
func (s *Scaler) Table(tab []uint16) {
	var acc UInt16_16
	for i := range tab {
		tab[i] = uint16(acc.Floor())
		acc += s.step
	}
}
