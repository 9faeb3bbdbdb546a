// Package rp2 holds the primitives shared by the RP2040 peripheral drivers:
// maskable interrupt sources and the lock-free handoff between the two cores.
//
// Peripheral access lives in the subpackages. Package dma and pio define the
// interfaces the drivers program against, with the register level
// implementation built for TinyGo on the RP2040 only. Package sim implements
// the same interfaces on the host.
package rp2
