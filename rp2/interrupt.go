package rp2

// IRQ is an interrupt source that can be masked.
//
// Code sharing state with a handler brackets the access with Disable and
// Enable. An interrupt raised while masked is delivered on Enable. Handlers
// never nest with themselves.
type IRQ interface {
	Enable()
	Disable()
}
