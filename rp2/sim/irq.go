package sim

import "sync"

// IRQ is an interrupt line. While masked, raising the interrupt waits for
// Enable. Disable waits for a running handler to return.
type IRQ struct {
	mu      sync.Mutex
	cond    sync.Cond
	masked  bool
	running bool
	handler func()
	raised  int
}

func (i *IRQ) init() {
	if i.cond.L == nil {
		i.cond.L = &i.mu
	}
}

func (i *IRQ) Enable() {
	i.mu.Lock()
	i.init()
	i.masked = false
	i.cond.Broadcast()
	i.mu.Unlock()
}

func (i *IRQ) Disable() {
	i.mu.Lock()
	i.init()
	for i.running {
		i.cond.Wait()
	}
	i.masked = true
	i.mu.Unlock()
}

func (i *IRQ) SetHandler(h func()) {
	i.mu.Lock()
	i.handler = h
	i.mu.Unlock()
}

// Raise delivers the interrupt. Without a handler it is a no-op.
func (i *IRQ) Raise() {
	i.mu.Lock()
	i.init()
	for i.masked || i.running {
		i.cond.Wait()
	}
	h := i.handler
	if h == nil {
		i.mu.Unlock()
		return
	}
	i.running = true
	i.raised++
	i.mu.Unlock()

	h()

	i.mu.Lock()
	i.running = false
	i.cond.Broadcast()
	i.mu.Unlock()
}

// Raised returns the number of handler invocations.
func (i *IRQ) Raised() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.raised
}
