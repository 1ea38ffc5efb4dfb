package gpio

import "sync"

// FakePin is a test double that records every level written to it.
// Safe for concurrent use: the actuator tick goroutine writes levels
// while tests inspect them.
type FakePin struct {
	mu     sync.Mutex
	level  bool
	levels []bool
	closed bool

	// SetError, if set, is returned by Set.
	SetError error
}

// NewFakePin creates a FakePin, initially low.
func NewFakePin() *FakePin {
	return &FakePin{}
}

// Set records and applies the level.
func (p *FakePin) Set(high bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SetError != nil {
		return p.SetError
	}
	p.level = high
	p.levels = append(p.levels, high)
	return nil
}

// Close marks the pin closed and drives it low.
func (p *FakePin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = false
	p.closed = true
	return nil
}

// Level returns the current pin level.
func (p *FakePin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Levels returns a copy of every level written so far, in order.
func (p *FakePin) Levels() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]bool, len(p.levels))
	copy(out, p.levels)
	return out
}

// Closed reports whether Close was called.
func (p *FakePin) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
