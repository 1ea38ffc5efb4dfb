// Package gpio abstracts the solid-state relay output pin. The real
// implementation drives a Linux GPIO character device line; the fake
// implementation records pin transitions for tests and for running the
// daemon without hardware.
package gpio

// Pin drives a single digital output.
type Pin interface {
	// Set drives the pin high (true) or low (false).
	Set(high bool) error

	// Close drives the pin low and releases its resources.
	Close() error
}

// DefaultSSRPin is the BCM line number the SSR gate is wired to.
const DefaultSSRPin = 18
