// Package sensor supplies kiln temperature readings. The Serial
// implementation reads the thermocouple MCU over a serial port; the
// Mock implementation simulates a kiln for development and testing
// without hardware.
package sensor

import "time"

// Reading is a single temperature measurement.
type Reading struct {
	Timestamp time.Time
	Celsius   float64
}

// Sensor defines the interface for temperature sources (real or mocked).
type Sensor interface {
	Connect() error
	Close() error
	Samples() <-chan Reading
	IsConnected() bool
}

// Ensure Serial implements Sensor.
var _ Sensor = (*Serial)(nil)

// Ensure Mock implements Sensor.
var _ Sensor = (*Mock)(nil)
