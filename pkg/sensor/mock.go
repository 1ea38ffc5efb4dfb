package sensor

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itohio/gokiln/pkg/sim"
)

// MockConfig contains mock sensor configuration.
type MockConfig struct {
	// Plant is the simulated kiln the readings come from.
	Plant sim.PlantConfig `yaml:"plant"`
	// NoiseLevel is the peak measurement noise (°C).
	NoiseLevel float64 `yaml:"noise_level"`
	// SampleRate is the interval between readings.
	SampleRate time.Duration `yaml:"sample_rate"`
}

// DefaultMockConfig returns a mock kiln with a little sensor noise at
// a 10 Hz sample rate.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Plant:      sim.DefaultPlantConfig(),
		NoiseLevel: 0.2,
		SampleRate: 100 * time.Millisecond,
	}
}

// Mock simulates a kiln for development and testing. It produces
// readings from a plant model; feed the control output back via
// SetDuty to close the loop without hardware.
type Mock struct {
	cfg MockConfig

	samples   chan Reading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	duty atomic.Uint64 // float64 bits, written from the control loop

	plant     *sim.Plant
	startTime time.Time
}

// NewMock creates a new mocked sensor instance.
func NewMock(cfg MockConfig) *Mock {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:     cfg,
		samples: make(chan Reading, DefaultBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		plant:   sim.NewPlant(cfg.Plant),
	}
}

// Connect starts the simulated kiln.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	go m.generateSamples()

	return nil
}

// Close stops the mocked sensor.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Samples returns the channel of simulated readings.
func (m *Mock) Samples() <-chan Reading {
	return m.samples
}

// IsConnected returns whether the mock is currently running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetDuty feeds the applied heater duty fraction back into the
// simulated kiln, clamped to [0,1].
func (m *Mock) SetDuty(fraction float64) {
	if fraction < 0 || math.IsNaN(fraction) {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	m.duty.Store(math.Float64bits(fraction))
}

// Temperature returns the current simulated kiln temperature (without
// measurement noise).
func (m *Mock) Temperature() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plant.Temperature
}

// generateSamples generates simulated readings. Close cancels the
// context and closes the samples channel without joining this
// goroutine, so a send racing the close is possible; the recover
// shields it the same way the serial reader is shielded.
func (m *Mock) generateSamples() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in generateSamples: %v", r)
		}
	}()

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			reading := m.generateSample()
			select {
			case m.samples <- reading:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateSample advances the plant by one sample interval and returns
// a noisy reading of it.
func (m *Mock) generateSample() Reading {
	now := time.Now()
	duty := math.Float64frombits(m.duty.Load())
	dt := m.cfg.SampleRate.Seconds()

	m.mu.Lock()
	temperature := m.plant.Step(duty, dt)
	m.mu.Unlock()

	// Deterministic pseudo-noise, same trick as a wobbly thermocouple.
	elapsed := now.Sub(m.startTime)
	noise := (math.Sin(float64(elapsed.Nanoseconds())*0.001) +
		math.Cos(float64(elapsed.Nanoseconds())*0.0013)) *
		m.cfg.NoiseLevel * 0.5

	return Reading{
		Timestamp: now,
		Celsius:   temperature + noise,
	}
}
