// Package burst implements zero-cross burst-fire power control for a
// solid-state relay. The relay can only be fully on or off for a whole
// mains half-cycle, so a fractional power level is approximated by
// switching the load on for a number of cycles out of a fixed-length
// period of cycles.
//
// Two timing domains touch an Actuator: the control loop calls SetDuty
// at its own cadence, and a periodic tick at the mains frequency drives
// the pin cycle by cycle. The requested duty crosses between the
// domains through a single atomic slot and is consumed only at period
// boundaries, so a burst period is never split between two duty levels.
package burst

import (
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itohio/gokiln/pkg/gpio"
)

const (
	// DefaultFreqHz is the default mains frequency.
	DefaultFreqHz = 60
	// DefaultPeriodCycles is the default number of AC cycles per burst
	// period.
	DefaultPeriodCycles = 20
)

// Config holds the actuator parameters.
type Config struct {
	// FreqHz is the mains frequency the tick runs at (typically 50 or 60).
	FreqHz int `yaml:"freq_hz"`
	// PeriodCycles is the number of AC cycles in one burst period.
	PeriodCycles int `yaml:"period_cycles"`
	// InitialDuty is the power fraction applied before the first
	// SetDuty call, clamped to [0,1].
	InitialDuty float64 `yaml:"initial_duty"`
}

// DefaultConfig returns the standard 60 Hz, 20-cycle configuration.
func DefaultConfig() Config {
	return Config{
		FreqHz:       DefaultFreqHz,
		PeriodCycles: DefaultPeriodCycles,
		InitialDuty:  0.0,
	}
}

// Actuator maps a duty fraction onto per-cycle ON/OFF decisions.
//
// Tick is exported so tests (and alternative timer sources) can drive
// the actuator deterministically; Start runs an internal ticker at the
// mains frequency. activeDuty, onCycles and counter are written only
// from the tick domain; pending is written only from the control
// domain.
type Actuator struct {
	pin          gpio.Pin
	freqHz       int
	periodCycles int

	pending atomic.Uint64 // float64 bits of the requested duty

	// Tick-domain state. Stored atomically so diagnostics reads from
	// other goroutines are torn-free; only Tick writes them.
	activeDuty atomic.Uint64 // float64 bits
	onCycles   atomic.Int64
	counter    atomic.Int64

	// tickMu serializes pin writes: a Tick holds it for its whole body,
	// and Stop holds it for the final low write, so a tick already in
	// flight can never drive the pin high after Stop has cut power.
	tickMu sync.Mutex

	mu      sync.Mutex // guards ticker lifecycle
	ticker  *time.Ticker
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates an Actuator driving the given pin. The pin is left low.
func New(pin gpio.Pin, cfg Config) (*Actuator, error) {
	if pin == nil {
		return nil, fmt.Errorf("burst: pin must not be nil")
	}
	if cfg.FreqHz <= 0 {
		return nil, fmt.Errorf("burst: freq_hz must be positive, got %d", cfg.FreqHz)
	}
	if cfg.PeriodCycles <= 0 {
		return nil, fmt.Errorf("burst: period_cycles must be positive, got %d", cfg.PeriodCycles)
	}

	a := &Actuator{
		pin:          pin,
		freqHz:       cfg.FreqHz,
		periodCycles: cfg.PeriodCycles,
	}
	duty := clampDuty(cfg.InitialDuty)
	a.pending.Store(math.Float64bits(duty))
	a.applyDuty(duty)
	return a, nil
}

// SetDuty requests a new power fraction, clamped to [0,1]. The request
// takes effect at the next period boundary. Callable at any time from
// the control loop.
func (a *Actuator) SetDuty(fraction float64) {
	a.pending.Store(math.Float64bits(clampDuty(fraction)))
}

// Tick performs one mains half-cycle: drives the pin according to the
// position within the current burst period, then advances the cycle
// counter, consuming the pending duty when the period wraps.
func (a *Actuator) Tick() {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()

	c := a.counter.Load()

	on := c < a.onCycles.Load()
	if err := a.pin.Set(on); err != nil {
		log.Printf("burst: failed to set SSR pin: %v", err)
	}

	c++
	if c >= int64(a.periodCycles) {
		c = 0
		a.applyDuty(math.Float64frombits(a.pending.Load()))
	}
	a.counter.Store(c)
}

// applyDuty installs duty as the active duty. Tick domain only (and
// construction, before any tick can run).
func (a *Actuator) applyDuty(duty float64) {
	a.activeDuty.Store(math.Float64bits(duty))
	a.onCycles.Store(int64(math.Round(float64(a.periodCycles) * duty)))
}

// Start begins ticking at the mains frequency. The pending duty is
// preserved across Stop/Start. Returns an error if already running.
func (a *Actuator) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("burst: already running")
	}

	a.ticker = time.NewTicker(time.Second / time.Duration(a.freqHz))
	a.done = make(chan struct{})
	a.running = true

	a.wg.Add(1)
	go func(ticker *time.Ticker, done chan struct{}) {
		defer a.wg.Done()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				a.Tick()
			}
		}
	}(a.ticker, a.done)

	return nil
}

// Stop halts the tick and forces the pin low immediately. Stopping
// bypasses the period-boundary rule: cutting power must not wait for
// the current period to finish. Stop joins the tick goroutine and
// waits out any tick already driving the pin, so the low write is
// always the last one.
func (a *Actuator) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		a.ticker.Stop()
		close(a.done)
		a.wg.Wait()
		a.running = false
	}

	a.tickMu.Lock()
	defer a.tickMu.Unlock()
	if err := a.pin.Set(false); err != nil {
		return fmt.Errorf("burst: failed to force SSR pin low: %w", err)
	}
	return nil
}

// Running reports whether the internal ticker is active.
func (a *Actuator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Duty returns the duty fraction currently being applied.
func (a *Actuator) Duty() float64 {
	return math.Float64frombits(a.activeDuty.Load())
}

// PendingDuty returns the most recently requested duty fraction.
func (a *Actuator) PendingDuty() float64 {
	return math.Float64frombits(a.pending.Load())
}

// OnCycles returns the number of ON cycles in the current burst period.
func (a *Actuator) OnCycles() int {
	return int(a.onCycles.Load())
}

// PeriodCycles returns the burst period length in cycles.
func (a *Actuator) PeriodCycles() int {
	return a.periodCycles
}

func clampDuty(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0.0
	}
	if f > 1 {
		return 1.0
	}
	return f
}
