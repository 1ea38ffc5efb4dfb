// Package session wires the control pipeline together: sensor readings
// in, profile setpoint lookup, ramp-limited PID step, burst-fire duty
// out. A Session owns one controller, one profile and one actuator and
// runs the low-frequency control loop; the actuator's mains-frequency
// tick runs in its own timing domain.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/itohio/gokiln/pkg/burst"
	"github.com/itohio/gokiln/pkg/config"
	"github.com/itohio/gokiln/pkg/control"
	"github.com/itohio/gokiln/pkg/gpio"
	"github.com/itohio/gokiln/pkg/profile"
	"github.com/itohio/gokiln/pkg/sensor"
)

// Snapshot is a read-only view of the control state for display. No
// feedback path: consumers cannot influence the loop through it.
type Snapshot struct {
	Timestamp time.Time
	Elapsed   float64 // seconds since the firing started
	Setpoint  float64 // °C
	Measured  float64 // °C
	Output    float64 // raw controller output
	Duty      float64 // applied duty fraction [0,1]
	RampRate  float64 // smoothed measured ramp rate (°C/min)
}

// dutySink receives the applied duty fraction. The mock sensor
// implements it so the loop closes without hardware.
type dutySink interface {
	SetDuty(fraction float64)
}

// Session runs the closed control loop for one firing.
type Session struct {
	ctrl     *control.Controller
	prof     profile.Profile
	actuator *burst.Actuator
	sens     sensor.Sensor
	period   time.Duration
	sink     dutySink

	mu       sync.RWMutex
	snapshot Snapshot
	started  time.Time
	running  bool

	cbMu      sync.RWMutex
	callbacks []func(Snapshot)
}

// New builds a Session from configuration plus the injected sensor and
// SSR pin. Configuration problems (malformed profile, bad actuator
// parameters) are rejected here, before any power is switched.
func New(cfg *config.Config, sens sensor.Sensor, pin gpio.Pin) (*Session, error) {
	prof, err := cfg.Profile.BuildProfile()
	if err != nil {
		return nil, err
	}

	actuator, err := burst.New(pin, cfg.Actuator.BurstConfig())
	if err != nil {
		return nil, err
	}

	period := cfg.Loop.Period
	if period <= 0 {
		period = 100 * time.Millisecond
	}

	s := &Session{
		ctrl:     control.New(cfg.Control),
		prof:     prof,
		actuator: actuator,
		sens:     sens,
		period:   period,
	}
	if sink, ok := sens.(dutySink); ok {
		s.sink = sink
	}
	return s, nil
}

// Profile returns the firing profile the session tracks.
func (s *Session) Profile() profile.Profile {
	return s.prof
}

// Actuator returns the session's burst-fire actuator.
func (s *Session) Actuator() *burst.Actuator {
	return s.actuator
}

// OnUpdate registers a callback invoked after every control step with
// the current snapshot. Callbacks run on the control-loop goroutine
// and must not block.
func (s *Session) OnUpdate(cb func(Snapshot)) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}

// Snapshot returns the most recent control state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run executes the control loop until ctx is cancelled or the sensor
// stream ends. It starts the actuator tick, consumes sensor readings
// at the configured loop period, and always leaves the SSR off on the
// way out.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("session already running")
	}
	s.running = true
	s.started = time.Time{}
	s.mu.Unlock()

	s.ctrl.Reset()

	if err := s.actuator.Start(); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}
	// The SSR must never outlive the loop.
	defer func() {
		if err := s.actuator.Stop(); err != nil {
			log.Printf("session: failed to stop actuator: %v", err)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	var lastStep time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reading, ok := <-s.sens.Samples():
			if !ok {
				return nil
			}

			if lastStep.IsZero() {
				// First reading anchors the profile clock.
				s.mu.Lock()
				s.started = reading.Timestamp
				s.mu.Unlock()
				s.step(reading, s.period.Seconds())
				lastStep = reading.Timestamp
				continue
			}

			dt := reading.Timestamp.Sub(lastStep)
			if dt < s.period {
				// Sensor runs faster than the control loop; skip.
				continue
			}
			s.step(reading, dt.Seconds())
			lastStep = reading.Timestamp
		}
	}
}

// step performs one control iteration for the given reading.
func (s *Session) step(r sensor.Reading, dt float64) {
	s.mu.RLock()
	elapsed := r.Timestamp.Sub(s.started).Seconds()
	s.mu.RUnlock()

	setpoint := s.prof.ValueAt(elapsed)
	s.ctrl.SetTarget(setpoint)

	output := s.ctrl.Step(r.Celsius, dt)
	duty := clampDuty(output)

	s.actuator.SetDuty(duty)
	if s.sink != nil {
		s.sink.SetDuty(duty)
	}

	snap := Snapshot{
		Timestamp: r.Timestamp,
		Elapsed:   elapsed,
		Setpoint:  setpoint,
		Measured:  r.Celsius,
		Output:    output,
		Duty:      duty,
		RampRate:  s.ctrl.RampRate(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.cbMu.RLock()
	for _, cb := range s.callbacks {
		cb(snap)
	}
	s.cbMu.RUnlock()
}

// clampDuty maps the raw controller output onto the actuator range.
// The controller does not know the actuator limits; this is the one
// place the mapping happens.
func clampDuty(output float64) float64 {
	if output < 0 {
		return 0.0
	}
	if output > 1 {
		return 1.0
	}
	return output
}
