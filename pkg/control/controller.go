// Package control implements the ramp-rate-limited PID controller used
// to drive the kiln heater. Instead of tracking the setpoint directly,
// the controller tracks a desired rate of change of the measured
// temperature, which caps how fast the kiln is allowed to approach the
// setpoint and protects the ware from thermal shock.
package control

import "math"

const (
	// SecondsPerMinute converts per-second rates to per-minute rates.
	// Ramp rates are expressed in °C/min throughout.
	SecondsPerMinute = 60.0

	// DefaultRampWindow is the default smoothing window for the
	// measured ramp rate.
	DefaultRampWindow = 10
	// DefaultDerivWindow is the default smoothing window for the
	// derivative term.
	DefaultDerivWindow = 10
)

// Config holds the immutable tuning parameters of a Controller.
type Config struct {
	Kp   float64 `yaml:"kp"`
	Ki   float64 `yaml:"ki"`
	Kd   float64 `yaml:"kd"`
	IMax float64 `yaml:"imax"` // Maximum absolute value of the integrator

	// RampUpLimit is the maximum allowed heating rate (°C/min, positive).
	RampUpLimit float64 `yaml:"ramp_up_limit"`
	// RampDownLimit is the maximum allowed cooling rate (°C/min, negative).
	RampDownLimit float64 `yaml:"ramp_down_limit"`
	// CrossoverDistance is the distance from the target (°C) within
	// which the desired ramp rate tapers linearly toward zero.
	CrossoverDistance float64 `yaml:"crossover_distance"`

	// RampWindow and DerivWindow are the smoothing window sizes for the
	// measured ramp rate and the derivative term (0 = default of 10).
	RampWindow  int `yaml:"ramp_window"`
	DerivWindow int `yaml:"deriv_window"`
}

// DefaultConfig returns tuning values that behave well on a small tube
// furnace (the values the simulator was tuned with).
func DefaultConfig() Config {
	return Config{
		Kp:                0.5,
		Ki:                0.05,
		Kd:                1.0,
		IMax:              100.0,
		RampUpLimit:       30.0,
		RampDownLimit:     -30.0,
		CrossoverDistance: 10.0,
		RampWindow:        DefaultRampWindow,
		DerivWindow:       DefaultDerivWindow,
	}
}

// Controller is a PID controller with ramp limiting and integrator
// windup protection.
//
// While the measured value is more than CrossoverDistance away from the
// target, the controller commands a constant approach rate (RampUpLimit
// or RampDownLimit); inside the crossover distance the commanded rate
// tapers linearly to zero. The PID error is the difference between that
// desired rate and the smoothed measured rate.
//
// Controller is not safe for concurrent use; Step, SetTarget and Reset
// must all be called from the control-loop goroutine.
type Controller struct {
	cfg Config

	target    float64
	measured  float64
	err       float64
	pTerm     float64
	iTerm     float64
	dTerm     float64
	hasPrev   bool
	prevValue float64

	rampRate        float64
	desiredRampRate float64
	rampAvg         *RunningAverage
	derivAvg        *RunningAverage
}

// New creates a Controller with the given tuning configuration.
func New(cfg Config) *Controller {
	rampWindow := cfg.RampWindow
	if rampWindow <= 0 {
		rampWindow = DefaultRampWindow
	}
	derivWindow := cfg.DerivWindow
	if derivWindow <= 0 {
		derivWindow = DefaultDerivWindow
	}
	return &Controller{
		cfg:      cfg,
		rampAvg:  NewRunningAverage(rampWindow),
		derivAvg: NewRunningAverage(derivWindow),
	}
}

// SetTarget sets the setpoint. Takes effect on the next Step.
func (c *Controller) SetTarget(target float64) {
	c.target = target
}

// Target returns the current setpoint.
func (c *Controller) Target() float64 {
	return c.target
}

// Reset clears the time-dependent state (previous measurement, error,
// integrator, smoothed ramp rate and both smoothing windows) while
// preserving the tuning configuration.
func (c *Controller) Reset() {
	c.hasPrev = false
	c.err = 0.0
	c.iTerm = 0.0
	c.rampRate = 0.0
	c.rampAvg.Clear()
	c.derivAvg.Clear()
}

// Step advances the controller by one control period and returns the
// raw control output. measured is the process value (°C) and dt the
// time since the previous Step (seconds).
//
// The output is unbounded; the caller maps it onto the actuator range.
// A non-positive dt is treated as a sampling anomaly: the ramp and
// derivative contributions for the step degrade to zero instead of
// dividing by zero, and the integrator is left unchanged.
func (c *Controller) Step(measured, dt float64) float64 {
	c.measured = measured

	instantaneous := 0.0
	if c.hasPrev && dt > 0 {
		instantaneous = SecondsPerMinute * (measured - c.prevValue) / dt
	}
	c.rampAvg.Add(instantaneous)
	c.rampRate = c.rampAvg.Average()
	c.prevValue = measured
	c.hasPrev = true

	prevErr := c.err

	// Convert the tracking problem into a rate-tracking problem. The
	// desired rate tapers to zero inside the crossover distance so a
	// constant-rate approach cannot overshoot the target.
	switch {
	case measured < c.target:
		c.desiredRampRate = math.Min(c.cfg.RampUpLimit,
			c.cfg.RampUpLimit*math.Abs(c.target-measured)/c.cfg.CrossoverDistance)
		c.err = c.desiredRampRate - c.rampRate
	case measured > c.target:
		c.desiredRampRate = math.Max(c.cfg.RampDownLimit,
			c.cfg.RampDownLimit*math.Abs(c.target-measured)/c.cfg.CrossoverDistance)
		c.err = c.desiredRampRate - c.rampRate
	default:
		c.err = c.target - measured
	}

	c.pTerm = c.cfg.Kp * c.err

	if dt > 0 {
		c.iTerm += c.cfg.Ki * c.err * dt
	}
	// Windup protection: clamp unconditionally after accumulation.
	c.iTerm = math.Max(math.Min(c.iTerm, c.cfg.IMax), -c.cfg.IMax)

	raw := 0.0
	if dt > 0 {
		raw = c.cfg.Kd * (c.err - prevErr) / dt
	}
	c.derivAvg.Add(raw)
	c.dTerm = c.derivAvg.Average()

	return c.pTerm + c.iTerm + c.dTerm
}

// Error returns the rate-tracking error of the last Step.
func (c *Controller) Error() float64 { return c.err }

// PTerm returns the proportional contribution of the last Step.
func (c *Controller) PTerm() float64 { return c.pTerm }

// ITerm returns the (clamped) integrator value.
func (c *Controller) ITerm() float64 { return c.iTerm }

// DTerm returns the smoothed derivative contribution of the last Step.
func (c *Controller) DTerm() float64 { return c.dTerm }

// RampRate returns the smoothed measured ramp rate (°C/min).
func (c *Controller) RampRate() float64 { return c.rampRate }

// DesiredRampRate returns the ramp rate commanded by the last Step (°C/min).
func (c *Controller) DesiredRampRate() float64 { return c.desiredRampRate }
