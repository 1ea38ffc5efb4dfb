// Package profile implements piecewise-linear temperature schedules: a
// firing profile is an ordered list of (time, temperature) breakpoints
// and the setpoint at any instant is the linear interpolation between
// the two bracketing breakpoints.
package profile

import "fmt"

// Breakpoint is a single point of a firing profile. Time is in seconds
// from the start of the firing, Temperature in °C.
type Breakpoint struct {
	Time        float64 `yaml:"time"`
	Temperature float64 `yaml:"temperature"`
}

// Profile is an immutable firing schedule. Construct via New so the
// breakpoint ordering invariant holds.
type Profile struct {
	points []Breakpoint
}

// New builds a Profile from breakpoints. The sequence must be non-empty
// and strictly increasing in time.
func New(points []Breakpoint) (Profile, error) {
	if len(points) == 0 {
		return Profile{}, fmt.Errorf("profile must have at least one breakpoint")
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			return Profile{}, fmt.Errorf("profile times must be strictly increasing: breakpoint %d (t=%g) does not follow breakpoint %d (t=%g)",
				i, points[i].Time, i-1, points[i-1].Time)
		}
	}
	p := make([]Breakpoint, len(points))
	copy(p, points)
	return Profile{points: p}, nil
}

// Breakpoints returns a copy of the profile's breakpoints.
func (p Profile) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(p.points))
	copy(out, p.points)
	return out
}

// Len returns the number of breakpoints.
func (p Profile) Len() int {
	return len(p.points)
}

// Duration returns the time of the last breakpoint, in seconds.
func (p Profile) Duration() float64 {
	if len(p.points) == 0 {
		return 0.0
	}
	return p.points[len(p.points)-1].Time
}

// ValueAt returns the setpoint at time t (seconds). Before the first
// breakpoint it returns the first temperature, after the last
// breakpoint the last temperature, and in between it interpolates
// linearly between the bracketing breakpoints.
func (p Profile) ValueAt(t float64) float64 {
	if t <= p.points[0].Time {
		return p.points[0].Temperature
	}
	last := p.points[len(p.points)-1]
	if t >= last.Time {
		return last.Temperature
	}

	for i := 0; i < len(p.points)-1; i++ {
		p1, p2 := p.points[i], p.points[i+1]
		if p1.Time <= t && t <= p2.Time {
			fraction := (t - p1.Time) / (p2.Time - p1.Time)
			return p1.Temperature + fraction*(p2.Temperature-p1.Temperature)
		}
	}

	return last.Temperature
}
