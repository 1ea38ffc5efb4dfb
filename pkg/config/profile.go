package config

import (
	"fmt"

	"github.com/itohio/gokiln/pkg/profile"
)

// timeUnitToSeconds maps the accepted profile time units to their
// length in seconds.
var timeUnitToSeconds = map[string]float64{
	"seconds":      1.0,
	"minutes":      60.0,
	"milliseconds": 0.001,
}

// BuildProfile constructs the firing profile from the configured
// breakpoints, converting times to seconds according to TimeUnit.
// Unknown units and malformed breakpoint sequences are configuration
// errors.
func (c ProfileConfig) BuildProfile() (profile.Profile, error) {
	unit := c.TimeUnit
	if unit == "" {
		unit = "seconds"
	}
	scale, ok := timeUnitToSeconds[unit]
	if !ok {
		return profile.Profile{}, fmt.Errorf("unknown profile time unit %q (want \"seconds\", \"minutes\" or \"milliseconds\")", c.TimeUnit)
	}

	points := make([]profile.Breakpoint, len(c.Points))
	for i, p := range c.Points {
		points[i] = profile.Breakpoint{
			Time:        p.Time * scale,
			Temperature: p.Temperature,
		}
	}

	prof, err := profile.New(points)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("invalid firing profile: %w", err)
	}
	return prof, nil
}

// BuildRateUnit parses the configured ramp-rate unit.
func (c ProfileConfig) BuildRateUnit() (profile.RateUnit, error) {
	return profile.ParseRateUnit(c.RateUnit)
}

// Validate builds the profile and checks it against the configured
// ramp-rate limit. Returns the profile, the parsed rate unit, and the
// list of violating segments (empty when valid).
func (c ProfileConfig) Validate() (profile.Profile, profile.RateUnit, []profile.Violation, error) {
	prof, err := c.BuildProfile()
	if err != nil {
		return profile.Profile{}, 0, nil, err
	}
	unit, err := c.BuildRateUnit()
	if err != nil {
		return profile.Profile{}, 0, nil, err
	}
	return prof, unit, prof.ValidateRampRate(c.MaxRampRate, unit), nil
}
