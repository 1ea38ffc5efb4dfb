package profile

import (
	"fmt"
	"math"
)

const secondsPerMinute = 60.0

// RateUnit selects the unit a ramp rate limit is expressed in.
type RateUnit int

const (
	// PerMinute expresses rates in °C per minute.
	PerMinute RateUnit = iota
	// PerSecond expresses rates in °C per second.
	PerSecond
)

// String returns the unit spelling used in config files.
func (u RateUnit) String() string {
	switch u {
	case PerMinute:
		return "deg/min"
	case PerSecond:
		return "deg/s"
	default:
		return fmt.Sprintf("RateUnit(%d)", int(u))
	}
}

// ParseRateUnit parses a rate unit spelling. Unknown spellings are a
// configuration error.
func ParseRateUnit(s string) (RateUnit, error) {
	switch s {
	case "deg/min", "":
		return PerMinute, nil
	case "deg/s":
		return PerSecond, nil
	default:
		return PerMinute, fmt.Errorf("unknown rate unit %q (want \"deg/min\" or \"deg/s\")", s)
	}
}

// Violation reports a profile segment whose slope exceeds the allowed
// ramp rate. Segment is the index of the segment's starting breakpoint
// and Slope the signed slope in the requested unit.
type Violation struct {
	Segment int
	Slope   float64
}

// ValidateRampRate checks every segment of the profile against maxRate
// (expressed in unit). An empty result means the profile is valid.
//
// Segments with non-positive duration are skipped rather than reported;
// they cannot occur in a Profile built via New, which rejects
// non-increasing times up front.
func (p Profile) ValidateRampRate(maxRate float64, unit RateUnit) []Violation {
	var violations []Violation
	for i := 0; i < len(p.points)-1; i++ {
		dt := p.points[i+1].Time - p.points[i].Time
		if dt <= 0 {
			continue
		}
		slope := (p.points[i+1].Temperature - p.points[i].Temperature) / dt
		if unit == PerMinute {
			slope *= secondsPerMinute
		}
		if math.Abs(slope) > maxRate {
			violations = append(violations, Violation{Segment: i, Slope: slope})
		}
	}
	return violations
}

// MaxSlope returns the largest absolute segment slope of the profile in
// the requested unit. Returns 0 for a single-breakpoint profile.
func (p Profile) MaxSlope(unit RateUnit) float64 {
	max := 0.0
	for i := 0; i < len(p.points)-1; i++ {
		dt := p.points[i+1].Time - p.points[i].Time
		if dt <= 0 {
			continue
		}
		slope := (p.points[i+1].Temperature - p.points[i].Temperature) / dt
		if unit == PerMinute {
			slope *= secondsPerMinute
		}
		if math.Abs(slope) > max {
			max = math.Abs(slope)
		}
	}
	return max
}
