package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/itohio/gokiln/pkg/profile"
)

// Point is one simulation step's worth of observables: the simulated
// plant state plus the controller internals needed for tuning.
type Point struct {
	Time        float64 // seconds since simulation start
	Temperature float64 // simulated kiln temperature (°C)
	Setpoint    float64 // commanded setpoint (°C)
	Output      float64 // raw controller output (unbounded)
	Duty        float64 // output clamped to the actuator range [0,1]
	RampRate    float64 // smoothed measured ramp rate (°C/min)
	ITerm       float64 // integrator value (windup diagnostics)
}

// Trace is the append-only record of a simulation run.
type Trace []Point

// Final returns the last recorded point. Panics on an empty trace.
func (tr Trace) Final() Point {
	return tr[len(tr)-1]
}

// MaxSlope returns the largest absolute temperature slope between
// consecutive trace points, in the requested unit.
func (tr Trace) MaxSlope(unit profile.RateUnit) float64 {
	max := 0.0
	for i := 0; i < len(tr)-1; i++ {
		dt := tr[i+1].Time - tr[i].Time
		if dt <= 0 {
			continue
		}
		slope := (tr[i+1].Temperature - tr[i].Temperature) / dt
		if unit == profile.PerMinute {
			slope *= 60.0
		}
		if math.Abs(slope) > max {
			max = math.Abs(slope)
		}
	}
	return max
}

// AsProfile converts the simulated temperature curve back into a
// firing profile, keeping every stride-th point (stride < 1 keeps all).
// Useful for re-validating a simulated run against the same ramp-rate
// limit the input profile was checked with.
func (tr Trace) AsProfile(stride int) (profile.Profile, error) {
	if stride < 1 {
		stride = 1
	}
	points := make([]profile.Breakpoint, 0, len(tr)/stride+1)
	for i := 0; i < len(tr); i += stride {
		points = append(points, profile.Breakpoint{
			Time:        tr[i].Time,
			Temperature: tr[i].Temperature,
		})
	}
	return profile.New(points)
}

// WriteCSV writes the trace as CSV with a header row.
func (tr Trace) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "time,temperature,setpoint,output,duty,ramp_rate,i_term"); err != nil {
		return fmt.Errorf("failed to write trace header: %w", err)
	}
	for _, p := range tr {
		_, err := fmt.Fprintf(w, "%g,%g,%g,%g,%g,%g,%g\n",
			p.Time, p.Temperature, p.Setpoint, p.Output, p.Duty, p.RampRate, p.ITerm)
		if err != nil {
			return fmt.Errorf("failed to write trace row: %w", err)
		}
	}
	return nil
}

// Downsample decimates a trace to at most maxPoints points for display
// or plotting. Destination-based: reuses dst if it has sufficient
// capacity, otherwise allocates new. Returns the destination slice.
func Downsample(dst Trace, trace Trace, maxPoints int) Trace {
	if len(trace) <= maxPoints {
		if cap(dst) >= len(trace) {
			dst = dst[:len(trace)]
			copy(dst, trace)
			return dst
		}
		result := make(Trace, len(trace))
		copy(result, trace)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make(Trace, 0, maxPoints)
	}

	step := float64(len(trace)) / float64(maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i) * step)
		if idx < len(trace) {
			dst = append(dst, trace[idx])
		}
	}

	return dst
}
