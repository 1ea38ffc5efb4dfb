package sim

import (
	"github.com/itohio/gokiln/pkg/control"
	"github.com/itohio/gokiln/pkg/profile"
)

// RunTarget simulates the closed loop against a fixed setpoint and
// returns the per-step trace.
func RunTarget(plantCfg PlantConfig, ctrlCfg control.Config, target, simTime, dt float64) Trace {
	return run(plantCfg, ctrlCfg, func(float64) float64 { return target }, simTime, dt)
}

// RunProfile simulates the closed loop tracking a firing profile and
// returns the per-step trace.
func RunProfile(plantCfg PlantConfig, ctrlCfg control.Config, prof profile.Profile, simTime, dt float64) Trace {
	return run(plantCfg, ctrlCfg, prof.ValueAt, simTime, dt)
}

// run drives the control loop against the plant model. setpointAt maps
// simulation time to the commanded setpoint.
func run(plantCfg PlantConfig, ctrlCfg control.Config, setpointAt func(t float64) float64, simTime, dt float64) Trace {
	steps := int(simTime / dt)
	trace := make(Trace, 0, steps)

	plant := NewPlant(plantCfg)
	ctrl := control.New(ctrlCfg)
	ctrl.Reset()

	t := 0.0
	for i := 0; i < steps; i++ {
		setpoint := setpointAt(t)
		ctrl.SetTarget(setpoint)

		output := ctrl.Step(plant.Temperature, dt)
		duty := ToDuty(output)
		plant.Step(duty, dt)

		trace = append(trace, Point{
			Time:        t,
			Temperature: plant.Temperature,
			Setpoint:    setpoint,
			Output:      output,
			Duty:        duty,
			RampRate:    ctrl.RampRate(),
			ITerm:       ctrl.ITerm(),
		})

		t += dt
	}

	return trace
}
