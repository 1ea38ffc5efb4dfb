// Package sim provides a discrete-time thermal model of the kiln and a
// driver that closes the loop between the model, the controller and a
// firing profile. It exists to validate and tune the controller without
// hardware; nothing in the production control path depends on it.
package sim

// PlantConfig describes the first-order thermal model of the kiln.
type PlantConfig struct {
	// Ambient is the ambient temperature (°C); the plant starts there.
	Ambient float64 `yaml:"ambient"`
	// MaxHeatingRate is the heating rate at full power (°C/s).
	MaxHeatingRate float64 `yaml:"max_heating_rate"`
	// CoolingCoeff scales heat loss toward ambient (1/s).
	CoolingCoeff float64 `yaml:"cooling_coeff"`
}

// DefaultPlantConfig returns the tube-furnace model the default tuning
// was derived with.
func DefaultPlantConfig() PlantConfig {
	return PlantConfig{
		Ambient:        25.0,
		MaxHeatingRate: 2.0,
		CoolingCoeff:   0.01,
	}
}

// Plant is an Euler-integrated kiln model: heating is proportional to
// the applied duty, cooling to the excess over ambient.
type Plant struct {
	cfg PlantConfig

	// Temperature is the current simulated temperature (°C).
	Temperature float64
}

// NewPlant creates a Plant at ambient temperature.
func NewPlant(cfg PlantConfig) *Plant {
	return &Plant{
		cfg:         cfg,
		Temperature: cfg.Ambient,
	}
}

// Step advances the model by dt seconds with the given duty fraction
// applied and returns the new temperature.
func (p *Plant) Step(duty, dt float64) float64 {
	heating := duty * p.cfg.MaxHeatingRate
	cooling := p.cfg.CoolingCoeff * (p.Temperature - p.cfg.Ambient)
	p.Temperature += dt * (heating - cooling)
	return p.Temperature
}

// ToDuty maps a raw controller output onto the actuator range: negative
// output clamps to 0, output above 1 clamps to 1.
func ToDuty(output float64) float64 {
	if output < 0 {
		return 0.0
	}
	if output > 1 {
		return 1.0
	}
	return output
}
