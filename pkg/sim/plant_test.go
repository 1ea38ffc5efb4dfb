package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlant_StartsAtAmbient(t *testing.T) {
	p := NewPlant(DefaultPlantConfig())
	assert.Equal(t, 25.0, p.Temperature)
}

func TestPlant_StepHeating(t *testing.T) {
	p := NewPlant(PlantConfig{Ambient: 25.0, MaxHeatingRate: 2.0, CoolingCoeff: 0.01})

	// At ambient there is no cooling: one second at full power adds
	// exactly the max heating rate.
	got := p.Step(1.0, 1.0)
	assert.InDelta(t, 27.0, got, 1e-9)

	// Now 2 °C above ambient: cooling removes 0.01*2 °C/s.
	got = p.Step(1.0, 1.0)
	assert.InDelta(t, 28.98, got, 1e-9)
}

func TestPlant_CoolsTowardAmbientWithoutPower(t *testing.T) {
	p := NewPlant(PlantConfig{Ambient: 25.0, MaxHeatingRate: 2.0, CoolingCoeff: 0.1})
	p.Temperature = 125.0

	prev := p.Temperature
	for i := 0; i < 1000; i++ {
		got := p.Step(0.0, 1.0)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
	assert.InDelta(t, 25.0, p.Temperature, 0.1)
}

func TestToDuty(t *testing.T) {
	assert.Equal(t, 0.0, ToDuty(-5.0))
	assert.Equal(t, 0.0, ToDuty(0.0))
	assert.Equal(t, 0.5, ToDuty(0.5))
	assert.Equal(t, 1.0, ToDuty(1.0))
	assert.Equal(t, 1.0, ToDuty(42.0))
}
