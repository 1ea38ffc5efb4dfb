package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRampRate_ReportsViolations(t *testing.T) {
	p, err := New([]Breakpoint{
		{Time: 0, Temperature: 25},
		{Time: 300, Temperature: 200},
		{Time: 600, Temperature: 500},
	})
	require.NoError(t, err)

	violations := p.ValidateRampRate(30.0, PerMinute)

	require.Len(t, violations, 2)
	assert.Equal(t, 0, violations[0].Segment)
	assert.InDelta(t, 35.0, violations[0].Slope, 1e-9)
	assert.Equal(t, 1, violations[1].Segment)
	assert.InDelta(t, 60.0, violations[1].Slope, 1e-9)
}

func TestValidateRampRate_ValidProfile(t *testing.T) {
	p, err := New([]Breakpoint{
		{Time: 0, Temperature: 25},
		{Time: 600, Temperature: 100},
		{Time: 1200, Temperature: 200},
	})
	require.NoError(t, err)

	// Slopes are 7.5 and 10 °C/min, both under the limit.
	assert.Empty(t, p.ValidateRampRate(30.0, PerMinute))
}

func TestValidateRampRate_PerSecond(t *testing.T) {
	p, err := New([]Breakpoint{
		{Time: 0, Temperature: 0},
		{Time: 100, Temperature: 200}, // 2 °C/s
	})
	require.NoError(t, err)

	violations := p.ValidateRampRate(1.0, PerSecond)
	require.Len(t, violations, 1)
	assert.InDelta(t, 2.0, violations[0].Slope, 1e-9)

	assert.Empty(t, p.ValidateRampRate(2.5, PerSecond))
}

func TestValidateRampRate_SignedSlopeCoolingViolation(t *testing.T) {
	p, err := New([]Breakpoint{
		{Time: 0, Temperature: 900},
		{Time: 60, Temperature: 800}, // -100 °C/min
	})
	require.NoError(t, err)

	violations := p.ValidateRampRate(30.0, PerMinute)
	require.Len(t, violations, 1)
	assert.InDelta(t, -100.0, violations[0].Slope, 1e-9)
}

func TestParseRateUnit(t *testing.T) {
	u, err := ParseRateUnit("deg/min")
	require.NoError(t, err)
	assert.Equal(t, PerMinute, u)

	u, err = ParseRateUnit("deg/s")
	require.NoError(t, err)
	assert.Equal(t, PerSecond, u)

	// Empty string falls back to the default unit.
	u, err = ParseRateUnit("")
	require.NoError(t, err)
	assert.Equal(t, PerMinute, u)

	_, err = ParseRateUnit("deg/hour")
	assert.Error(t, err)
}

func TestMaxSlope(t *testing.T) {
	p, err := New([]Breakpoint{
		{Time: 0, Temperature: 25},
		{Time: 300, Temperature: 200},
		{Time: 600, Temperature: 500},
	})
	require.NoError(t, err)

	assert.InDelta(t, 60.0, p.MaxSlope(PerMinute), 1e-9)
	assert.InDelta(t, 1.0, p.MaxSlope(PerSecond), 1e-9)
}
