package sim

import (
	"strings"
	"testing"

	"github.com/itohio/gokiln/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampTrace(n int, dt, slopePerSec float64) Trace {
	tr := make(Trace, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		tr = append(tr, Point{Time: t, Temperature: 25.0 + slopePerSec*t})
	}
	return tr
}

func TestTrace_MaxSlope(t *testing.T) {
	tr := rampTrace(100, 1.0, 0.5) // 0.5 °C/s = 30 °C/min

	assert.InDelta(t, 0.5, tr.MaxSlope(profile.PerSecond), 1e-9)
	assert.InDelta(t, 30.0, tr.MaxSlope(profile.PerMinute), 1e-9)
}

func TestTrace_AsProfile(t *testing.T) {
	tr := rampTrace(100, 1.0, 1.0)

	p, err := tr.AsProfile(10)
	require.NoError(t, err)

	assert.Equal(t, 10, p.Len())
	assert.InDelta(t, 25.0, p.ValueAt(0), 1e-9)
	assert.InDelta(t, 75.0, p.ValueAt(50), 1e-9)
}

func TestTrace_AsProfileEmpty(t *testing.T) {
	_, err := Trace{}.AsProfile(1)
	assert.Error(t, err)
}

func TestTrace_WriteCSV(t *testing.T) {
	tr := rampTrace(3, 0.1, 1.0)

	var sb strings.Builder
	require.NoError(t, tr.WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,temperature,setpoint,output,duty,ramp_rate,i_term", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,25,"))
}

func TestDownsample_KeepsAllWhenSmall(t *testing.T) {
	tr := rampTrace(5, 1.0, 1.0)

	out := Downsample(nil, tr, 10)
	assert.Len(t, out, 5)
	assert.Equal(t, tr, out)
}

func TestDownsample_Decimates(t *testing.T) {
	tr := rampTrace(1000, 1.0, 1.0)

	out := Downsample(nil, tr, 100)
	require.Len(t, out, 100)
	// First point is preserved; order is preserved.
	assert.Equal(t, tr[0], out[0])
	for i := 1; i < len(out); i++ {
		require.Greater(t, out[i].Time, out[i-1].Time)
	}
}

func TestDownsample_ReusesDst(t *testing.T) {
	tr := rampTrace(1000, 1.0, 1.0)
	dst := make(Trace, 0, 100)

	out := Downsample(dst, tr, 100)
	assert.Len(t, out, 100)
	// Capacity was sufficient: the destination backing array is reused.
	assert.Equal(t, 100, cap(out))
}
