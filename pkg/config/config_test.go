package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Control, cfg.Control)
	assert.Equal(t, def.Actuator, cfg.Actuator)
	assert.Equal(t, def.Loop.Period, cfg.Loop.Period)
	assert.NotEmpty(t, cfg.Profile.Points)
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
serial:
  port: /dev/ttyUSB7
control:
  kp: 1.5
  ki: 0.1
  kd: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB7", cfg.Serial.Port)
	assert.Equal(t, 1.5, cfg.Control.Kp)
	// Unset fields come from defaults.
	assert.Equal(t, Default().Control.IMax, cfg.Control.IMax)
	assert.Equal(t, Default().Actuator.PeriodCycles, cfg.Actuator.PeriodCycles)
	assert.Equal(t, 100*time.Millisecond, cfg.Loop.Period)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("control: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Control.Kp = 0.7
	cfg.Actuator.FreqHz = 50
	cfg.Profile.MaxRampRate = 25.0

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Control, loaded.Control)
	assert.Equal(t, cfg.Actuator, loaded.Actuator)
	assert.Equal(t, cfg.Profile, loaded.Profile)
	assert.Equal(t, cfg.Loop.Period, loaded.Loop.Period)
}

func TestActuatorConfig_BurstConfig(t *testing.T) {
	a := ActuatorConfig{Chip: "gpiochip0", Pin: 18, FreqHz: 50, PeriodCycles: 25}

	b := a.BurstConfig()
	assert.Equal(t, 50, b.FreqHz)
	assert.Equal(t, 25, b.PeriodCycles)
}
