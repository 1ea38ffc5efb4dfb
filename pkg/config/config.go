// Package config loads and saves the kiln controller configuration.
// Missing files and missing fields fall back to defaults, so a bare
// installation runs with sane tuning.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gokiln/pkg/burst"
	"github.com/itohio/gokiln/pkg/control"
	"github.com/itohio/gokiln/pkg/gpio"
	"github.com/itohio/gokiln/pkg/profile"
	"github.com/itohio/gokiln/pkg/sensor"
)

// Config represents the application configuration.
type Config struct {
	Serial   SerialConfig      `yaml:"serial"`
	Control  control.Config    `yaml:"control"`
	Profile  ProfileConfig     `yaml:"profile"`
	Actuator ActuatorConfig    `yaml:"actuator"`
	Loop     LoopConfig        `yaml:"loop"`
	Mock     sensor.MockConfig `yaml:"mock"`
}

// SerialConfig contains thermocouple MCU serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ProfileConfig contains the firing profile and its ramp-rate limit.
// The time unit of the breakpoints is explicit and checked: a profile
// written in the wrong unit is rejected instead of silently producing
// a near-instant firing.
type ProfileConfig struct {
	// TimeUnit is the unit of the breakpoint times: "seconds"
	// (default), "minutes" or "milliseconds".
	TimeUnit string `yaml:"time_unit"`
	// MaxRampRate is the steepest slope the profile may command.
	MaxRampRate float64 `yaml:"max_ramp_rate"`
	// RateUnit is the unit of MaxRampRate: "deg/min" (default) or "deg/s".
	RateUnit string `yaml:"rate_unit"`
	// Points are the profile breakpoints, strictly increasing in time.
	Points []profile.Breakpoint `yaml:"points"`
}

// ActuatorConfig contains the SSR output configuration.
type ActuatorConfig struct {
	// Chip is the GPIO character device name (e.g. "gpiochip0").
	Chip string `yaml:"chip"`
	// Pin is the BCM line number of the SSR gate.
	Pin int `yaml:"pin"`
	// FreqHz is the mains frequency (typically 50 or 60).
	FreqHz int `yaml:"freq_hz"`
	// PeriodCycles is the number of AC cycles per burst period.
	PeriodCycles int `yaml:"period_cycles"`
}

// BurstConfig returns the actuator parameters as a burst.Config.
func (c ActuatorConfig) BurstConfig() burst.Config {
	return burst.Config{
		FreqHz:       c.FreqHz,
		PeriodCycles: c.PeriodCycles,
	}
}

// LoopConfig contains control loop timing.
type LoopConfig struct {
	// Period is the control loop period (default 100ms).
	Period time.Duration `yaml:"period"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: sensor.DefaultBaudRate,
		},
		Control: control.DefaultConfig(),
		Profile: ProfileConfig{
			TimeUnit:    "seconds",
			MaxRampRate: 30.0,
			RateUnit:    "deg/min",
			Points: []profile.Breakpoint{
				{Time: 0, Temperature: 25},
				{Time: 1800, Temperature: 500},
				{Time: 3600, Temperature: 950},
				{Time: 5400, Temperature: 950},
				{Time: 9000, Temperature: 150},
			},
		},
		Actuator: ActuatorConfig{
			Chip:         "gpiochip0",
			Pin:          gpio.DefaultSSRPin,
			FreqHz:       burst.DefaultFreqHz,
			PeriodCycles: burst.DefaultPeriodCycles,
		},
		Loop: LoopConfig{
			Period: 100 * time.Millisecond,
		},
		Mock: sensor.DefaultMockConfig(),
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist
// or fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values
// if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Control.Kp == 0 && c.Control.Ki == 0 && c.Control.Kd == 0 {
		c.Control = def.Control
	}
	if c.Control.IMax == 0 {
		c.Control.IMax = def.Control.IMax
	}
	if c.Control.CrossoverDistance == 0 {
		c.Control.CrossoverDistance = def.Control.CrossoverDistance
	}
	if c.Control.RampUpLimit == 0 {
		c.Control.RampUpLimit = def.Control.RampUpLimit
	}
	if c.Control.RampDownLimit == 0 {
		c.Control.RampDownLimit = def.Control.RampDownLimit
	}

	if c.Profile.TimeUnit == "" {
		c.Profile.TimeUnit = def.Profile.TimeUnit
	}
	if c.Profile.MaxRampRate == 0 {
		c.Profile.MaxRampRate = def.Profile.MaxRampRate
	}
	if c.Profile.RateUnit == "" {
		c.Profile.RateUnit = def.Profile.RateUnit
	}
	if len(c.Profile.Points) == 0 {
		c.Profile.Points = def.Profile.Points
	}

	if c.Actuator.Chip == "" {
		c.Actuator.Chip = def.Actuator.Chip
	}
	if c.Actuator.Pin == 0 {
		c.Actuator.Pin = def.Actuator.Pin
	}
	if c.Actuator.FreqHz == 0 {
		c.Actuator.FreqHz = def.Actuator.FreqHz
	}
	if c.Actuator.PeriodCycles == 0 {
		c.Actuator.PeriodCycles = def.Actuator.PeriodCycles
	}

	if c.Loop.Period == 0 {
		c.Loop.Period = def.Loop.Period
	}

	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.Plant.MaxHeatingRate == 0 {
		c.Mock.Plant = def.Mock.Plant
	}
}
