package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/itohio/gokiln/pkg/config"
	"github.com/itohio/gokiln/pkg/gpio"
	"github.com/itohio/gokiln/pkg/profile"
	"github.com/itohio/gokiln/pkg/sensor"
	"github.com/itohio/gokiln/pkg/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Loop.Period = 10 * time.Millisecond
	cfg.Mock = sensor.MockConfig{
		Plant:      sim.PlantConfig{Ambient: 25.0, MaxHeatingRate: 2.0, CoolingCoeff: 0.01},
		NoiseLevel: 0.0,
		SampleRate: 10 * time.Millisecond,
	}
	cfg.Profile.Points = []profile.Breakpoint{
		{Time: 0, Temperature: 25},
		{Time: 600, Temperature: 200},
	}
	return cfg
}

func TestNew_RejectsBadProfile(t *testing.T) {
	cfg := testConfig()
	cfg.Profile.Points = []profile.Breakpoint{
		{Time: 100, Temperature: 25},
		{Time: 50, Temperature: 200},
	}

	_, err := New(cfg, sensor.NewMock(cfg.Mock), gpio.NewFakePin())
	assert.Error(t, err)
}

func TestNew_RejectsBadActuatorConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Actuator.PeriodCycles = -1

	_, err := New(cfg, sensor.NewMock(cfg.Mock), gpio.NewFakePin())
	assert.Error(t, err)
}

func TestSession_RunProducesSnapshots(t *testing.T) {
	cfg := testConfig()
	mock := sensor.NewMock(cfg.Mock)
	pin := gpio.NewFakePin()

	s, err := New(cfg, mock, pin)
	require.NoError(t, err)

	var mu sync.Mutex
	var snaps []Snapshot
	s.OnUpdate(func(snap Snapshot) {
		mu.Lock()
		snaps = append(snaps, snap)
		mu.Unlock()
	})

	require.NoError(t, mock.Connect())
	defer mock.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snaps)
	for _, snap := range snaps {
		require.GreaterOrEqual(t, snap.Duty, 0.0)
		require.LessOrEqual(t, snap.Duty, 1.0)
		require.InDelta(t, 25.0, snap.Measured, 15.0, "mock kiln stays near ambient over a short run")
	}

	// The last snapshot is retrievable after the loop ends.
	last := s.Snapshot()
	assert.Equal(t, snaps[len(snaps)-1], last)
}

func TestSession_StopsActuatorOnExit(t *testing.T) {
	cfg := testConfig()
	mock := sensor.NewMock(cfg.Mock)
	pin := gpio.NewFakePin()

	s, err := New(cfg, mock, pin)
	require.NoError(t, err)

	require.NoError(t, mock.Connect())
	defer mock.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = s.Run(ctx)

	assert.False(t, s.Actuator().Running(), "actuator tick must stop with the session")
	assert.False(t, pin.Level(), "SSR must be left off")
}

func TestSession_RunEndsWhenSensorCloses(t *testing.T) {
	cfg := testConfig()
	mock := sensor.NewMock(cfg.Mock)

	s, err := New(cfg, mock, gpio.NewFakePin())
	require.NoError(t, err)

	require.NoError(t, mock.Connect())

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, mock.Close())

	select {
	case err := <-done:
		assert.NoError(t, err, "a closed sensor stream is a normal end of firing")
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after sensor close")
	}
}

func TestSession_RunnableAfterActuatorStartFailure(t *testing.T) {
	cfg := testConfig()
	mock := sensor.NewMock(cfg.Mock)

	s, err := New(cfg, mock, gpio.NewFakePin())
	require.NoError(t, err)

	// Occupy the actuator so the session's own start fails.
	require.NoError(t, s.Actuator().Start())
	require.Error(t, s.Run(context.Background()))
	require.NoError(t, s.Actuator().Stop())

	// The failed attempt must not leave the session marked running.
	require.NoError(t, mock.Connect())
	defer mock.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Run(ctx), context.DeadlineExceeded)
}

func TestSession_DoubleRunFails(t *testing.T) {
	cfg := testConfig()
	mock := sensor.NewMock(cfg.Mock)

	s, err := New(cfg, mock, gpio.NewFakePin())
	require.NoError(t, err)

	require.NoError(t, mock.Connect())
	defer mock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	assert.Error(t, s.Run(ctx), "second concurrent Run must fail")
}
