// kilnd runs the kiln firing daemon: it reads temperatures from the
// thermocouple MCU (or a simulated kiln with -mock), tracks the
// configured firing profile with the ramp-limited controller, and
// drives the SSR through burst-fire control on a GPIO pin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itohio/gokiln/pkg/config"
	"github.com/itohio/gokiln/pkg/gpio"
	"github.com/itohio/gokiln/pkg/sensor"
	"github.com/itohio/gokiln/pkg/session"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g. /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use a simulated kiln instead of real hardware")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Refuse to fire a profile that violates its own ramp-rate limit.
	prof, unit, violations, err := cfg.Profile.Validate()
	if err != nil {
		log.Fatalf("Invalid firing profile: %v", err)
	}
	if len(violations) > 0 {
		for _, v := range violations {
			log.Printf("Profile segment %d has a slope of %.2f %s (limit %.2f %s)",
				v.Segment, v.Slope, unit, cfg.Profile.MaxRampRate, unit)
		}
		log.Fatalf("Firing profile violates the ramp-rate limit; fix the profile or the limit")
	}

	// Build the sensor and SSR pin (real or simulated).
	var (
		sens sensor.Sensor
		pin  gpio.Pin
	)
	if *mockFlag {
		log.Printf("Using simulated kiln (mock sensor, fake SSR pin)")
		sens = sensor.NewMock(cfg.Mock)
		pin = gpio.NewFakePin()
	} else {
		sens = sensor.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, 0)
		realPin, err := gpio.NewRealPin(cfg.Actuator.Chip, cfg.Actuator.Pin)
		if err != nil {
			log.Fatalf("Failed to open SSR pin: %v", err)
		}
		pin = realPin
	}
	defer func() {
		if err := pin.Close(); err != nil {
			log.Printf("Failed to close SSR pin: %v", err)
		}
	}()

	sess, err := session.New(cfg, sens, pin)
	if err != nil {
		log.Fatalf("Failed to build control session: %v", err)
	}

	// Periodic status line for the operator.
	var lastPrint time.Time
	sess.OnUpdate(func(snap session.Snapshot) {
		if snap.Timestamp.Sub(lastPrint) < time.Second {
			return
		}
		lastPrint = snap.Timestamp
		fmt.Printf("t=%6.0fs set=%7.1f°C cur=%7.1f°C duty=%4.0f%% ramp=%6.1f°C/min\n",
			snap.Elapsed, snap.Setpoint, snap.Measured, snap.Duty*100, snap.RampRate)
	})

	if err := sens.Connect(); err != nil {
		log.Fatalf("Failed to connect sensor: %v", err)
	}
	defer sens.Close()

	log.Printf("Firing started: %d breakpoints, %.0f s profile, loop period %s",
		prof.Len(), prof.Duration(), cfg.Loop.Period)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Control loop ended with error: %v", err)
	}
	log.Printf("Firing stopped, SSR off")
}
