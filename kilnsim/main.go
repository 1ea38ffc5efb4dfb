// kilnsim validates a firing profile and simulates the closed control
// loop against the thermal plant model, writing the trace as CSV for
// plotting and tuning.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/itohio/gokiln/pkg/config"
	"github.com/itohio/gokiln/pkg/sim"
)

func main() {
	var (
		configFlag    = flag.String("config", "config.yaml", "Configuration file path")
		targetFlag    = flag.Float64("target", 0, "Fixed setpoint (°C); 0 simulates the configured profile instead")
		timeFlag      = flag.Float64("time", 0, "Simulation length in seconds; 0 = profile duration plus a 10 minute hold")
		dtFlag        = flag.Float64("dt", 0.1, "Simulation time step in seconds")
		outFlag       = flag.String("o", "", "Trace CSV output path (empty = no trace written)")
		maxPointsFlag = flag.Int("max-points", 0, "Downsample the written trace to at most this many points (0 = keep all)")
		forceFlag     = flag.Bool("force", false, "Simulate even if the profile violates its ramp-rate limit")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	prof, unit, violations, err := cfg.Profile.Validate()
	if err != nil {
		log.Fatalf("Invalid firing profile: %v", err)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Printf("Segment starting at index %d has a slope of %.2f %s, which exceeds %.2f %s.\n",
				v.Segment, v.Slope, unit, cfg.Profile.MaxRampRate, unit)
		}
		if !*forceFlag {
			os.Exit(1)
		}
	} else {
		fmt.Println("Profile is valid: all segments are within the allowed ramp rate.")
	}

	simTime := *timeFlag
	if simTime <= 0 {
		simTime = prof.Duration() + 600.0
	}

	var trace sim.Trace
	if *targetFlag > 0 {
		fmt.Printf("Simulating fixed target %.1f °C for %.0f s (dt=%.2g s)\n", *targetFlag, simTime, *dtFlag)
		trace = sim.RunTarget(cfg.Mock.Plant, cfg.Control, *targetFlag, simTime, *dtFlag)
	} else {
		fmt.Printf("Simulating firing profile (%d breakpoints, %.0f s) for %.0f s (dt=%.2g s)\n",
			prof.Len(), prof.Duration(), simTime, *dtFlag)
		trace = sim.RunProfile(cfg.Mock.Plant, cfg.Control, prof, simTime, *dtFlag)
	}

	if len(trace) == 0 {
		log.Fatalf("Simulation produced no samples; check -time and -dt")
	}

	final := trace.Final()
	fmt.Printf("Final temperature: %.1f °C (setpoint %.1f °C)\n", final.Temperature, final.Setpoint)
	fmt.Printf("Steepest simulated slope: %.2f %s (limit %.2f %s)\n",
		trace.MaxSlope(unit), unit, cfg.Profile.MaxRampRate, unit)

	if *outFlag != "" {
		out := trace
		if *maxPointsFlag > 0 {
			out = sim.Downsample(nil, trace, *maxPointsFlag)
		}
		f, err := os.Create(*outFlag)
		if err != nil {
			log.Fatalf("Failed to create trace file: %v", err)
		}
		defer f.Close()
		if err := out.WriteCSV(f); err != nil {
			log.Fatalf("Failed to write trace: %v", err)
		}
		fmt.Printf("Wrote %d trace points to %s\n", len(out), *outFlag)
	}
}
