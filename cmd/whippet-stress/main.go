package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
)

func main() {
	scenarioPath := flag.String("scenario", "", "YAML scenario file. Defaults are used when empty.")
	duration := flag.Duration("duration", 0, "Overrides the scenario's run duration.")
	entityCount := flag.Int("entities", 0, "Overrides the scenario's steady entity count.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log storage diagnostics.")
	flag.Parse()

	sc := DefaultScenario()
	if *scenarioPath != "" {
		var err error
		if sc, err = LoadScenario(*scenarioPath); err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
	}
	if *duration > 0 {
		sc.Duration = duration.String()
	}
	if *entityCount > 0 {
		sc.Entities = *entityCount
	}
	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid scenario: %v", err)
	}
	runFor, _ := sc.Timeout()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q", *profileMode)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Printf("Starting whippet stress test %q...\n", sc.Name)

	log.Printf("Populating universe with %d entities...\n", sc.Entities)
	sim, err := NewSimulation(sc, logger)
	if err != nil {
		log.Fatalf("Failed to set up simulation: %v", err)
	}
	sim.OnProgress(func(p Progress) {
		log.Printf("frame %d: %d entities, %d spawned, %d removed\n", p.Frame, p.Entities, p.Spawned, p.Removed)
	})
	log.Println("Population complete.")

	report := &Report{
		Scenario:       sc,
		Duration:       runFor,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", runFor)
	ctx, cancel := context.WithTimeout(context.Background(), runFor)
	defer cancel()

	startTime := time.Now()
	var totalFrames int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			if err := sim.Step(deltaTime.Seconds()); err != nil {
				log.Fatalf("Simulation failed: %v", err)
			}
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			totalFrames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = totalFrames
	report.FrameTime.Finalize()
	report.Spawned = sim.spawned
	report.Removed = sim.removed
	report.LayersWeeded = sim.layersWeeded
	report.Storage = sim.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := sim.Close(); err != nil {
		log.Fatalf("Teardown failed: %v", err)
	}
	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
