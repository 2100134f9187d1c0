// Command ecs-stress populates a store with random entities and churns its
// structure every frame while two systems run, then prints a report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/flexscene/ecs"
)

// Config holds the command line settings of one run.
type Config struct {
	Duration     time.Duration
	Entities     int
	Churn        int
	CompactEvery int
	Seed         int64
	GCPauses     bool
}

func main() {
	var cfg Config
	flag.DurationVar(&cfg.Duration, "duration", 10*time.Second, "How long to run.")
	flag.IntVar(&cfg.Entities, "entities", 10000, "Entities spawned before the first frame.")
	flag.IntVar(&cfg.Churn, "churn", 200, "Random structural changes applied per frame.")
	flag.IntVar(&cfg.CompactEvery, "compact-every", 120, "Call ShrinkToFit every N frames (0 disables).")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Random seed.")
	flag.BoolVar(&cfg.GCPauses, "gc-pause-metrics", false, "Include total GC pause time in the report.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	report, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("stress test failed", "error", err)
		os.Exit(1)
	}
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}

// run churns a fresh store until ctx is done and reports on it. The store
// is checked for consistency before returning.
func run(ctx context.Context, cfg Config, logger *slog.Logger) (*Report, error) {
	logger.Info("starting", "entities", cfg.Entities, "churn", cfg.Churn, "seed", cfg.Seed)

	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(logger), ecs.WithCompaction(cfg.CompactEvery))
	expiry := &ExpirySystem{}
	scheduler.Register(&MovementSystem{})
	scheduler.Register(expiry)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for range cfg.Entities {
		spawnRandom(storage, rng, rng.Intn(len(componentTypes))+1)
	}
	logger.Info("populated", "archetypes", len(storage.Archetypes()))

	report := &Report{Config: cfg, Components: registry.Width(), Systems: 2}
	runtime.ReadMemStats(&report.MemBefore)

	var update, churnTime Timings
	start := time.Now()
	last := start
	for ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		report.Destroyed += churn(storage, rng, cfg.Churn)
		churnTime.Add(time.Since(now))

		began := time.Now()
		scheduler.Once(dt.Seconds())
		update.Add(time.Since(began))

		if n := update.Len(); n%1000 == 0 {
			logger.Debug("progress", "frame", n, "live", storage.Len(), "archetypes", len(storage.Archetypes()))
		}
	}

	report.Frames = update.Len()
	report.Elapsed = time.Since(start)
	report.Update = update.Summarize()
	report.Churn = churnTime.Summarize()
	report.Expired = expiry.Expired
	report.Store = storage.CollectStats()
	runtime.ReadMemStats(&report.MemAfter)

	if err := storage.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("after %d frames: %w", report.Frames, err)
	}
	logger.Info("finished", "frames", report.Frames, "elapsed", report.Elapsed)
	return report, nil
}
