// Command scene-viewer loads a scene file into an ECS store and plans its
// frames headlessly, reloading the scene when the file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/render"
	"github.com/plus3/flexscene/scene"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("scene viewer failed", "error", err)
		os.Exit(1)
	}
	logger.Info("scene viewer stopped",
		"frames", summary.Frames,
		"reloads", summary.Reloads,
		"compactions", summary.Compactions,
		"passes", summary.Passes,
		"draws", summary.Draws)
}

// Summary describes a finished run.
type Summary struct {
	Frames      uint64
	Reloads     int
	Compactions int
	Passes      int
	Draws       int
}

// viewer ties a scene to the scheduler that drives it. The scheduler is
// rebuilt whenever the scene's store is replaced.
type viewer struct {
	cfg       Config
	logger    *slog.Logger
	scene     *scene.Scene
	pipeline  *render.Pipeline
	planner   *render.PlanSystem
	compactor *CompactionSystem
	scheduler *ecs.Scheduler
}

func newViewer(cfg Config, logger *slog.Logger) (*viewer, error) {
	sc, err := scene.Open(cfg.Scene, scene.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	pipeline := render.NewPipeline(render.NewResources(nil),
		render.Bloom(cfg.Bloom), render.PostProcess(cfg.PostProcess))

	v := &viewer{
		cfg:      cfg,
		logger:   logger,
		scene:    sc,
		pipeline: pipeline,
		planner: &render.PlanSystem{
			Pipeline: pipeline,
			Width:    cfg.Width,
			Height:   cfg.Height,
			Logger:   logger,
		},
		compactor: &CompactionSystem{Ratio: cfg.CompactRatio, Logger: logger},
	}
	if err := v.attach(); err != nil {
		return nil, err
	}
	return v, nil
}

// attach loads the scene's resources and registers the systems against its
// current store.
func (v *viewer) attach() error {
	resources := v.pipeline.Resources()
	resources.Offload()
	if err := resources.Load(v.scene.Storage()); err != nil {
		return err
	}
	counts := resources.Counts()
	v.logger.Debug("resources loaded", "meshes", counts.Meshes, "shaders", counts.Shaders, "textures", counts.Textures)

	v.scheduler = ecs.NewScheduler(v.scene.Storage(), ecs.WithLogger(v.logger))
	v.scheduler.Register(&scene.CameraSystem{})
	v.scheduler.Register(v.planner)
	v.scheduler.Register(v.compactor)
	return nil
}

func (v *viewer) reload() error {
	if err := v.scene.Reload(); err != nil {
		return err
	}
	return v.attach()
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) (Summary, error) {
	var summary Summary

	v, err := newViewer(cfg, logger)
	if err != nil {
		return summary, err
	}

	var events <-chan string
	if cfg.Watch {
		watcher, err := scene.NewWatcher(logger, cfg.Scene)
		if err != nil {
			return summary, fmt.Errorf("watch %s: %w", cfg.Scene, err)
		}
		defer watcher.Close()
		events = watcher.Events
	}

	ticker := time.NewTicker(cfg.Interval.Duration)
	defer ticker.Stop()
	dt := cfg.Interval.Seconds()

	for cfg.Frames == 0 || summary.Frames < uint64(cfg.Frames) {
		select {
		case <-ctx.Done():
			return v.finish(summary), nil
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if path != cfg.Scene && !sameFile(path, cfg.Scene) {
				continue
			}
			if err := v.reload(); err != nil {
				logger.Warn("scene reload failed, keeping previous scene", "path", path, "error", err)
				continue
			}
			summary.Reloads++
		case <-ticker.C:
			v.scheduler.Once(dt)
			summary.Frames++
			if last := v.planner.Last; last != nil && summary.Frames%60 == 0 {
				logger.Debug("frame planned", "frame", summary.Frames, "passes", len(last.Passes), "draws", last.DrawCount())
			}
		}
	}
	return v.finish(summary), nil
}

func (v *viewer) finish(summary Summary) Summary {
	summary.Compactions = v.compactor.Compactions
	if last := v.planner.Last; last != nil {
		summary.Passes = len(last.Passes)
		summary.Draws = last.DrawCount()
	}
	return summary
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
