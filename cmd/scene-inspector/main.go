// Command scene-inspector opens a window with the ECS debug UI over a
// loaded scene. Editing the scene file reloads it in place.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/ecs/debugui"
	debugui_ebiten "github.com/plus3/flexscene/ecs/debugui/ebiten"
	"github.com/plus3/flexscene/render"
	"github.com/plus3/flexscene/scene"
)

type Game struct {
	logger    *slog.Logger
	scene     *scene.Scene
	watcher   *scene.Watcher
	pipeline  *render.Pipeline
	planner   *render.PlanSystem
	scheduler *ecs.Scheduler
	timer     *debugui.FrameTimer
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]

	reloadRequested bool
}

// attach builds the debug UI and systems over the scene's current store.
func (g *Game) attach() {
	storage := g.scene.Storage()
	g.backend = ecs.NewSingleton(storage, *g.backend.Get())

	debugui.SpawnDebugUI(storage)
	storage.Spawn(debugui.ImguiItem{Render: g.renderScenePanel})

	g.planner.Pipeline.Resources().Offload()
	g.scheduler = ecs.NewScheduler(storage, ecs.WithLogger(g.logger))
	g.scheduler.Register(&scene.CameraSystem{})
	g.scheduler.Register(g.planner)
	g.scheduler.Register(&debugui.ImguiSystem{})
	g.scheduler.Register(&debugui.DebugWindowsSystem{Scheduler: g.scheduler})
}

func (g *Game) renderScenePanel() {
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}
	imgui.Text(fmt.Sprintf("File: %s", g.scene.Path()))
	if imgui.Button("Reload") {
		g.reloadRequested = true
	}
	imgui.SameLine()
	if imgui.Button("Toggle Bloom") {
		g.pipeline.ToggleBloom()
	}
	imgui.SameLine()
	if imgui.Button("Toggle Post-Process") {
		g.pipeline.TogglePostProcess()
	}

	imgui.Separator()
	if g.planner.Err != nil {
		imgui.TextColored(imgui.Vec4{X: 1, Y: 0.4, Z: 0.4, W: 1}, g.planner.Err.Error())
	} else if frame := g.planner.Last; frame != nil {
		for _, pass := range frame.Passes {
			imgui.Text(fmt.Sprintf("%-12s -> %-12s draws: %d", pass.Kind, pass.Target, len(pass.Draws)))
		}
	}
	imgui.End()
}

func (g *Game) reload() {
	if err := g.scene.Reload(); err != nil {
		g.logger.Warn("scene reload failed, keeping previous scene", "error", err)
		return
	}
	g.attach()
}

func (g *Game) Update() error {
	if g.watcher != nil {
		select {
		case path := <-g.watcher.Events:
			g.logger.Info("scene file changed", "path", path)
			g.reloadRequested = true
		default:
		}
	}
	if g.reloadRequested {
		g.reloadRequested = false
		g.reload()
	}

	backend := g.backend.Get()
	backend.BeginFrame()
	g.scheduler.Once(float64(g.timer.GetDeltaTime()))
	backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	var clear scene.Colour
	var background *scene.Background
	if g.scene.Storage().ReadSingleton(&background) {
		clear = background.Colour
	}
	screen.Fill(colorOf(clear))
	g.backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	g.planner.Width, g.planner.Height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func colorOf(c scene.Colour) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func main() {
	watch := flag.Bool("watch", true, "Reload the scene when its file changes.")
	width := flag.Int("width", 1600, "Window width.")
	height := flag.Int("height", 900, "Window height.")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error).")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scene-inspector [flags] <scene file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *watch, *width, *height, logger); err != nil {
		logger.Error("scene inspector failed", "error", err)
		os.Exit(1)
	}
}

func run(path string, watch bool, width, height int, logger *slog.Logger) error {
	sc, err := scene.Open(path, scene.WithLogger(logger), scene.WithComponents(debugui.RegisterDebugUIComponents))
	if err != nil {
		return err
	}

	pipeline := render.NewPipeline(render.NewResources(nil))
	g := &Game{
		logger:   logger,
		scene:    sc,
		pipeline: pipeline,
		planner:  &render.PlanSystem{Pipeline: pipeline, Width: width, Height: height, Logger: logger},
		timer:    debugui.NewFrameTimer(),
	}

	if watch {
		w, err := scene.NewWatcher(logger, path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Close()
		g.watcher = w
	}

	g.backend = debugui_ebiten.Install(sc.Storage(), "Scene Inspector", width, height)
	g.attach()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
