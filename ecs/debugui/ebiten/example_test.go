package ebiten_test

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/ecs/debugui"
	debugui_ebiten "github.com/plus3/flexscene/ecs/debugui/ebiten"
)

type Counter struct {
	Clicks int
}

// overlay runs the scheduler inside the ImGui frame and draws the UI over
// whatever the game renders.
type overlay struct {
	scheduler *ecs.Scheduler
	timer     *debugui.FrameTimer
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (o *overlay) Update() error {
	ui := o.backend.Get()
	ui.BeginFrame()
	o.scheduler.Once(float64(o.timer.GetDeltaTime()))
	ui.EndFrame()
	return nil
}

func (o *overlay) Draw(screen *ebiten.Image) {
	o.backend.Get().Draw(screen)
}

func (o *overlay) Layout(w, h int) (int, int) {
	o.backend.Get().Layout(w, h)
	return w, h
}

func Example() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Counter](registry)
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	backend := debugui_ebiten.Install(storage, "debugui", 1280, 720)

	counter := storage.Spawn(Counter{})
	storage.Spawn(debugui.ImguiItem{Render: func() {
		c := ecs.ReadComponent[Counter](storage, counter)
		if imgui.BeginV("Counter", nil, imgui.WindowFlagsAlwaysAutoResize) {
			if imgui.Button("Click") {
				c.Clicks++
			}
			imgui.SameLine()
			imgui.Text(fmt.Sprintf("clicks: %d", c.Clicks))
		}
		imgui.End()
	}})
	debugui.SpawnDebugUI(storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})
	scheduler.Register(&debugui.DebugWindowsSystem{Scheduler: scheduler})

	game := &overlay{scheduler: scheduler, timer: debugui.NewFrameTimer(), backend: backend}
	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
