package debugui

import (
	"iter"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// DebugWindowsSystem draws the windows spawned by SpawnDebugUI. The entity
// selected in the browser is shown in the inspector, and clicking an
// archetype filters the browser to it. Scheduler is optional and feeds the
// per-system latency table.
type DebugWindowsSystem struct {
	Scheduler *ecs.Scheduler

	Browsers   ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors ecs.Query[struct{ *ComponentInspectorComponent }]
	Archetypes ecs.Query[struct{ *ArchetypeViewerComponent }]
	Stats      ecs.Query[struct{ *PerformanceStatsComponent }]
	Queries    ecs.Query[struct{ *QueryDebuggerComponent }]
}

// Execute defers drawing until the frame's commands have been flushed so
// the windows show the settled store.
func (s *DebugWindowsSystem) Execute(frame *ecs.UpdateFrame) {
	storage := frame.Storage
	dt := float32(frame.DeltaTime)
	browsers := pointers(s.Browsers.Values(), func(v struct{ *EntityBrowserComponent }) *EntityBrowserComponent {
		return v.EntityBrowserComponent
	})
	inspectors := pointers(s.Inspectors.Values(), func(v struct{ *ComponentInspectorComponent }) *ComponentInspectorComponent {
		return v.ComponentInspectorComponent
	})
	viewers := pointers(s.Archetypes.Values(), func(v struct{ *ArchetypeViewerComponent }) *ArchetypeViewerComponent {
		return v.ArchetypeViewerComponent
	})
	stats := pointers(s.Stats.Values(), func(v struct{ *PerformanceStatsComponent }) *PerformanceStatsComponent {
		return v.PerformanceStatsComponent
	})
	queries := pointers(s.Queries.Values(), func(v struct{ *QueryDebuggerComponent }) *QueryDebuggerComponent {
		return v.QueryDebuggerComponent
	})

	frame.Commands.Defer(func() {
		var selected ecs.EntityId
		var ok bool
		for i, b := range browsers {
			place(i, 10, 10, 420, 400)
			b.Render(storage)
			if id, has := b.Selected(storage); has {
				selected, ok = id, true
			}
		}
		for i, c := range inspectors {
			place(i, 440, 10, 360, 400)
			c.Render(storage, selected, ok)
		}
		for i, v := range viewers {
			place(i, 10, 420, 420, 300)
			if layout := v.Render(storage); layout != nil {
				for _, b := range browsers {
					b.SetLayoutFilter(layout)
				}
			}
		}
		var sched *ecs.SchedulerStats
		if s.Scheduler != nil && len(stats) > 0 {
			sched = s.Scheduler.GetStats()
		}
		for i, p := range stats {
			place(i, 810, 10, 360, 400)
			p.Render(storage, dt, sched)
		}
		for i, q := range queries {
			place(i, 440, 420, 360, 300)
			q.Render(storage)
		}
	})
}

// place sets the first-use position and size of the next window, cascading
// further windows of the same kind.
func place(n int, x, y, w, h float32) {
	offset := float32(n) * 24
	imgui.SetNextWindowPosV(imgui.NewVec2(x+offset, y+offset), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(w, h), imgui.CondOnce)
}

func pointers[V, P any](values iter.Seq[V], get func(V) P) []P {
	var out []P
	for v := range values {
		out = append(out, get(v))
	}
	return out
}
