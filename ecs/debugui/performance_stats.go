package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

func NewPerformanceStatsComponent(frames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{history: make([]float32, frames)}
}

// Record stores one frame's duration, in seconds, in the history ring.
func (ps *PerformanceStatsComponent) Record(dt float32) {
	if len(ps.history) == 0 {
		return
	}
	ps.history[ps.next] = dt * 1000
	ps.next = (ps.next + 1) % len(ps.history)
}

// AverageFrameTime returns the mean of the history ring in milliseconds.
// Slots not yet written count as zero.
func (ps *PerformanceStatsComponent) AverageFrameTime() float32 {
	if len(ps.history) == 0 {
		return 0
	}
	var total float32
	for _, ms := range ps.history {
		total += ms
	}
	return total / float32(len(ps.history))
}

// Render draws storage counters, the frame time graph and, when stats is
// non-nil, per-system latencies.
func (ps *PerformanceStatsComponent) Render(storage *ecs.Storage, dt float32, stats *ecs.SchedulerStats) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	ps.Record(dt)
	counts := storage.CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d  Free ids: %d", counts.TotalEntityCount, counts.InactiveEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d  Tombstones: %d", counts.ArchetypeCount, counts.TombstoneCount))

	avg := ps.AverageFrameTime()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Frame: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	if len(ps.history) > 0 {
		imgui.PlotLinesFloatPtr("##frames", &ps.history[0], int32(len(ps.history)))
	}

	if stats != nil && imgui.TreeNodeStr("Systems") {
		renderSystemStats(stats)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Memory") {
		width := storage.Registry().Width()
		for _, a := range counts.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("%s  %d live  %d bytes  %d packed", a.Layout.Format(width), a.EntityCount, a.Bytes, a.PackedBytes))
		}
		imgui.TreePop()
	}

	if len(counts.SingletonTypes) > 0 && imgui.TreeNodeStr("Singletons") {
		for _, name := range counts.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}
}

func renderSystemStats(stats *ecs.SchedulerStats) {
	var slowest time.Duration
	for _, sys := range stats.Systems {
		slowest = max(slowest, sys.AvgDuration)
	}

	const flags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV("systems", 4, flags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Avg (ms)")
	imgui.TableSetupColumn("Max (ms)")
	imgui.TableSetupColumn("Runs")
	imgui.TableHeadersRow()
	for _, sys := range stats.Systems {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(sys.Name)
		imgui.TableNextColumn()
		if slowest > 0 && sys.AvgDuration == slowest {
			imgui.TextColored(imgui.NewVec4(1, 0.6, 0.2, 1), millis(sys.AvgDuration))
		} else {
			imgui.Text(millis(sys.AvgDuration))
		}
		imgui.TableNextColumn()
		imgui.Text(millis(sys.MaxDuration))
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
	}
	imgui.EndTable()
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d.Microseconds())/1000)
}

// FrameTimer measures wall time between successive frames.
type FrameTimer struct {
	last time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{last: time.Now()}
}

// GetDeltaTime returns the seconds elapsed since the previous call.
func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	dt := float32(now.Sub(ft.last).Seconds())
	ft.last = now
	return dt
}
