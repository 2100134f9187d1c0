// Package debugui is a Dear ImGui inspector for an ecs.Storage. Each window
// is a component on its own entity, and arbitrary panels are added by
// spawning entities with an ImguiItem.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// ImguiItem draws ImGui widgets once per frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState reports whether ImGui wants the mouse or keyboard this
// frame. It is stored as a singleton so game systems can yield input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

func (s *ImguiInputState) capture(io *imgui.IO) {
	s.WantCaptureMouse = io.WantCaptureMouse()
	s.WantCaptureKeyboard = io.WantCaptureKeyboard()
}

// ImguiSystem refreshes ImguiInputState and queues every ImguiItem's
// Render for the end of the frame, after structural commands are applied.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		state.capture(imgui.CurrentIO())
	}
	for item := range i.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}
