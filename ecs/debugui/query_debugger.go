package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// The query debugger builds a required layout from ticked component types
// and shows which archetypes a view over them would visit.

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{ticked: make(map[string]bool), seen: -1}
}

// refresh relists the registered type names when the registry grows.
func (qd *QueryDebuggerComponent) refresh(storage *ecs.Storage) {
	types := storage.Registry().Types()
	if len(types) == qd.seen {
		return
	}
	qd.names = qd.names[:0]
	for _, t := range types {
		qd.names = append(qd.names, t.String())
	}
	slices.Sort(qd.names)
	qd.seen = len(types)
}

// requiredLayout converts the ticked type names into a layout.
func (qd *QueryDebuggerComponent) requiredLayout(storage *ecs.Storage) ecs.Layout {
	var required ecs.Layout
	for i, t := range storage.Registry().Types() {
		if qd.ticked[t.String()] {
			required = required.With(i)
		}
	}
	return required
}

// findMatchingArchetypes returns the archetypes whose layout contains required.
func findMatchingArchetypes(storage *ecs.Storage, required ecs.Layout) []*ecs.Archetype {
	var matching []*ecs.Archetype
	for _, a := range storage.Archetypes() {
		if a.Layout().Contains(required) {
			matching = append(matching, a)
		}
	}
	return matching
}

func (qd *QueryDebuggerComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	qd.refresh(storage)
	if imgui.Button("Clear") {
		clear(qd.ticked)
	}
	for _, name := range qd.names {
		on := qd.ticked[name]
		if imgui.Checkbox(name, &on) {
			qd.ticked[name] = on
		}
	}
	imgui.Separator()

	required := qd.requiredLayout(storage)
	if required == 0 {
		imgui.Text("Tick component types to build a query")
		return
	}

	width := storage.Registry().Width()
	matching := findMatchingArchetypes(storage, required)
	live := 0
	for _, a := range matching {
		live += a.Live()
	}
	imgui.Text(fmt.Sprintf("Required: %s", required.Format(width)))
	imgui.Text(fmt.Sprintf("Matches %d entities in %d archetypes", live, len(matching)))

	const flags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("matches", 3, flags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Layout")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Live")
		imgui.TableHeadersRow()
		for _, a := range matching {
			imgui.TableNextRow()
			imgui.TableSetColumnIndex(0)
			imgui.Text(a.Layout().Format(width))
			imgui.TableSetColumnIndex(1)
			imgui.Text(strings.Join(typeNames(a), ", "))
			imgui.TableSetColumnIndex(2)
			imgui.Text(fmt.Sprintf("%d", a.Live()))
		}
		imgui.EndTable()
	}
}
