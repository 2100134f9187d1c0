package debugui

import (
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// ArchetypeInfo is one row of the archetype viewer.
type ArchetypeInfo struct {
	Layout     ecs.Layout
	Components []string
	Live       int
	Tombstones int
}

func NewArchetypeViewerComponent() ArchetypeViewerComponent {
	table := &sortedRows[ArchetypeInfo]{compare: []func(a, b ArchetypeInfo) int{
		byKey(func(a ArchetypeInfo) ecs.Layout { return a.Layout }),
		byKey(func(a ArchetypeInfo) string { return strings.Join(a.Components, ",") }),
		byKey(func(a ArchetypeInfo) int { return a.Live }),
		byKey(func(a ArchetypeInfo) int { return a.Tombstones }),
	}}
	// Most populated first.
	table.column, table.desc = 2, true
	return ArchetypeViewerComponent{table: table}
}

// collectArchetypes describes every archetype in creation order.
func collectArchetypes(storage *ecs.Storage) []ArchetypeInfo {
	infos := make([]ArchetypeInfo, 0, len(storage.Archetypes()))
	for _, a := range storage.Archetypes() {
		infos = append(infos, ArchetypeInfo{
			Layout:     a.Layout(),
			Components: typeNames(a),
			Live:       a.Live(),
			Tombstones: a.Inactive(),
		})
	}
	return infos
}

// Render draws the archetype table and returns the layout clicked this
// frame, if any.
func (av *ArchetypeViewerComponent) Render(storage *ecs.Storage) *ecs.Layout {
	if !imgui.BeginV("Archetype Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}
	defer imgui.End()

	av.table.refresh(storage, collectArchetypes)
	busiest := 0
	for _, a := range av.table.rows {
		busiest = max(busiest, a.Live)
	}
	width := storage.Registry().Width()

	var clicked *ecs.Layout
	const flags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("archetypes", 4, flags, imgui.NewVec2(0, -30), 0) {
		imgui.TableSetupColumn("Layout")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Live")
		imgui.TableSetupColumn("Tombstones")
		imgui.TableHeadersRow()
		av.table.applySortSpecs()

		for _, a := range av.table.rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			isSelected := av.selected != nil && *av.selected == a.Layout
			if imgui.SelectableBoolV(a.Layout.Format(width), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				layout := a.Layout
				av.selected, clicked = &layout, &layout
			}
			imgui.TableNextColumn()
			imgui.Text(strings.Join(a.Components, ", "))
			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(a.Live))
			if busiest > 0 {
				imgui.SameLine()
				bar(float32(a.Live) / float32(busiest))
			}
			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(a.Tombstones))
		}
		imgui.EndTable()
	}

	if imgui.Button("Shrink To Fit") {
		storage.ShrinkToFit()
	}
	return clicked
}

// bar draws a small horizontal bar filled to fraction at the cursor.
func bar(fraction float32) {
	pos := imgui.CursorScreenPos()
	colour := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
	imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+80*fraction, pos.Y+10), colour)
}
