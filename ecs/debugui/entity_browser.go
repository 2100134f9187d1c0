package debugui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID         ecs.EntityId
	Layout     ecs.Layout
	Slot       int
	Components []string
}

func NewEntityBrowserComponent(pageSize int) EntityBrowserComponent {
	return EntityBrowserComponent{
		table: &sortedRows[EntityInfo]{compare: []func(a, b EntityInfo) int{
			byKey(func(e EntityInfo) ecs.EntityId { return e.ID }),
			byKey(func(e EntityInfo) ecs.Layout { return e.Layout }),
			byKey(func(e EntityInfo) string { return strings.Join(e.Components, ",") }),
			byKey(func(e EntityInfo) int { return len(e.Components) }),
		}},
		pageSize: max(pageSize, 1),
	}
}

// collectEntities lists every live entity with its location, in iteration
// order.
func collectEntities(storage *ecs.Storage) []EntityInfo {
	entities := make([]EntityInfo, 0, storage.Len())
	for _, archetype := range storage.Archetypes() {
		names := typeNames(archetype)
		for slot, id := range archetype.Iter() {
			entities = append(entities, EntityInfo{ID: id, Layout: archetype.Layout(), Slot: slot, Components: names})
		}
	}
	return entities
}

// filterEntities keeps entities whose id or a component name contains
// search, ignoring case, restricted to layout when it is set.
func filterEntities(entities []EntityInfo, search string, layout *ecs.Layout) []EntityInfo {
	if search == "" && layout == nil {
		return entities
	}
	search = strings.ToLower(search)

	var out []EntityInfo
	for _, e := range entities {
		if layout != nil && e.Layout != *layout {
			continue
		}
		if search != "" && !strings.Contains(strconv.FormatUint(uint64(e.ID), 10), search) &&
			!strings.Contains(strings.ToLower(strings.Join(e.Components, " ")), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (eb *EntityBrowserComponent) visible(storage *ecs.Storage) []EntityInfo {
	eb.table.refresh(storage, collectEntities)
	return filterEntities(eb.table.rows, eb.search, eb.layout)
}

// SetLayoutFilter restricts the browser to one archetype. nil clears it.
func (eb *EntityBrowserComponent) SetLayoutFilter(layout *ecs.Layout) {
	eb.layout = layout
	eb.page = 0
}

// Selected returns the selected entity while it is still alive.
func (eb *EntityBrowserComponent) Selected(storage *ecs.Storage) (ecs.EntityId, bool) {
	return storage.ResolveEntityRef(eb.selected)
}

func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.InputTextWithHint("##search", "id or component", &eb.search, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		eb.search = ""
		eb.SetLayoutFilter(nil)
	}

	rows := eb.visible(storage)
	pages := max((len(rows)+eb.pageSize-1)/eb.pageSize, 1)
	eb.page = min(eb.page, pages-1)
	selected, hasSelection := eb.Selected(storage)
	width := storage.Registry().Width()

	const flags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("entities", 4, flags, imgui.NewVec2(0, -30), 0) {
		imgui.TableSetupColumn("Id")
		imgui.TableSetupColumn("Layout")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("#")
		imgui.TableHeadersRow()
		eb.table.applySortSpecs()

		start := eb.page * eb.pageSize
		for _, e := range rows[start:min(start+eb.pageSize, len(rows))] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			label := strconv.FormatUint(uint64(e.ID), 10)
			if imgui.SelectableBoolV(label, hasSelection && selected == e.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = storage.CreateEntityRef(e.ID)
			}
			imgui.TableNextColumn()
			imgui.Text(e.Layout.Format(width))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(e.Components, ", "))
			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(len(e.Components)))
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("%d entities, page %d/%d", len(rows), eb.page+1, pages))
	if pages > 1 {
		imgui.SameLine()
		if imgui.Button("<") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button(">") && eb.page < pages-1 {
			eb.page++
		}
	}
}
