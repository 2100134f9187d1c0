package debugui

import "github.com/plus3/flexscene/ecs"

// Each debug window is a component on its own entity. Window state that
// must survive the component being copied between archetype columns lives
// behind a pointer.

type EntityBrowserComponent struct {
	table    *sortedRows[EntityInfo]
	selected *ecs.EntityRef
	search   string
	layout   *ecs.Layout
	pageSize int
	page     int
}

type ComponentInspectorComponent struct {
	// shown is the last entity drawn. It names the entity after its
	// selection is lost to a destroy.
	shown ecs.EntityId
	drawn bool
}

type ArchetypeViewerComponent struct {
	table    *sortedRows[ArchetypeInfo]
	selected *ecs.Layout
}

type PerformanceStatsComponent struct {
	history []float32
	next    int
}

type QueryDebuggerComponent struct {
	ticked map[string]bool
	names  []string
	seen   int
}

// RegisterDebugUIComponents declares ImguiItem and the window components.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[ArchetypeViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[QueryDebuggerComponent](registry)
}

// SpawnDebugUI creates one entity per debug window and the ImguiInputState
// singleton. The components must have been registered with
// RegisterDebugUIComponents.
func SpawnDebugUI(storage *ecs.Storage) {
	ecs.NewSingleton[ImguiInputState](storage)
	storage.Spawn(NewEntityBrowserComponent(100))
	storage.Spawn(NewComponentInspectorComponent())
	storage.Spawn(NewArchetypeViewerComponent())
	storage.Spawn(NewPerformanceStatsComponent(120))
	storage.Spawn(NewQueryDebuggerComponent())
}
