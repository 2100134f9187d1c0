package debugui

import (
	"reflect"
	"testing"

	"github.com/plus3/flexscene/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec struct {
	X, Y float32
}

type body struct {
	Name   string
	Mass   float64
	Offset vec
	Pinned bool
	Anchor *vec
}

type marker int32

func newTestStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[body](registry)
	ecs.RegisterComponent[marker](registry)
	return ecs.NewStorage(registry)
}

func TestCollectEntitiesAndArchetypes(t *testing.T) {
	storage := newTestStorage()
	a := storage.Spawn(body{Name: "a"})
	b := storage.Spawn(body{Name: "b"}, marker(1))
	storage.DestroyEntity(storage.Spawn(marker(2)))

	entities := collectEntities(storage)
	require.Len(t, entities, 2)

	ids := map[ecs.EntityId]EntityInfo{}
	for _, e := range entities {
		ids[e.ID] = e
	}
	assert.Equal(t, []string{"debugui.body"}, ids[a].Components)
	assert.Equal(t, []string{"debugui.body", "debugui.marker"}, ids[b].Components)

	archetypes := collectArchetypes(storage)
	assert.Len(t, archetypes, len(storage.Archetypes()))

	var tombstones, live int
	for _, info := range archetypes {
		tombstones += info.Tombstones
		live += info.Live
	}
	assert.Equal(t, 2, live)
	assert.Equal(t, storage.CollectStats().TombstoneCount, tombstones)
}

func TestFilterEntities(t *testing.T) {
	entities := []EntityInfo{
		{ID: 1, Layout: ecs.LayoutOf(0), Components: []string{"debugui.body"}},
		{ID: 12, Layout: ecs.LayoutOf(0, 1), Components: []string{"debugui.body", "debugui.marker"}},
	}

	assert.Len(t, filterEntities(entities, "", nil), 2)
	assert.Len(t, filterEntities(entities, "MARKER", nil), 1)
	assert.Len(t, filterEntities(entities, "1", nil), 2)
	assert.Len(t, filterEntities(entities, "12", nil), 1)

	layout := ecs.LayoutOf(0)
	filtered := filterEntities(entities, "", &layout)
	require.Len(t, filtered, 1)
	assert.Equal(t, ecs.EntityId(1), filtered[0].ID)
}

func TestFindMatchingArchetypes(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(body{}, marker(1))
	storage.Spawn(marker(2))

	markerOnly := ecs.LayoutOf(ecs.ComponentIndex[marker](storage.Registry()))
	matches := findMatchingArchetypes(storage, markerOnly)

	live := 0
	for _, a := range matches {
		assert.True(t, a.Layout().Contains(markerOnly))
		live += a.Live()
	}
	assert.Equal(t, 2, live)
}

func TestQueryDebuggerRequiredLayout(t *testing.T) {
	storage := newTestStorage()
	qd := NewQueryDebuggerComponent()
	qd.refresh(storage)

	assert.Equal(t, []string{"debugui.body", "debugui.marker"}, qd.names)
	assert.Equal(t, ecs.Layout(0), qd.requiredLayout(storage))

	qd.ticked["debugui.marker"] = true
	assert.Equal(t, ecs.LayoutOf(1), qd.requiredLayout(storage))

	qd.ticked["debugui.body"] = true
	assert.Equal(t, ecs.LayoutOf(0, 1), qd.requiredLayout(storage))
}

func TestSetFieldFollowsPath(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(body{Name: "x", Anchor: &vec{}})
	bodyType := reflect.TypeFor[body]()

	assert.True(t, setField(storage, id, bodyType, []int{0}, func(f reflect.Value) { f.SetString("renamed") }))
	assert.True(t, setField(storage, id, bodyType, []int{2, 1}, func(f reflect.Value) { f.SetFloat(4) }))
	assert.True(t, setField(storage, id, bodyType, []int{4, 0}, func(f reflect.Value) { f.SetFloat(9) }))
	assert.True(t, setField(storage, id, bodyType, []int{3}, func(f reflect.Value) { f.SetBool(true) }))

	got := ecs.ReadComponent[body](storage, id)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, float32(4), got.Offset.Y)
	assert.Equal(t, float32(9), got.Anchor.X)
	assert.True(t, got.Pinned)

	storage.DestroyEntity(id)
	assert.False(t, setField(storage, id, bodyType, []int{0}, func(f reflect.Value) { f.SetString("gone") }))
}

func TestReflectionCacheSkipsUnexported(t *testing.T) {
	type mixed struct {
		Visible int
		hidden  int
		Ptr     *vec
	}
	fields := NewReflectionCache().GetFields(reflect.TypeFor[mixed]())
	require.Len(t, fields, 2)
	assert.Equal(t, "Visible", fields[0].Name)
	assert.True(t, fields[1].Pointer)
	assert.Equal(t, reflect.Struct, fields[1].Kind)
	assert.Equal(t, 2, fields[1].Index)

	assert.Empty(t, NewReflectionCache().GetFields(reflect.TypeFor[marker]()))
}

func TestPerformanceStatsHistory(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)
	for _, dt := range []float32{0.010, 0.020, 0.030, 0.040, 0.050} {
		ps.Record(dt)
	}
	// The first sample was overwritten by the fifth.
	assert.InDelta(t, 35.0, ps.AverageFrameTime(), 0.001)

	empty := PerformanceStatsComponent{}
	empty.Record(0.1)
	assert.Zero(t, empty.AverageFrameTime())
}

func TestImguiSystemDefersRenders(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	var drawn []string
	storage.Spawn(ImguiItem{Render: func() { drawn = append(drawn, "a") }})
	storage.Spawn(ImguiItem{})
	storage.Spawn(ImguiItem{Render: func() { drawn = append(drawn, "b") }})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ImguiSystem{})
	scheduler.Once(0.016)
	assert.ElementsMatch(t, []string{"a", "b"}, drawn)
}

func TestEntityBrowserLayoutFilter(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(body{})
	storage.Spawn(marker(1))

	eb := NewEntityBrowserComponent(10)
	assert.Len(t, eb.visible(storage), 2)

	layout := ecs.LayoutOf(1)
	eb.SetLayoutFilter(&layout)
	assert.Len(t, eb.visible(storage), 1)

	eb.SetLayoutFilter(nil)
	storage.Spawn(body{}, marker(2))
	assert.Len(t, eb.visible(storage), 3, "rows are rebuilt when the store changes shape")

	_, ok := eb.Selected(storage)
	assert.False(t, ok)
}

func TestEntityBrowserSelectionClearsOnDestroy(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(body{Name: "picked"})

	eb := NewEntityBrowserComponent(10)
	eb.selected = storage.CreateEntityRef(id)
	got, ok := eb.Selected(storage)
	require.True(t, ok)
	assert.Equal(t, id, got)

	storage.DestroyEntity(id)
	storage.Spawn(body{Name: "recycled"})
	_, ok = eb.Selected(storage)
	assert.False(t, ok)
}

func TestSortedRows(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(marker(1))
	storage.Spawn(body{}, marker(2))
	storage.Spawn(body{}, marker(3))

	av := NewArchetypeViewerComponent()
	av.table.refresh(storage, collectArchetypes)
	require.NotEmpty(t, av.table.rows)
	assert.Equal(t, 2, av.table.rows[0].Live, "busiest archetype first")

	av.table.sortBy(0, false)
	for i := 1; i < len(av.table.rows); i++ {
		assert.Less(t, av.table.rows[i-1].Layout, av.table.rows[i].Layout)
	}

	eb := NewEntityBrowserComponent(10)
	eb.table.refresh(storage, collectEntities)
	eb.table.sortBy(0, true)
	var ids []ecs.EntityId
	for _, e := range eb.table.rows {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []ecs.EntityId{2, 1, 0}, ids)
}
