package debugui

import (
	"cmp"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

// shape summarises the store's structure. Cached rows are rebuilt when it
// changes.
type shape struct {
	archetypes int
	entities   int
	tombstones int
}

func shapeOf(storage *ecs.Storage) shape {
	s := shape{archetypes: len(storage.Archetypes()), entities: storage.Len()}
	for _, a := range storage.Archetypes() {
		s.tombstones += a.Inactive()
	}
	return s
}

// sortedRows caches rows derived from the store and keeps them ordered by
// one column. compare has one entry per table column.
type sortedRows[R any] struct {
	rows    []R
	built   bool
	stamp   shape
	column  int
	desc    bool
	compare []func(a, b R) int
}

func (t *sortedRows[R]) refresh(storage *ecs.Storage, build func(*ecs.Storage) []R) {
	s := shapeOf(storage)
	if t.built && s == t.stamp {
		return
	}
	t.rows, t.stamp, t.built = build(storage), s, true
	t.sort()
}

func (t *sortedRows[R]) sortBy(column int, desc bool) {
	t.column, t.desc = column, desc
	t.sort()
}

func (t *sortedRows[R]) sort() {
	if t.column < 0 || t.column >= len(t.compare) {
		return
	}
	compare := t.compare[t.column]
	slices.SortStableFunc(t.rows, func(a, b R) int {
		if t.desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// applySortSpecs resorts when the current table's sort header was clicked.
// It must be called between BeginTable and EndTable.
func (t *sortedRows[R]) applySortSpecs() {
	specs := imgui.TableGetSortSpecs()
	if specs == nil || !specs.SpecsDirty() || specs.SpecsCount() == 0 {
		return
	}
	spec := specs.Specs()
	t.sortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionDescending)
	specs.SetSpecsDirty(false)
}

func byKey[R any, K cmp.Ordered](key func(R) K) func(a, b R) int {
	return func(a, b R) int { return cmp.Compare(key(a), key(b)) }
}

func typeNames(archetype *ecs.Archetype) []string {
	types := archetype.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
