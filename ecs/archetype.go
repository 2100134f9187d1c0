package ecs

import (
	"iter"
	"reflect"
)

// slot is one entry of an archetype's id list. A dead slot is a tombstone.
type slot struct {
	id   EntityId
	live bool
}

// Archetype stores every entity sharing one Layout. Slot i of the id list
// and row i of each populated component column belong to the same entity.
// Tombstoned slots keep their rows until the storage is compacted.
type Archetype struct {
	layout   Layout
	inactive int
	ids      []slot
	storages []iComponentStorage
	registry *ComponentRegistry
}

// newArchetype creates an empty archetype with a column for every bit in layout.
func newArchetype(layout Layout, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		layout:   layout,
		storages: make([]iComponentStorage, registry.Width()),
		registry: registry,
	}
	for _, i := range layout.Indices() {
		a.storages[i] = registry.newStorage(i, 0)
	}
	return a
}

// Layout returns the archetype's component layout.
func (a *Archetype) Layout() Layout { return a.layout }

// Types returns the component types in index order.
func (a *Archetype) Types() []reflect.Type { return a.registry.TypesOf(a.layout) }

// HasComponent checks if this archetype has the given component type.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	i, ok := a.registry.IndexOf(compType)
	return ok && a.layout.Has(i)
}

// Len returns the number of slots, live or tombstoned.
func (a *Archetype) Len() int { return len(a.ids) }

// Inactive returns the number of tombstoned slots.
func (a *Archetype) Inactive() int { return a.inactive }

// Live returns the number of live slots.
func (a *Archetype) Live() int { return len(a.ids) - a.inactive }

// EntityAt returns the entity occupying slot index, if it is live.
func (a *Archetype) EntityAt(index int) (EntityId, bool) {
	if index < 0 || index >= len(a.ids) || !a.ids[index].live {
		return 0, false
	}
	return a.ids[index].id, true
}

// GetComponent returns a pointer to the component of the given type at slot
// index, or nil if the slot is dead or the archetype lacks the type.
func (a *Archetype) GetComponent(index int, compType reflect.Type) any {
	if _, ok := a.EntityAt(index); !ok {
		return nil
	}
	i, ok := a.registry.IndexOf(compType)
	if !ok || !a.layout.Has(i) {
		return nil
	}
	return a.storages[i].get(index)
}

// Iter yields the slot index and entity of every live slot in ascending order.
func (a *Archetype) Iter() iter.Seq2[int, EntityId] {
	return func(yield func(int, EntityId) bool) {
		if a.inactive == len(a.ids) {
			return
		}
		for i, s := range a.ids {
			if !s.live {
				continue
			}
			if !yield(i, s.id) {
				return
			}
		}
	}
}

// reserve places id in the first tombstoned slot, or appends a new slot
// and extends every populated column by one zero element.
func (a *Archetype) reserve(id EntityId) int {
	if a.inactive > 0 {
		for i := range a.ids {
			if !a.ids[i].live {
				a.ids[i] = slot{id: id, live: true}
				a.inactive--
				return i
			}
		}
		panic("ecs: archetype inactive count out of sync")
	}

	for _, storage := range a.storages {
		if storage != nil {
			storage.appendZero()
		}
	}
	a.ids = append(a.ids, slot{id: id, live: true})
	return len(a.ids) - 1
}

// tombstone marks slot index dead and destroys its components.
func (a *Archetype) tombstone(index int) {
	a.ids[index].live = false
	a.inactive++
	for _, storage := range a.storages {
		if storage != nil {
			storage.reset(index)
		}
	}
}

// Compact rewrites the archetype with only its live slots, in their original
// order, and points each surviving directory entry at its new index.
func (a *Archetype) compact(dir *directory) {
	if a.inactive == 0 {
		return
	}

	live := make([]int, 0, len(a.ids)-a.inactive)
	for i, s := range a.ids {
		if s.live {
			live = append(live, i)
		}
	}

	ids := make([]slot, len(live))
	for n, i := range live {
		ids[n] = a.ids[i]
		dir.entries[a.ids[i].id].index = n
	}

	for ti, storage := range a.storages {
		if storage != nil {
			a.storages[ti] = storage.compact(live)
		}
	}

	a.ids = ids
	a.inactive = 0
}

// footprint returns the bytes held by the archetype's component columns.
func (a *Archetype) footprint() uintptr {
	var total uintptr
	for _, storage := range a.storages {
		if storage != nil {
			total += storage.footprint()
		}
	}
	return total
}
