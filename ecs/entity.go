package ecs

import "fmt"

// EntityId is a dense handle into the storage's entity directory. Identifiers
// of destroyed entities are handed out again by CreateEntity.
type EntityId uint64

// EntityRef is a handle to an entity that is invalidated when the entity is
// destroyed, so it never resolves to a recycled identifier.
type EntityRef struct {
	Id    EntityId
	Valid bool
}

// entityLocation is one directory entry.
type entityLocation struct {
	index  int
	layout Layout
	active bool
}

// directory maps each EntityId to where its components live.
type directory struct {
	entries  []entityLocation
	inactive int
}

// allocate returns the lowest inactive identifier, or appends a new one.
func (d *directory) allocate() EntityId {
	if d.inactive > 0 {
		for i := range d.entries {
			if !d.entries[i].active {
				d.inactive--
				return EntityId(i)
			}
		}
		panic("ecs: directory inactive count out of sync")
	}
	d.entries = append(d.entries, entityLocation{})
	return EntityId(len(d.entries) - 1)
}

// release marks id inactive so allocate can recycle it.
func (d *directory) release(id EntityId) {
	d.entries[id].active = false
	d.inactive++
}

// lookup returns the entry for an active entity and panics otherwise.
func (d *directory) lookup(id EntityId) *entityLocation {
	if uint64(id) >= uint64(len(d.entries)) {
		panic(fmt.Sprintf("ecs: unknown entity %d", id))
	}
	loc := &d.entries[id]
	if !loc.active {
		panic(fmt.Sprintf("ecs: entity %d is not active", id))
	}
	return loc
}

func (d *directory) isActive(id EntityId) bool {
	return uint64(id) < uint64(len(d.entries)) && d.entries[id].active
}
