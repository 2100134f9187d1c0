package ecs

import "reflect"

// Commands buffers structural changes made while systems iterate. The
// scheduler flushes the buffer once every system of the frame has run.
type Commands struct {
	deletes []EntityId
	removes []componentEdit
	adds    []componentEdit
	spawns  [][]any
	defers  []func()
}

type componentEdit struct {
	entity    EntityId
	component any
	typ       reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Delete queues the destruction of entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// RemoveComponent queues the removal of the component of type t from entity.
func (c *Commands) RemoveComponent(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, componentEdit{entity: entity, typ: t})
}

// AddComponent queues adding component to entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, componentEdit{entity: entity, component: component})
}

// Spawn queues the creation of an entity holding components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Defer queues fn to run after every structural change of the flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.deletes) + len(c.removes) + len(c.adds) + len(c.spawns) + len(c.defers)
}

// Flush applies the buffer to storage in this order: deletes, removes,
// adds, spawns, defers. Deletes of inactive entities are skipped, as are
// removes of absent components and edits of entities deleted by the same
// flush. The buffer is empty afterwards.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]struct{}, len(c.deletes))
	for _, id := range c.deletes {
		if _, done := deleted[id]; done || !storage.IsActive(id) {
			continue
		}
		storage.DestroyEntity(id)
		deleted[id] = struct{}{}
	}

	for _, edit := range c.removes {
		if _, gone := deleted[edit.entity]; gone {
			continue
		}
		if storage.HasComponent(edit.entity, edit.typ) {
			storage.RemoveComponent(edit.entity, edit.typ)
		}
	}

	for _, edit := range c.adds {
		if _, gone := deleted[edit.entity]; gone {
			continue
		}
		storage.AddComponent(edit.entity, edit.component)
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.deletes = c.deletes[:0]
	c.removes = c.removes[:0]
	c.adds = c.adds[:0]
	c.spawns = c.spawns[:0]
	c.defers = c.defers[:0]
}
