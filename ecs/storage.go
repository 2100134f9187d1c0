package ecs

import (
	"fmt"
	"reflect"
	"weak"

	"github.com/kamstrup/intmap"
)

// Storage is the archetype store. It owns the component registry, the entity
// directory and one Archetype per distinct Layout in use.
type Storage struct {
	registry   *ComponentRegistry
	directory  directory
	archetypes *intmap.Map[Layout, *Archetype]
	// order lists archetypes in creation order; iteration follows it.
	order      []*Archetype
	refs       *intmap.Map[EntityId, weak.Pointer[EntityRef]]
	singletons map[reflect.Type]reflect.Value
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: intmap.New[Layout, *Archetype](8),
		refs:       intmap.New[EntityId, weak.Pointer[EntityRef]](8),
		singletons: make(map[reflect.Type]reflect.Value),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry { return s.registry }

// CreateEntity registers a new entity with no components and returns its id.
// The lowest inactive id is reused before the directory grows.
func (s *Storage) CreateEntity() EntityId {
	id := s.directory.allocate()
	empty := s.archetypeFor(0)
	s.directory.entries[id] = entityLocation{
		index:  empty.reserve(id),
		layout: 0,
		active: true,
	}
	s.verify()
	return id
}

// DestroyEntity tombstones the entity's slot, destroying its components, and
// makes the id available for reuse. Any EntityRef to it is invalidated.
func (s *Storage) DestroyEntity(id EntityId) {
	loc := s.directory.lookup(id)
	s.mustArchetype(loc.layout).tombstone(loc.index)
	s.directory.release(id)
	s.invalidateRef(id)
	s.verify()
}

// Spawn creates an entity and adds each of the given components to it.
func (s *Storage) Spawn(components ...any) EntityId {
	id := s.CreateEntity()
	for _, component := range components {
		s.AddComponent(id, component)
	}
	return id
}

// AddComponent adds a component value (or pointer to one) to an entity,
// migrating it to the archetype for its new layout. It returns a pointer to
// the stored component, valid until the entity's next migration or a call
// to ShrinkToFit.
func (s *Storage) AddComponent(id EntityId, component any) any {
	compType := componentType(component)
	index := s.registry.mustIndex(compType)
	loc := s.directory.lookup(id)
	if loc.layout.Has(index) {
		panic(fmt.Sprintf("ecs: entity %d already has component %s", id, compType))
	}

	target, row := s.migrate(id, loc.layout.With(index))
	if !target.storages[index].set(row, component) {
		panic(fmt.Sprintf("ecs: column %d cannot hold %T", index, component))
	}
	s.verify()
	return target.storages[index].get(row)
}

// AddComponent adds value to the entity and returns a pointer to the stored copy.
func AddComponent[T any](s *Storage, id EntityId, value T) *T {
	return s.AddComponent(id, value).(*T)
}

// RemoveComponent removes a component type from an entity, migrating it to
// the archetype for the smaller layout. The removed component is destroyed.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) {
	index := s.registry.mustIndex(compType)
	loc := s.directory.lookup(id)
	if !loc.layout.Has(index) {
		panic(fmt.Sprintf("ecs: entity %d has no component %s", id, compType))
	}
	s.migrate(id, loc.layout.Without(index))
	s.verify()
}

// migrate moves an entity's shared components into the archetype for
// layout and tombstones its old slot. The global inactive count is
// unchanged since the entity stays active.
func (s *Storage) migrate(id EntityId, layout Layout) (*Archetype, int) {
	loc := s.directory.lookup(id)
	source := s.mustArchetype(loc.layout)
	target := s.archetypeFor(layout)

	row := target.reserve(id)
	for _, i := range (loc.layout & layout).Indices() {
		source.storages[i].moveTo(target.storages[i], loc.index, row)
	}
	source.tombstone(loc.index)

	loc.index = row
	loc.layout = layout
	return target, row
}

// GetComponent returns a pointer to the entity's component of the given type,
// or nil if the entity is not active or lacks the component.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	if !s.directory.isActive(id) {
		return nil
	}
	loc := s.directory.entries[id]
	return s.mustArchetype(loc.layout).GetComponent(loc.index, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	if !s.directory.isActive(id) {
		return false
	}
	index, ok := s.registry.IndexOf(compType)
	return ok && s.directory.entries[id].layout.Has(index)
}

// IsActive reports whether id names a live entity.
func (s *Storage) IsActive(id EntityId) bool { return s.directory.isActive(id) }

// Location returns the entity's layout and slot index.
func (s *Storage) Location(id EntityId) (Layout, int) {
	loc := s.directory.lookup(id)
	return loc.layout, loc.index
}

// Len returns the number of active entities.
func (s *Storage) Len() int { return len(s.directory.entries) - s.directory.inactive }

// EntitySlots returns the size of the entity directory, active or not.
func (s *Storage) EntitySlots() int { return len(s.directory.entries) }

// InactiveCount returns the number of directory entries awaiting reuse.
func (s *Storage) InactiveCount() int { return s.directory.inactive }

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype { return s.order }

// GetArchetype returns the archetype for a layout, or nil if none exists.
func (s *Storage) GetArchetype(layout Layout) *Archetype {
	a, _ := s.archetypes.Get(layout)
	return a
}

// GetArchetypeByTypes returns the archetype holding exactly the given types, if one exists.
func (s *Storage) GetArchetypeByTypes(types ...reflect.Type) *Archetype {
	return s.GetArchetype(s.registry.LayoutFor(types...))
}

// ShrinkToFit compacts every archetype that has tombstones. Surviving
// entities keep their relative order and their ids; pointers previously
// returned for components are invalidated.
func (s *Storage) ShrinkToFit() {
	for _, a := range s.order {
		if a.inactive > 0 {
			a.compact(&s.directory)
		}
	}
	s.verify()
}

// CreateEntityRef returns a handle to id that is invalidated when the entity
// is destroyed. Repeated calls share a handle while it is still referenced.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	if !s.directory.isActive(id) {
		return nil
	}

	if weakPtr, ok := s.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		s.refs.Del(id)
	}

	ref := &EntityRef{Id: id, Valid: true}
	s.refs.Put(id, weak.Make(ref))
	return ref
}

func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || !ref.Valid {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without destroying it.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || !ref.Valid {
		return false
	}
	if weakPtr, ok := s.refs.Get(ref.Id); ok && weakPtr.Value() == ref {
		s.refs.Del(ref.Id)
	}
	ref.Valid = false
	return true
}

func (s *Storage) invalidateRef(id EntityId) {
	weakPtr, ok := s.refs.Get(id)
	if !ok {
		return
	}
	if ref := weakPtr.Value(); ref != nil {
		ref.Valid = false
	}
	s.refs.Del(id)
}

// archetypeFor returns the archetype for layout, creating it if needed.
func (s *Storage) archetypeFor(layout Layout) *Archetype {
	if a, ok := s.archetypes.Get(layout); ok {
		return a
	}
	a := newArchetype(layout, s.registry)
	s.archetypes.Put(layout, a)
	s.order = append(s.order, a)
	return a
}

func (s *Storage) mustArchetype(layout Layout) *Archetype {
	a, ok := s.archetypes.Get(layout)
	if !ok {
		panic("ecs: no archetype for layout " + layout.Format(s.registry.Width()))
	}
	return a
}

// componentType returns the component type of a value or pointer to a value.
func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T and panics if the
// entity lacks it.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	component := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if component == nil {
		panic(fmt.Sprintf("ecs: entity %d has no component %s", entityId, reflect.TypeFor[T]()))
	}
	return component.(*T)
}
