package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"
)

// View reads entities through a struct of component pointers.
//
// Each field of T is either a pointer to a registered component type or an
// EntityId, which receives the entity's id. Embedded pointer fields are
// required. Named pointer fields are required unless tagged
// `ecs:"optional"`, in which case they are nil for entities lacking the
// component. Pointers handed out by a view alias the store and are only
// valid until the next structural change.
type View[T any] struct {
	storage  *Storage
	fields   []viewField
	idField  *uintptr
	required Layout
}

// viewField locates one component pointer inside T.
type viewField struct {
	typ      reflect.Type
	index    int
	offset   uintptr
	optional bool
}

var entityIdType = reflect.TypeFor[EntityId]()

// NewView builds a view over storage. It panics if T is not a struct of
// component pointers or names an unregistered type.
func NewView[T any](storage *Storage) *View[T] {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ecs: view type %s is not a struct", t))
	}

	v := &View[T]{storage: storage, fields: make([]viewField, 0, t.NumField())}
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Type == entityIdType {
			offset := sf.Offset
			v.idField = &offset
			continue
		}
		f := parseViewField(sf, storage.registry)
		if !f.optional {
			v.required = v.required.With(f.index)
		}
		v.fields = append(v.fields, f)
	}
	return v
}

func parseViewField(sf reflect.StructField, registry *ComponentRegistry) viewField {
	if sf.Type.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("ecs: view field %s must be a pointer, got %s", sf.Name, sf.Type))
	}
	f := viewField{
		typ:    sf.Type.Elem(),
		offset: sf.Offset,
	}
	f.index = registry.mustIndex(f.typ)

	switch tag := sf.Tag.Get("ecs"); {
	case tag == "":
	case tag == "optional" && !sf.Anonymous:
		f.optional = true
	default:
		panic(fmt.Sprintf("ecs: view field %s has unsupported tag %q", sf.Name, tag))
	}
	return f
}

// Required returns the layout every matching entity must contain.
func (v *View[T]) Required() Layout { return v.required }

func (v *View[T]) matches(a *Archetype) bool { return a.layout.Contains(v.required) }

// bind points the fields of *out at row slot of archetype a.
func (v *View[T]) bind(out *T, a *Archetype, slot int, id EntityId) {
	base := unsafe.Pointer(out)
	for _, f := range v.fields {
		dst := (*unsafe.Pointer)(unsafe.Add(base, f.offset))
		if column := a.storages[f.index]; column != nil {
			*dst = column.ptr(slot)
		} else {
			*dst = nil
		}
	}
	if v.idField != nil {
		*(*EntityId)(unsafe.Add(base, *v.idField)) = id
	}
}

// Fill binds *out to the entity and reports whether it matched. out is
// left untouched for inactive or non-matching entities.
func (v *View[T]) Fill(id EntityId, out *T) bool {
	if !v.storage.directory.isActive(id) {
		return false
	}
	loc := &v.storage.directory.entries[id]
	if !loc.layout.Contains(v.required) {
		return false
	}
	v.bind(out, v.storage.mustArchetype(loc.layout), loc.index, id)
	return true
}

// Get is Fill into a fresh struct. It returns nil when the entity does not
// match.
func (v *View[T]) Get(id EntityId) *T {
	out := new(T)
	if !v.Fill(id, out) {
		return nil
	}
	return out
}

// GetRef resolves ref and then behaves as Get.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var item T
		for slot, id := range a.Iter() {
			v.bind(&item, a, slot, id)
			if !yield(id, item) {
				return
			}
		}
	}
}

// Iter yields every matching entity. Archetypes are visited in creation
// order and slots in ascending order. The store must not change shape
// while iterating; queue such changes with Commands.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.order {
			if !v.matches(a) {
				continue
			}
			for id, item := range v.iterArchetype(a) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values is Iter without the ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Spawn creates an entity holding a copy of every non-nil component in
// data. A nil required field panics.
func (v *View[T]) Spawn(data T) EntityId {
	base := unsafe.Pointer(&data)
	components := make([]any, 0, len(v.fields))
	for _, f := range v.fields {
		ptr := *(*unsafe.Pointer)(unsafe.Add(base, f.offset))
		if ptr == nil {
			if !f.optional {
				panic("ecs: required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, ptr).Interface())
	}
	return v.storage.Spawn(components...)
}

// ForAnyWith calls fn for every entity matching T. Fields of T point
// directly into storage.
func ForAnyWith[T any](storage *Storage, fn func(EntityId, T)) {
	for id, item := range NewView[T](storage).Iter() {
		fn(id, item)
	}
}
