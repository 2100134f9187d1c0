package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/plus3/flexscene/sov"
)

// ComponentRegistry declares the closed, ordered list of component types a
// Storage may hold. A type's index is its registration order and names its
// bit in a Layout.
type ComponentRegistry struct {
	types     []reflect.Type
	indices   map[reflect.Type]int
	factories []func(capacity int) iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		indices: make(map[reflect.Type]int),
	}
}

// RegisterComponent appends T to the registry's type list.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("ecs: component " + t.String() + " must be a value type")
	}
	if _, ok := r.indices[t]; ok {
		panic("ecs: component type " + t.String() + " registered twice")
	}
	if len(r.types) == MaxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register more than %d component types", MaxComponentTypes))
	}

	r.indices[t] = len(r.types)
	r.types = append(r.types, t)
	r.factories = append(r.factories, func(capacity int) iComponentStorage {
		return &genericComponentStorage[T]{column: sov.NewColumn[T](capacity)}
	})
}

// Width returns the number of declared component types.
func (r *ComponentRegistry) Width() int { return len(r.types) }

// Types returns the declared component types in index order.
func (r *ComponentRegistry) Types() []reflect.Type { return r.types }

// IndexOf returns the index of a declared component type.
func (r *ComponentRegistry) IndexOf(t reflect.Type) (int, bool) {
	i, ok := r.indices[t]
	return i, ok
}

// ComponentIndex returns the index of T in the registry.
func ComponentIndex[T any](r *ComponentRegistry) int {
	return r.mustIndex(reflect.TypeFor[T]())
}

// LayoutFor returns the layout with a bit set for each of the given types.
func (r *ComponentRegistry) LayoutFor(types ...reflect.Type) Layout {
	var l Layout
	for _, t := range types {
		l = l.With(r.mustIndex(t))
	}
	return l
}

// TypesOf returns the component types whose bits are set in l.
func (r *ComponentRegistry) TypesOf(l Layout) []reflect.Type {
	types := make([]reflect.Type, 0, l.Count())
	for _, i := range l.Indices() {
		types = append(types, r.types[i])
	}
	return types
}

func (r *ComponentRegistry) mustIndex(t reflect.Type) int {
	i, ok := r.indices[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return i
}

func (r *ComponentRegistry) newStorage(index, capacity int) iComponentStorage {
	return r.factories[index](capacity)
}

// genericComponentStorage stores components of type T in a sov.Column.
type genericComponentStorage[T any] struct {
	column *sov.Column[T]
}

func (cs *genericComponentStorage[T]) appendZero() {
	var zero T
	cs.column.PushBack(zero)
}

// set stores value at index. It accepts T or *T and reports whether the type matched.
func (cs *genericComponentStorage[T]) set(index int, value any) bool {
	switch v := value.(type) {
	case T:
		*cs.column.Ptr(index) = v
	case *T:
		*cs.column.Ptr(index) = *v
	default:
		return false
	}
	return true
}

// get returns a *T to the component at index.
func (cs *genericComponentStorage[T]) get(index int) any {
	return cs.column.Ptr(index)
}

func (cs *genericComponentStorage[T]) ptr(index int) unsafe.Pointer {
	return unsafe.Pointer(cs.column.Ptr(index))
}

// moveTo moves the component at srcIndex into dst at dstIndex and zeroes the source.
func (cs *genericComponentStorage[T]) moveTo(dst iComponentStorage, srcIndex, dstIndex int) {
	target := dst.(*genericComponentStorage[T])
	src := cs.column.Ptr(srcIndex)
	*target.column.Ptr(dstIndex) = *src
	var zero T
	*src = zero
}

func (cs *genericComponentStorage[T]) reset(index int) {
	var zero T
	*cs.column.Ptr(index) = zero
}

// compact returns a new exactly-sized storage holding the given rows in order.
func (cs *genericComponentStorage[T]) compact(live []int) iComponentStorage {
	out := sov.NewColumn[T](len(live))
	for _, i := range live {
		out.PushBack(*cs.column.Ptr(i))
	}
	cs.column.Clear()
	return &genericComponentStorage[T]{column: out}
}

func (cs *genericComponentStorage[T]) len() int { return cs.column.Len() }

func (cs *genericComponentStorage[T]) footprint() uintptr {
	return reflect.TypeFor[T]().Size() * uintptr(cs.column.Cap())
}
