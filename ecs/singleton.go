package ecs

import (
	"reflect"
	"sort"
)

// Singletons are scene-global values that belong to no entity, such as the
// clear colour or an input state. Each type has at most one value, held on
// the heap so pointers to it stay valid when the value is replaced.

// AddSingleton stores value as the singleton of its type. An existing
// singleton is overwritten in place. value may be a T or a *T.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	v := reflect.Indirect(reflect.ValueOf(value))

	if held, ok := s.singletons[t]; ok {
		held.Elem().Set(v)
		return
	}
	held := reflect.New(t)
	held.Elem().Set(v)
	s.singletons[t] = held
}

// ReadSingleton points *out at the singleton of its element type. out must
// be a **T. It reports whether that singleton exists.
func (s *Storage) ReadSingleton(out any) bool {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Ptr {
		panic("ecs: ReadSingleton requires a pointer to a pointer")
	}
	held, ok := s.singletons[target.Elem().Type().Elem()]
	if !ok {
		return false
	}
	target.Elem().Set(held)
	return true
}

// RemoveSingleton drops the singleton of type t. Singleton handles to it
// return nil afterwards.
func (s *Storage) RemoveSingleton(t reflect.Type) bool {
	if _, ok := s.singletons[t]; !ok {
		return false
	}
	delete(s.singletons, t)
	return true
}

func (s *Storage) singletonTypes() []string {
	names := make([]string, 0, len(s.singletons))
	for t := range s.singletons {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

// Singleton is a typed handle to the singleton of type T. A zero Singleton
// field on a system is bound by Scheduler.Register.
type Singleton[T any] struct {
	storage *Storage
}

// NewSingleton returns a handle to T's singleton, creating it from init (or
// the zero value) when storage does not hold one yet.
func NewSingleton[T any](storage *Storage, init ...T) *Singleton[T] {
	if _, ok := storage.singletons[reflect.TypeFor[T]()]; !ok {
		var value T
		if len(init) > 0 {
			value = init[0]
		}
		storage.AddSingleton(&value)
	}
	return &Singleton[T]{storage: storage}
}

// Init binds the handle to storage.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
}

// Get returns the singleton, or nil when it is absent or the handle is unbound.
func (s *Singleton[T]) Get() *T {
	if s.storage == nil {
		return nil
	}
	held, ok := s.storage.singletons[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return held.Interface().(*T)
}

// Exists reports whether the singleton is present.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
