package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field the component inspector can show.
// For pointer fields Kind is the pointee's kind.
type FieldInfo struct {
	Name    string
	Index   int
	Pointer bool
	Kind    reflect.Kind
}

// Value returns the field of parent, dereferenced when it is a non-nil pointer.
func (f FieldInfo) Value(parent reflect.Value) reflect.Value {
	v := parent.Field(f.Index)
	if f.Pointer && !v.IsNil() {
		return v.Elem()
	}
	return v
}

// ReflectionCache memoises the inspectable fields of each struct type.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// GetFields returns t's exported fields in declaration order. Non-struct
// types have none.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}
	fields := inspectable(t)
	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

func inspectable(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var fields []FieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		ft := sf.Type
		info := FieldInfo{Name: sf.Name, Index: i}
		if ft.Kind() == reflect.Ptr {
			info.Pointer = true
			ft = ft.Elem()
		}
		info.Kind = ft.Kind()
		fields = append(fields, info)
	}
	return fields
}

var inspectorFields = NewReflectionCache()
