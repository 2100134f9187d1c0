package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flexscene/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// target addresses one component of one entity for write-back.
type target struct {
	storage  *ecs.Storage
	entity   ecs.EntityId
	compType reflect.Type
}

// Render draws every component of the selected entity with editable
// scalar fields.
func (ci *ComponentInspectorComponent) Render(storage *ecs.Storage, id ecs.EntityId, ok bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if !ok || !storage.IsActive(id) {
		if ci.drawn {
			imgui.Text(fmt.Sprintf("Entity %d no longer exists", ci.shown))
		} else {
			imgui.Text("No entity selected")
		}
		return
	}
	ci.shown, ci.drawn = id, true

	layout, slot := storage.Location(id)
	imgui.Text(fmt.Sprintf("Entity %d", id))
	imgui.Text(fmt.Sprintf("Layout %s, slot %d", layout.Format(storage.Registry().Width()), slot))
	imgui.Separator()

	for _, t := range storage.Registry().TypesOf(layout) {
		component := storage.GetComponent(id, t)
		if component == nil {
			continue
		}
		if !imgui.TreeNodeStr(t.String()) {
			continue
		}
		at := target{storage: storage, entity: id, compType: t}
		root := reflect.ValueOf(component).Elem()
		if root.Kind() != reflect.Struct {
			at.scalar(t.Name(), root, nil)
		} else {
			at.fields(root, nil)
		}
		imgui.TreePop()
	}

	imgui.Separator()
	if imgui.Button("Destroy Entity") {
		storage.DestroyEntity(id)
	}
}

func (at target) fields(parent reflect.Value, path []int) {
	for _, field := range inspectorFields.GetFields(parent.Type()) {
		value := field.Value(parent)
		sub := append(path[:len(path):len(path)], field.Index)
		switch {
		case !value.IsValid():
			imgui.Text(field.Name + ": <invalid>")
		case field.Pointer && value.Kind() == reflect.Pointer:
			imgui.Text(field.Name + ": nil")
		case value.Kind() == reflect.Struct:
			if imgui.TreeNodeStr(field.Name) {
				at.fields(value, sub)
				imgui.TreePop()
			}
		default:
			at.scalar(field.Name, value, sub)
		}
	}
}

// scalar draws an edit widget for value and writes changes back through
// setField.
func (at target) scalar(name string, value reflect.Value, path []int) {
	id := "##" + name
	label := func(w float32) {
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(w)
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(value.Int())
		label(150)
		if imgui.InputInt(id, &v) {
			at.set(path, func(f reflect.Value) { f.SetInt(int64(v)) })
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(value.Uint())
		label(150)
		if imgui.InputInt(id, &v) && v >= 0 {
			at.set(path, func(f reflect.Value) { f.SetUint(uint64(v)) })
		}
	case reflect.Float32, reflect.Float64:
		v := float32(value.Float())
		label(150)
		if imgui.InputFloat(id, &v) {
			at.set(path, func(f reflect.Value) { f.SetFloat(float64(v)) })
		}
	case reflect.Bool:
		v := value.Bool()
		if imgui.Checkbox(name, &v) {
			at.set(path, func(f reflect.Value) { f.SetBool(v) })
		}
	case reflect.String:
		v := value.String()
		label(200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			at.set(path, func(f reflect.Value) { f.SetString(v) })
		}
	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: %d items", name, value.Len()))
	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: %d entries", name, value.Len()))
	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, value.Interface()))
	}
}

func (at target) set(path []int, set func(reflect.Value)) {
	setField(at.storage, at.entity, at.compType, path, set)
}

// setField applies set to the field at path inside the entity's component.
// The component is looked up again since its address may have changed
// since it was drawn.
func setField(storage *ecs.Storage, entity ecs.EntityId, compType reflect.Type, path []int, set func(reflect.Value)) bool {
	component := storage.GetComponent(entity, compType)
	if component == nil {
		return false
	}
	field := reflect.ValueOf(component).Elem()
	for _, index := range path {
		if field.Kind() != reflect.Struct {
			return false
		}
		field = field.Field(index)
		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				return false
			}
			field = field.Elem()
		}
	}
	if !field.CanSet() {
		return false
	}
	set(field)
	return true
}
