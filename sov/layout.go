package sov

import "reflect"

// Placement describes where one field's array would start in a single
// contiguous block holding every field of a table.
type Placement struct {
	Type   reflect.Type
	Offset uintptr
	Size   uintptr
}

// Layout returns the aligned single-block placement of every field at the
// table's current capacity, along with the total block size in bytes.
func (t *Table) Layout() ([]Placement, uintptr) {
	return Plan(t.types, t.capacity)
}

// Footprint returns the number of bytes the table's backing arrays occupy.
func (t *Table) Footprint() uintptr {
	_, size := t.Layout()
	return size
}

// Plan places capacity elements of each type in one aligned block and
// returns the placements along with the block size.
func Plan(types []reflect.Type, capacity int) ([]Placement, uintptr) {
	placements := make([]Placement, len(types))
	aligned := sameAlignment(types)

	var offset uintptr
	for i, typ := range types {
		if !aligned {
			offset = alignUp(offset, uintptr(typ.Align()))
		}
		size := typ.Size() * uintptr(capacity)
		placements[i] = Placement{Type: typ, Offset: offset, Size: size}
		offset += size
	}
	return placements, offset
}

// sameAlignment reports whether every type shares the first type's alignment,
// in which case consecutive arrays never need padding.
func sameAlignment(types []reflect.Type) bool {
	for _, typ := range types[min(1, len(types)):] {
		if typ.Align() != types[0].Align() {
			return false
		}
	}
	return true
}

func alignUp(offset, align uintptr) uintptr {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
