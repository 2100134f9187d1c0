package ecs

import "unsafe"

// iComponentStorage is the type-erased column holding one component type
// inside an archetype. Every populated column has one element per slot.
type iComponentStorage interface {
	appendZero()
	set(index int, value any) bool
	get(index int) any
	ptr(index int) unsafe.Pointer
	moveTo(dst iComponentStorage, srcIndex, dstIndex int)
	reset(index int)
	compact(live []int) iComponentStorage
	len() int
	footprint() uintptr
}
