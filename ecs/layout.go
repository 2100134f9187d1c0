package ecs

import (
	"math/bits"
	"strings"
)

// MaxComponentTypes is the largest number of component types a registry may declare.
const MaxComponentTypes = 64

// Layout is a bitset with one bit per declared component type. Entities with
// the same layout share an archetype. The zero Layout is the empty layout of
// a freshly created entity.
type Layout uint64

// LayoutOf returns the layout with exactly the given type indices set.
func LayoutOf(indices ...int) Layout {
	var l Layout
	for _, i := range indices {
		l = l.With(i)
	}
	return l
}

// Has reports whether bit i is set.
func (l Layout) Has(i int) bool {
	return l&(1<<uint(i)) != 0
}

// With returns l with bit i set.
func (l Layout) With(i int) Layout {
	if i < 0 || i >= MaxComponentTypes {
		panic("ecs: component index out of layout range")
	}
	return l | 1<<uint(i)
}

// Without returns l with bit i cleared.
func (l Layout) Without(i int) Layout {
	return l &^ (1 << uint(i))
}

// Contains reports whether l is a superset of other.
func (l Layout) Contains(other Layout) bool {
	return l&other == other
}

// Count returns the number of set bits.
func (l Layout) Count() int {
	return bits.OnesCount64(uint64(l))
}

// Indices returns the set bit positions in ascending order.
func (l Layout) Indices() []int {
	out := make([]int, 0, l.Count())
	for rest := uint64(l); rest != 0; rest &= rest - 1 {
		out = append(out, bits.TrailingZeros64(rest))
	}
	return out
}

// Format renders the lowest width bits, most significant first.
func (l Layout) Format(width int) string {
	var b strings.Builder
	for i := width - 1; i >= 0; i-- {
		if l.Has(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (l Layout) String() string {
	width := bits.Len64(uint64(l))
	if width == 0 {
		return "0"
	}
	return l.Format(width)
}
