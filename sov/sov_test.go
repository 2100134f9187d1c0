package sov_test

import (
	"reflect"
	"testing"

	"github.com/plus3/flexscene/sov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type marker struct {
	ID   int
	Name string
}

type vec3 struct {
	X, Y, Z float32
}

func TestGrowthPreservesRows(t *testing.T) {
	s := sov.New3[int64, marker, vec3](2)

	for i := range 10 {
		s.PushBack(int64(i*100), marker{ID: i, Name: string(rune('a' + i))}, vec3{X: float32(i)})
	}

	assert.Equal(t, 10, s.Len())
	assert.GreaterOrEqual(t, s.Cap(), 10)
	require.Len(t, s.Field0(), 10)

	for i := range 10 {
		assert.Equal(t, int64(i*100), s.Field0()[i])
		assert.Equal(t, marker{ID: i, Name: string(rune('a' + i))}, s.Field1()[i])
		assert.Equal(t, float32(i), s.Field2()[i].X)
	}

	assert.Equal(t, s.Field1(), sov.Field[marker](s.Table()))
	assert.Equal(t, s.Field0(), sov.FieldAt[int64](s.Table(), 0))
}

func TestGrowthDoublesCapacity(t *testing.T) {
	s := sov.New2[int, int](2)
	s.PushBack(1, 1)
	s.PushBack(2, 2)
	assert.Equal(t, 2, s.Cap())

	s.PushBack(3, 3)
	assert.Equal(t, 4, s.Cap())

	empty := sov.New2[int, int](0)
	empty.PushBack(1, 1)
	assert.Equal(t, 1, empty.Cap())
}

func TestPushPopSymmetry(t *testing.T) {
	s := sov.New2[int, string](4)
	s.PushBack(1, "one")
	s.PushBack(2, "two")

	for i := range 7 {
		s.PushBack(100+i, "extra")
	}
	for range 7 {
		s.PopBack()
	}

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{1, 2}, s.Field0())
	assert.Equal(t, []string{"one", "two"}, s.Field1())
}

func TestPopBackEmptyIsNoop(t *testing.T) {
	s := sov.New2[int, int](1)
	s.PopBack()
	assert.Equal(t, 0, s.Len())
}

func TestIndexReturnsReferences(t *testing.T) {
	s := sov.New2[int, marker](4)
	s.PushBack(1, marker{ID: 1})

	n, m := s.Index(0)
	*n = 42
	m.Name = "changed"

	assert.Equal(t, 42, s.Field0()[0])
	assert.Equal(t, "changed", s.Field1()[0].Name)
}

func TestAtBoundsChecking(t *testing.T) {
	s := sov.New4[int, int8, int16, marker](4)
	s.PushBack(1, 2, 3, marker{ID: 4})

	a, b, c, d, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, 1, *a)
	assert.Equal(t, int8(2), *b)
	assert.Equal(t, int16(3), *c)
	assert.Equal(t, 4, d.ID)

	_, _, _, _, err = s.At(1)
	assert.ErrorIs(t, err, sov.ErrOutOfRange)

	_, _, _, _, err = s.At(-1)
	assert.ErrorIs(t, err, sov.ErrOutOfRange)
}

func TestAllIteratesInOrder(t *testing.T) {
	s := sov.New2[int, string](2)
	s.PushBack(10, "a")
	s.PushBack(20, "b")
	s.PushBack(30, "c")

	var got []int
	for i, row := range s.All() {
		assert.Equal(t, i, len(got))
		got = append(got, *row.First)
	}
	assert.Equal(t, []int{10, 20, 30}, got)

	count := 0
	for range s.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestCloneIsIndependent(t *testing.T) {
	s := sov.New2[int, []string](2)
	s.PushBack(1, []string{"x"})

	c := s.Clone()
	n, _ := c.Index(0)
	*n = 99
	c.PushBack(2, nil)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Field0()[0])
	assert.Equal(t, 2, c.Len())
}

func TestTakeResetsSource(t *testing.T) {
	s := sov.New3[int, int, int](8)
	s.PushBack(1, 2, 3)
	s.PushBack(4, 5, 6)

	moved := s.Take()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Cap())
	assert.Equal(t, 2, moved.Len())
	assert.Equal(t, 8, moved.Cap())
	assert.Equal(t, []int{3, 6}, moved.Field2())

	s.PushBack(7, 8, 9)
	assert.Equal(t, []int{7}, s.Field0())
	assert.Equal(t, []int{1, 4}, moved.Field0())
}

func TestTableTypeErased(t *testing.T) {
	tbl := sov.New(sov.DefaultCapacity, sov.Of[string](), sov.Of[float64]())
	assert.Equal(t, sov.DefaultCapacity, tbl.Cap())

	tbl.PushBack("a", 1.5)
	value := 2.5
	tbl.PushBack("b", &value)

	assert.Equal(t, []string{"a", "b"}, sov.Field[string](tbl))
	assert.Equal(t, []float64{1.5, 2.5}, sov.Field[float64](tbl))
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[float64]()}, tbl.Types())

	row, err := tbl.RowAt(1)
	require.NoError(t, err)
	*row[0].(*string) = "bb"
	assert.Equal(t, "bb", sov.Field[string](tbl)[1])

	_, err = tbl.RowAt(2)
	assert.ErrorIs(t, err, sov.ErrOutOfRange)

	assert.Panics(t, func() { tbl.PushBack("only one") })
	assert.Panics(t, func() { tbl.PushBack(1, 2.0) })
}

func TestFieldLookupRequiresUniqueType(t *testing.T) {
	tbl := sov.New(2, sov.Of[int](), sov.Of[int](), sov.Of[string]())
	tbl.PushBack(1, 2, "x")

	assert.Panics(t, func() { sov.Field[int](tbl) })
	assert.Panics(t, func() { sov.Field[bool](tbl) })
	assert.Equal(t, []int{2}, sov.FieldAt[int](tbl, 1))
	assert.Panics(t, func() { sov.FieldAt[string](tbl, 0) })
	assert.Panics(t, func() { sov.FieldAt[int](tbl, 3) })
}

func TestReleaseDropsRows(t *testing.T) {
	tbl := sov.New(4, sov.Of[int]())
	tbl.PushBack(1)
	tbl.Release()
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 0, tbl.Cap())
}

func TestNegativeCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { sov.New(-1, sov.Of[int]()) })
	assert.Panics(t, func() { sov.NewColumn[int](-1) })
}

func TestLayoutAlignsFields(t *testing.T) {
	tbl := sov.New(3, sov.Of[int8](), sov.Of[int64](), sov.Of[int16]())
	placements, size := tbl.Layout()
	require.Len(t, placements, 3)

	assert.Equal(t, uintptr(0), placements[0].Offset)
	assert.Equal(t, uintptr(3), placements[0].Size)
	// int64 array is padded up to its alignment.
	assert.Equal(t, uintptr(8), placements[1].Offset)
	assert.Equal(t, uintptr(24), placements[1].Size)
	assert.Equal(t, uintptr(32), placements[2].Offset)
	assert.Equal(t, uintptr(38), size)
	assert.Equal(t, size, tbl.Footprint())
}

func TestLayoutSameAlignmentIsPacked(t *testing.T) {
	tbl := sov.New(5, sov.Of[float32](), sov.Of[int32](), sov.Of[vec3]())
	placements, size := tbl.Layout()

	assert.Equal(t, uintptr(0), placements[0].Offset)
	assert.Equal(t, uintptr(20), placements[1].Offset)
	assert.Equal(t, uintptr(40), placements[2].Offset)
	assert.Equal(t, uintptr(100), size)
}

func TestPlanEmptyAndMixed(t *testing.T) {
	placements, size := sov.Plan(nil, 10)
	assert.Empty(t, placements)
	assert.Zero(t, size)

	types := []reflect.Type{reflect.TypeFor[int8](), reflect.TypeFor[int64]()}
	_, size = sov.Plan(types, 0)
	assert.Zero(t, size)

	placements, size = sov.Plan(types, 2)
	assert.Equal(t, uintptr(8), placements[1].Offset)
	assert.Equal(t, uintptr(24), size)
}

func TestColumn(t *testing.T) {
	c := sov.NewColumn[string](1)
	c.PushBack("a")
	c.PushBack("b")
	c.PushBack("c")

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.Cap())
	assert.Equal(t, []string{"a", "b", "c"}, c.Values())

	p, err := c.At(2)
	require.NoError(t, err)
	*p = "z"
	assert.Equal(t, "z", *c.Ptr(2))

	_, err = c.At(3)
	assert.ErrorIs(t, err, sov.ErrOutOfRange)

	c.Reserve(100)
	assert.Equal(t, 128, c.Cap())
	assert.Equal(t, []string{"a", "b", "z"}, c.Values())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 128, c.Cap())
}
