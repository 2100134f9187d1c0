package sov

import (
	"fmt"
	"reflect"
)

// field is the type-erased view of a Column that a Table drives in lockstep.
type field interface {
	elemType() reflect.Type
	Len() int
	Cap() int
	Reserve(n int)
	PopBack()
	Clear()
	pushZero()
	setAny(i int, v any)
	ptrAny(i int) any
	cloneField() field
	empty() field
	release()
}

func (c *Column[T]) elemType() reflect.Type { return reflect.TypeFor[T]() }

func (c *Column[T]) pushZero() {
	var zero T
	c.PushBack(zero)
}

func (c *Column[T]) setAny(i int, v any) {
	switch val := v.(type) {
	case T:
		c.data[i] = val
	case *T:
		c.data[i] = *val
	default:
		panic(fmt.Sprintf("sov: cannot store %T in field of %s", v, reflect.TypeFor[T]()))
	}
}

func (c *Column[T]) ptrAny(i int) any { return &c.data[i] }

func (c *Column[T]) cloneField() field { return c.Clone() }

func (c *Column[T]) empty() field { return NewColumn[T](0) }

func (c *Column[T]) release() {
	c.Clear()
	c.data = nil
}

// FieldSpec declares one field of a Table.
type FieldSpec struct {
	typ  reflect.Type
	make func(capacity int) field
}

// Of declares a field holding values of type T.
func Of[T any]() FieldSpec {
	return FieldSpec{
		typ:  reflect.TypeFor[T](),
		make: func(capacity int) field { return NewColumn[T](capacity) },
	}
}

// Table is a structure-of-arrays over an ordered list of declared field types.
// Every field holds exactly Len() live elements.
type Table struct {
	fields   []field
	types    []reflect.Type
	count    int
	capacity int
}

// New creates a table with room for capacity rows of the given fields.
func New(capacity int, fields ...FieldSpec) *Table {
	if capacity < 0 {
		panic(fmt.Sprintf("sov: negative capacity %d", capacity))
	}
	t := &Table{
		fields:   make([]field, len(fields)),
		types:    make([]reflect.Type, len(fields)),
		capacity: capacity,
	}
	for i, f := range fields {
		t.fields[i] = f.make(capacity)
		t.types[i] = f.typ
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.count }

// Cap returns the number of rows every field can hold before growing.
func (t *Table) Cap() int { return t.capacity }

// Types returns the declared field types in order.
func (t *Table) Types() []reflect.Type { return t.types }

// Reserve makes room for at least n rows in every field.
func (t *Table) Reserve(n int) {
	if n <= t.capacity {
		return
	}
	t.capacity = growCapacity(t.capacity, n)
	for _, f := range t.fields {
		f.Reserve(t.capacity)
	}
}

// PushBack appends one row. Values are given in field order, either as T or *T.
func (t *Table) PushBack(values ...any) {
	if len(values) != len(t.fields) {
		panic(fmt.Sprintf("sov: PushBack got %d values for %d fields", len(values), len(t.fields)))
	}
	i := t.pushRow()
	for fi, f := range t.fields {
		f.setAny(i, values[fi])
	}
}

// pushRow appends a zero row, growing first when full, and returns its index.
func (t *Table) pushRow() int {
	if t.count == t.capacity {
		t.Reserve(t.count + 1)
	}
	for _, f := range t.fields {
		f.pushZero()
	}
	t.count++
	return t.count - 1
}

// PopBack drops the last row. It is a no-op on an empty table.
func (t *Table) PopBack() {
	if t.count == 0 {
		return
	}
	for _, f := range t.fields {
		f.PopBack()
	}
	t.count--
}

// Row returns pointers to the elements of row i, one per field, without bounds checking.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.fields))
	for fi, f := range t.fields {
		row[fi] = f.ptrAny(i)
	}
	return row
}

// RowAt is the checked form of Row.
func (t *Table) RowAt(i int) ([]any, error) {
	if i < 0 || i >= t.count {
		return nil, outOfRange(i, t.count)
	}
	return t.Row(i), nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		fields:   make([]field, len(t.fields)),
		types:    t.types,
		count:    t.count,
		capacity: t.capacity,
	}
	for i, f := range t.fields {
		out.fields[i] = f.cloneField()
	}
	return out
}

// Take moves the contents into a new table and leaves t empty with no capacity.
func (t *Table) Take() *Table {
	out := &Table{
		fields:   t.fields,
		types:    t.types,
		count:    t.count,
		capacity: t.capacity,
	}
	t.fields = make([]field, len(out.fields))
	for i, f := range out.fields {
		t.fields[i] = f.empty()
	}
	t.count = 0
	t.capacity = 0
	return out
}

// Release destroys every row and drops the backing storage.
func (t *Table) Release() {
	for _, f := range t.fields {
		f.release()
	}
	t.count = 0
	t.capacity = 0
}

// Field returns the live elements of the single field declared with type T.
// It panics unless T was declared exactly once.
func Field[T any](t *Table) []T {
	want := reflect.TypeFor[T]()
	found := -1
	for i, typ := range t.types {
		if typ != want {
			continue
		}
		if found >= 0 {
			panic(fmt.Sprintf("sov: field type %s declared more than once", want))
		}
		found = i
	}
	if found < 0 {
		panic(fmt.Sprintf("sov: no field of type %s", want))
	}
	return t.fields[found].(*Column[T]).Values()
}

// FieldAt returns the live elements of the field at position index.
func FieldAt[T any](t *Table, index int) []T {
	if index < 0 || index >= len(t.fields) {
		panic(fmt.Sprintf("sov: field index %d out of range [0,%d)", index, len(t.fields)))
	}
	col, ok := t.fields[index].(*Column[T])
	if !ok {
		panic(fmt.Sprintf("sov: field %d is %s, not %s", index, t.types[index], reflect.TypeFor[T]()))
	}
	return col.Values()
}

// column returns the typed column at position index. Used by the arity wrappers.
func column[T any](t *Table, index int) *Column[T] {
	return t.fields[index].(*Column[T])
}
