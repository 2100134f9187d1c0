package sov

import "iter"

// Row2 holds references to the fields of one Sov2 row.
type Row2[A, B any] struct {
	First  *A
	Second *B
}

// Sov2 is a structure-of-arrays over two field types.
type Sov2[A, B any] struct {
	table *Table
	a     *Column[A]
	b     *Column[B]
}

// New2 creates a two-field container with room for capacity rows.
func New2[A, B any](capacity int) *Sov2[A, B] {
	return wrap2[A, B](New(capacity, Of[A](), Of[B]()))
}

func wrap2[A, B any](t *Table) *Sov2[A, B] {
	return &Sov2[A, B]{table: t, a: column[A](t, 0), b: column[B](t, 1)}
}

func (s *Sov2[A, B]) Table() *Table { return s.table }
func (s *Sov2[A, B]) Len() int      { return s.table.count }
func (s *Sov2[A, B]) Cap() int      { return s.table.capacity }
func (s *Sov2[A, B]) PopBack()      { s.table.PopBack() }
func (s *Sov2[A, B]) Field0() []A   { return s.a.Values() }
func (s *Sov2[A, B]) Field1() []B   { return s.b.Values() }

// PushBack appends one row.
func (s *Sov2[A, B]) PushBack(a A, b B) {
	i := s.table.pushRow()
	s.a.data[i], s.b.data[i] = a, b
}

// Index returns references to row i. The index is not checked.
func (s *Sov2[A, B]) Index(i int) (*A, *B) {
	return &s.a.data[i], &s.b.data[i]
}

// At returns references to row i, or ErrOutOfRange.
func (s *Sov2[A, B]) At(i int) (*A, *B, error) {
	if i < 0 || i >= s.table.count {
		return nil, nil, outOfRange(i, s.table.count)
	}
	a, b := s.Index(i)
	return a, b, nil
}

// All yields every row in index order.
func (s *Sov2[A, B]) All() iter.Seq2[int, Row2[A, B]] {
	return func(yield func(int, Row2[A, B]) bool) {
		for i := 0; i < s.table.count; i++ {
			a, b := s.Index(i)
			if !yield(i, Row2[A, B]{a, b}) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (s *Sov2[A, B]) Clone() *Sov2[A, B] { return wrap2[A, B](s.table.Clone()) }

// Take moves the contents into a new container and leaves s empty.
func (s *Sov2[A, B]) Take() *Sov2[A, B] {
	out := wrap2[A, B](s.table.Take())
	*s = *wrap2[A, B](s.table)
	return out
}

// Row3 holds references to the fields of one Sov3 row.
type Row3[A, B, C any] struct {
	First  *A
	Second *B
	Third  *C
}

// Sov3 is a structure-of-arrays over three field types.
type Sov3[A, B, C any] struct {
	table *Table
	a     *Column[A]
	b     *Column[B]
	c     *Column[C]
}

// New3 creates a three-field container with room for capacity rows.
func New3[A, B, C any](capacity int) *Sov3[A, B, C] {
	return wrap3[A, B, C](New(capacity, Of[A](), Of[B](), Of[C]()))
}

func wrap3[A, B, C any](t *Table) *Sov3[A, B, C] {
	return &Sov3[A, B, C]{table: t, a: column[A](t, 0), b: column[B](t, 1), c: column[C](t, 2)}
}

func (s *Sov3[A, B, C]) Table() *Table { return s.table }
func (s *Sov3[A, B, C]) Len() int      { return s.table.count }
func (s *Sov3[A, B, C]) Cap() int      { return s.table.capacity }
func (s *Sov3[A, B, C]) PopBack()      { s.table.PopBack() }
func (s *Sov3[A, B, C]) Field0() []A   { return s.a.Values() }
func (s *Sov3[A, B, C]) Field1() []B   { return s.b.Values() }
func (s *Sov3[A, B, C]) Field2() []C   { return s.c.Values() }

// PushBack appends one row.
func (s *Sov3[A, B, C]) PushBack(a A, b B, c C) {
	i := s.table.pushRow()
	s.a.data[i], s.b.data[i], s.c.data[i] = a, b, c
}

// Index returns references to row i. The index is not checked.
func (s *Sov3[A, B, C]) Index(i int) (*A, *B, *C) {
	return &s.a.data[i], &s.b.data[i], &s.c.data[i]
}

// At returns references to row i, or ErrOutOfRange.
func (s *Sov3[A, B, C]) At(i int) (*A, *B, *C, error) {
	if i < 0 || i >= s.table.count {
		return nil, nil, nil, outOfRange(i, s.table.count)
	}
	a, b, c := s.Index(i)
	return a, b, c, nil
}

// All yields every row in index order.
func (s *Sov3[A, B, C]) All() iter.Seq2[int, Row3[A, B, C]] {
	return func(yield func(int, Row3[A, B, C]) bool) {
		for i := 0; i < s.table.count; i++ {
			a, b, c := s.Index(i)
			if !yield(i, Row3[A, B, C]{a, b, c}) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (s *Sov3[A, B, C]) Clone() *Sov3[A, B, C] { return wrap3[A, B, C](s.table.Clone()) }

// Take moves the contents into a new container and leaves s empty.
func (s *Sov3[A, B, C]) Take() *Sov3[A, B, C] {
	out := wrap3[A, B, C](s.table.Take())
	*s = *wrap3[A, B, C](s.table)
	return out
}

// Row4 holds references to the fields of one Sov4 row.
type Row4[A, B, C, D any] struct {
	First  *A
	Second *B
	Third  *C
	Fourth *D
}

// Sov4 is a structure-of-arrays over four field types.
type Sov4[A, B, C, D any] struct {
	table *Table
	a     *Column[A]
	b     *Column[B]
	c     *Column[C]
	d     *Column[D]
}

// New4 creates a four-field container with room for capacity rows.
func New4[A, B, C, D any](capacity int) *Sov4[A, B, C, D] {
	return wrap4[A, B, C, D](New(capacity, Of[A](), Of[B](), Of[C](), Of[D]()))
}

func wrap4[A, B, C, D any](t *Table) *Sov4[A, B, C, D] {
	return &Sov4[A, B, C, D]{
		table: t,
		a:     column[A](t, 0),
		b:     column[B](t, 1),
		c:     column[C](t, 2),
		d:     column[D](t, 3),
	}
}

func (s *Sov4[A, B, C, D]) Table() *Table { return s.table }
func (s *Sov4[A, B, C, D]) Len() int      { return s.table.count }
func (s *Sov4[A, B, C, D]) Cap() int      { return s.table.capacity }
func (s *Sov4[A, B, C, D]) PopBack()      { s.table.PopBack() }
func (s *Sov4[A, B, C, D]) Field0() []A   { return s.a.Values() }
func (s *Sov4[A, B, C, D]) Field1() []B   { return s.b.Values() }
func (s *Sov4[A, B, C, D]) Field2() []C   { return s.c.Values() }
func (s *Sov4[A, B, C, D]) Field3() []D   { return s.d.Values() }

// PushBack appends one row.
func (s *Sov4[A, B, C, D]) PushBack(a A, b B, c C, d D) {
	i := s.table.pushRow()
	s.a.data[i], s.b.data[i], s.c.data[i], s.d.data[i] = a, b, c, d
}

// Index returns references to row i. The index is not checked.
func (s *Sov4[A, B, C, D]) Index(i int) (*A, *B, *C, *D) {
	return &s.a.data[i], &s.b.data[i], &s.c.data[i], &s.d.data[i]
}

// At returns references to row i, or ErrOutOfRange.
func (s *Sov4[A, B, C, D]) At(i int) (*A, *B, *C, *D, error) {
	if i < 0 || i >= s.table.count {
		return nil, nil, nil, nil, outOfRange(i, s.table.count)
	}
	a, b, c, d := s.Index(i)
	return a, b, c, d, nil
}

// All yields every row in index order.
func (s *Sov4[A, B, C, D]) All() iter.Seq2[int, Row4[A, B, C, D]] {
	return func(yield func(int, Row4[A, B, C, D]) bool) {
		for i := 0; i < s.table.count; i++ {
			a, b, c, d := s.Index(i)
			if !yield(i, Row4[A, B, C, D]{a, b, c, d}) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (s *Sov4[A, B, C, D]) Clone() *Sov4[A, B, C, D] { return wrap4[A, B, C, D](s.table.Clone()) }

// Take moves the contents into a new container and leaves s empty.
func (s *Sov4[A, B, C, D]) Take() *Sov4[A, B, C, D] {
	out := wrap4[A, B, C, D](s.table.Take())
	*s = *wrap4[A, B, C, D](s.table)
	return out
}
