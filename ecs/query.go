package ecs

import "iter"

// Query is a View bound to a system. The scheduler calls Execute before the
// owning system runs, which snapshots every matching entity into a flat
// buffer that Iter and Values then walk.
//
// The set of matching archetypes is recomputed only when the store has
// gained archetypes since the last snapshot.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	matched []*Archetype
	seen    int

	ids   []EntityId
	items []T
	ready bool
}

// NewQuery returns a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any snapshot.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.matched = q.matched[:0]
	q.seen = 0
	q.ready = false
}

// Execute snapshots the entities that currently match.
func (q *Query[T]) Execute() {
	q.refreshArchetypes()

	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for _, archetype := range q.matched {
		for id, item := range q.view.iterArchetype(archetype) {
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}
	q.ready = true
}

// refreshArchetypes appends archetypes created since the last call. The
// store never removes archetypes, so earlier matches stay valid.
func (q *Query[T]) refreshArchetypes() {
	order := q.storage.order
	for _, archetype := range order[q.seen:] {
		if q.view.matches(archetype) {
			q.matched = append(q.matched, archetype)
		}
	}
	q.seen = len(order)
}

// Len returns the number of entities in the last snapshot.
func (q *Query[T]) Len() int { return len(q.ids) }

// Iter yields the snapshot's ids and view structs. It panics before the
// first Execute.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeReady("Iter")
	return func(yield func(EntityId, T) bool) {
		for i, id := range q.ids {
			if !yield(id, q.items[i]) {
				return
			}
		}
	}
}

// Values yields the snapshot's view structs. It panics before the first
// Execute.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeReady("Values")
	return func(yield func(T) bool) {
		for _, item := range q.items {
			if !yield(item) {
				return
			}
		}
	}
}

func (q *Query[T]) mustBeReady(op string) {
	if !q.ready {
		panic("ecs: Query." + op + "() called before Query.Execute()")
	}
}
