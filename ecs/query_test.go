package ecs_test

import (
	"testing"

	"github.com/plus3/flexscene/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQueryPanicsBeforeExecute(t *testing.T) {
	q := ecs.NewQuery[movingView](newTestStorage())
	assert.Panics(t, func() { q.Iter() })
	assert.Panics(t, func() { q.Values() })
}

func TestQuerySnapshotIsStableUntilExecute(t *testing.T) {
	storage := newTestStorage()
	first := storage.Spawn(Position{X: 1}, Velocity{})
	q := ecs.NewQuery[movingView](storage)
	q.Execute()

	second := storage.Spawn(Position{X: 2}, Velocity{})
	assert.Equal(t, 1, q.Len(), "spawns after Execute are not visible")

	q.Execute()
	var ids []ecs.EntityId
	for id := range q.Iter() {
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []ecs.EntityId{first, second}, ids)
}

func TestQueryPicksUpNewArchetypes(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(Position{X: 1}, Velocity{})
	q := ecs.NewQuery[movingView](storage)
	q.Execute()
	assert.Equal(t, 1, q.Len())

	// Each spawn below creates archetypes the query has not seen.
	storage.Spawn(Position{X: 2}, Velocity{}, Health{})
	storage.Spawn(Name{}, Velocity{}, Position{X: 3})
	storage.Spawn(Name{})
	q.Execute()

	var xs []float32
	for item := range q.Values() {
		xs = append(xs, item.X)
	}
	assert.ElementsMatch(t, []float32{1, 2, 3}, xs)
}

func TestQueryWritesThrough(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{}, Velocity{DX: 2})
	q := ecs.NewQuery[movingView](storage)

	for range 2 {
		q.Execute()
		for item := range q.Values() {
			item.X += item.DX
		}
	}
	assert.Equal(t, float32(4), ecs.ReadComponent[Position](storage, id).X)
}

func TestQueryAfterDestroyAndCompaction(t *testing.T) {
	storage := newTestStorage()
	a := storage.Spawn(Position{X: 1}, Velocity{})
	b := storage.Spawn(Position{X: 2}, Velocity{})
	q := ecs.NewQuery[movingView](storage)

	storage.DestroyEntity(a)
	storage.ShrinkToFit()
	q.Execute()

	for id, item := range q.Iter() {
		assert.Equal(t, b, id)
		assert.Equal(t, float32(2), item.X)
	}
	assert.Equal(t, 1, q.Len())
}

func TestQueryInitRebinds(t *testing.T) {
	one := newTestStorage()
	one.Spawn(Position{}, Velocity{})
	two := newTestStorage()

	q := ecs.NewQuery[movingView](one)
	q.Execute()
	assert.Equal(t, 1, q.Len())

	q.Init(two)
	assert.Panics(t, func() { q.Iter() }, "rebinding drops the snapshot")
	q.Execute()
	assert.Zero(t, q.Len())
}
