package ecs_test

import "github.com/plus3/flexscene/ecs"

type Position struct{ X, Y float32 }

type Velocity struct{ DX, DY float32 }

type Name struct{ Value string }

type Health struct{ Current, Max int }

// Named primitives are components in their own right.
type (
	Score       int32
	Tag         string
	Temperature float64
)

// Components holding references must keep them across migration and
// compaction.
type (
	Inventory struct{ Items []string }
	Stats     struct{ Attributes map[string]int }
	Inner     struct{ Value int }
	Outer     struct {
		Data *Inner
		List []*Inner
	}
	Target struct{ Enemy *Name }
)

// newTestRegistry declares every test component plus three bare
// primitives, in a fixed order so layouts are predictable.
func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Temperature](registry)
	ecs.RegisterComponent[int32](registry)
	ecs.RegisterComponent[string](registry)
	ecs.RegisterComponent[float64](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Stats](registry)
	ecs.RegisterComponent[Inner](registry)
	ecs.RegisterComponent[Outer](registry)
	ecs.RegisterComponent[Target](registry)
	return registry
}

func newTestStorage() *ecs.Storage {
	return ecs.NewStorage(newTestRegistry())
}
