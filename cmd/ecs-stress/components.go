package main

import (
	"math/rand"
	"reflect"

	"github.com/plus3/flexscene/ecs"
)

type Position struct{ X, Y, Z float32 }
type Velocity struct{ DX, DY, DZ float32 }
type Health struct{ Current, Max int32 }
type Lifetime struct{ Frames int32 }
type Payload struct{ Data [8]uint64 }
type Tag uint32

// componentTypes is the pool random churn draws from.
var componentTypes = []reflect.Type{
	reflect.TypeFor[Position](),
	reflect.TypeFor[Velocity](),
	reflect.TypeFor[Health](),
	reflect.TypeFor[Lifetime](),
	reflect.TypeFor[Payload](),
	reflect.TypeFor[Tag](),
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Payload](registry)
	ecs.RegisterComponent[Tag](registry)
}

func randomComponent(rng *rand.Rand, t reflect.Type) any {
	switch t {
	case componentTypes[0]:
		return Position{X: rng.Float32(), Y: rng.Float32(), Z: rng.Float32()}
	case componentTypes[1]:
		return Velocity{DX: rng.Float32() - 0.5, DY: rng.Float32() - 0.5}
	case componentTypes[2]:
		return Health{Current: 100, Max: 100}
	case componentTypes[3]:
		return Lifetime{Frames: int32(rng.Intn(120) + 1)}
	case componentTypes[4]:
		return Payload{}
	default:
		return Tag(rng.Uint32())
	}
}

// spawnRandom creates an entity with n distinct random components.
func spawnRandom(storage *ecs.Storage, rng *rand.Rand, n int) ecs.EntityId {
	id := storage.CreateEntity()
	for _, i := range rng.Perm(len(componentTypes))[:n] {
		storage.AddComponent(id, randomComponent(rng, componentTypes[i]))
	}
	return id
}

// churn applies ops random structural changes: destroy, add or remove a
// component, or spawn.
func churn(storage *ecs.Storage, rng *rand.Rand, ops int) (destroyed int) {
	for range ops {
		slots := storage.EntitySlots()
		if slots == 0 {
			spawnRandom(storage, rng, rng.Intn(len(componentTypes))+1)
			continue
		}
		id := ecs.EntityId(rng.Intn(slots))
		if !storage.IsActive(id) {
			spawnRandom(storage, rng, rng.Intn(len(componentTypes))+1)
			continue
		}

		t := componentTypes[rng.Intn(len(componentTypes))]
		switch rng.Intn(4) {
		case 0:
			storage.DestroyEntity(id)
			destroyed++
		case 1, 2:
			if storage.HasComponent(id, t) {
				storage.RemoveComponent(id, t)
			} else {
				storage.AddComponent(id, randomComponent(rng, t))
			}
		default:
			spawnRandom(storage, rng, rng.Intn(len(componentTypes))+1)
		}
	}
	return destroyed
}

type MovementSystem struct {
	Moving ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for _, item := range s.Moving.Iter() {
		item.Position.X += item.Velocity.DX * dt
		item.Position.Y += item.Velocity.DY * dt
		item.Position.Z += item.Velocity.DZ * dt
	}
}

// ExpirySystem destroys entities whose lifetime has run out.
type ExpirySystem struct {
	Mortal ecs.Query[struct {
		Id ecs.EntityId
		*Lifetime
	}]
	Expired int
}

func (s *ExpirySystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Mortal.Iter() {
		item.Lifetime.Frames--
		if item.Lifetime.Frames <= 0 {
			frame.Commands.Delete(item.Id)
			s.Expired++
		}
	}
}
