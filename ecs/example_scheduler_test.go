package ecs_test

import (
	"fmt"

	"github.com/plus3/flexscene/ecs"
)

type Clock struct {
	Elapsed float64
}

// driftSystem moves bodies and advances the shared clock.
type driftSystem struct {
	Bodies ecs.Query[struct {
		*Position
		*Velocity
	}]
	Clock ecs.Singleton[Clock]
}

func (s *driftSystem) Execute(frame *ecs.UpdateFrame) {
	s.Clock.Get().Elapsed += frame.DeltaTime
	for item := range s.Bodies.Values() {
		item.X += item.DX * float32(frame.DeltaTime)
	}
}

// boundarySystem despawns bodies that leave [0, 10) and spawns a
// replacement at the origin.
type boundarySystem struct {
	Bodies ecs.Query[struct {
		Id ecs.EntityId
		*Position
	}]
}

func (s *boundarySystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Bodies.Iter() {
		if item.X < 0 || item.X >= 10 {
			frame.Commands.Delete(item.Id)
			frame.Commands.Spawn(Position{}, Velocity{DX: 1})
		}
	}
}

func ExampleScheduler() {
	storage := ecs.NewStorage(exampleRegistry())
	ecs.NewSingleton(storage, Clock{})
	storage.Spawn(Position{X: 8}, Velocity{DX: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&driftSystem{})
	scheduler.Register(&boundarySystem{})

	for range 3 {
		scheduler.Once(1)
	}

	var clock *Clock
	storage.ReadSingleton(&clock)
	fmt.Printf("t=%.0f frames=%d entities=%d\n", clock.Elapsed, scheduler.Frame(), storage.Len())
	ecs.ForAnyWith(storage, func(id ecs.EntityId, item struct{ *Position }) {
		fmt.Printf("entity %d at %.0f\n", id, item.X)
	})

	// Output:
	// t=3 frames=3 entities=1
	// entity 0 at 1
}
