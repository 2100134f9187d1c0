package ecs_test

import (
	"fmt"

	"github.com/plus3/flexscene/ecs"
)

func ExampleView() {
	storage := ecs.NewStorage(exampleRegistry())
	storage.Spawn(Position{X: 0}, Velocity{DX: 1})
	storage.Spawn(Position{X: 10}, Velocity{DX: -2}, Mass(3))
	storage.Spawn(Position{X: 99})

	type body struct {
		*Position
		*Velocity
	}
	view := ecs.NewView[body](storage)

	for range 2 {
		for item := range view.Values() {
			item.X += item.DX
		}
	}
	for id, item := range view.Iter() {
		fmt.Printf("entity %d at %.0f\n", id, item.X)
	}

	// Output:
	// entity 0 at 2
	// entity 1 at 6
}

func ExampleView_optional() {
	storage := ecs.NewStorage(exampleRegistry())
	storage.Spawn(Position{X: 1}, Label{Text: "beacon"})
	storage.Spawn(Position{X: 2})

	type marker struct {
		Id       ecs.EntityId
		Position *Position
		Label    *Label `ecs:"optional"`
	}

	for item := range ecs.NewView[marker](storage).Values() {
		text := "unlabelled"
		if item.Label != nil {
			text = item.Label.Text
		}
		fmt.Printf("%d: %s at %.0f\n", item.Id, text, item.Position.X)
	}

	// Output:
	// 1: unlabelled at 2
	// 0: beacon at 1
}

func ExampleForAnyWith() {
	storage := ecs.NewStorage(exampleRegistry())
	storage.Spawn(Mass(2), Label{Text: "crate"})
	storage.Spawn(Mass(5))

	var total Mass
	ecs.ForAnyWith(storage, func(_ ecs.EntityId, item struct{ *Mass }) {
		total += *item.Mass
	})
	fmt.Println(total)

	// Output:
	// 7
}
