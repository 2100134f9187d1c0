package ecs_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/plus3/flexscene/ecs"
	"github.com/stretchr/testify/assert"
)

type integrateSystem struct {
	Bodies ecs.Query[movingView]
	Runs   int
}

func (s *integrateSystem) Execute(frame *ecs.UpdateFrame) {
	s.Runs++
	dt := float32(frame.DeltaTime)
	for item := range s.Bodies.Values() {
		item.X += item.DX * dt
		item.Y += item.DY * dt
	}
}

type scoreboard struct {
	Total int
}

type tallySystem struct {
	Players ecs.Query[struct{ *Health }]
	Board   ecs.Singleton[scoreboard]
}

func (s *tallySystem) Execute(*ecs.UpdateFrame) {
	board := s.Board.Get()
	board.Total = 0
	for item := range s.Players.Values() {
		board.Total += item.Current
	}
}

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	var order []string
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "first") }))
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "second") }))
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
	assert.Equal(t, uint64(2), scheduler.Frame())
}

func TestSchedulerBindsQueriesAndSingletons(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{}, Velocity{DX: 10, DY: 20})
	storage.Spawn(Health{Current: 3})
	ecs.NewSingleton(storage, scoreboard{Total: -1})

	scheduler := ecs.NewScheduler(storage)
	integrate := &integrateSystem{}
	tally := &tallySystem{}
	scheduler.Register(integrate)
	scheduler.Register(tally)

	scheduler.Once(0.5)
	assert.Equal(t, Position{X: 5, Y: 10}, *ecs.ReadComponent[Position](storage, id))
	assert.Equal(t, 3, tally.Board.Get().Total)

	storage.Spawn(Health{Current: 4})
	scheduler.Once(0.5)
	assert.Equal(t, 7, tally.Board.Get().Total, "queries are refreshed every frame")
	assert.Equal(t, 2, integrate.Runs)
}

func TestSchedulerSeesCommandsNextFrame(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	spawned := false
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if !spawned {
			frame.Commands.Spawn(Position{}, Velocity{DX: 1})
			spawned = true
		}
	}))
	integrate := &integrateSystem{}
	scheduler.Register(integrate)

	scheduler.Once(1)
	assert.Zero(t, integrate.Bodies.Len())
	scheduler.Once(1)
	assert.Equal(t, 1, integrate.Bodies.Len())
}

func TestSchedulerCompaction(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage, ecs.WithCompaction(2))

	storage.DestroyEntity(storage.Spawn(Position{X: 1}))
	scheduler.Once(0)
	assert.NotZero(t, storage.CollectStats().TombstoneCount, "compaction runs every second frame")

	scheduler.Once(0)
	assert.Zero(t, storage.CollectStats().TombstoneCount)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(slog.New(slog.DiscardHandler)))
	integrate := &integrateSystem{}
	scheduler.Register(integrate)
	started := make(chan struct{})
	var once sync.Once
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { once.Do(func() { close(started) }) }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("scheduler never ran a frame")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	assert.Positive(t, integrate.Runs)
}
