package main

import (
	"log/slog"

	"github.com/plus3/flexscene/ecs"
)

// CompactionSystem shrinks the store once the share of tombstoned slots
// reaches Ratio. A zero Ratio disables it.
type CompactionSystem struct {
	Ratio  float64
	Logger *slog.Logger

	Compactions int
}

func (s *CompactionSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Ratio <= 0 {
		return
	}

	storage := frame.Storage
	var slots, tombstones int
	for _, archetype := range storage.Archetypes() {
		slots += archetype.Len()
		tombstones += archetype.Inactive()
	}
	if slots == 0 || float64(tombstones)/float64(slots) < s.Ratio {
		return
	}

	frame.Commands.Defer(func() {
		storage.ShrinkToFit()
		s.Compactions++
		if s.Logger != nil {
			s.Logger.Debug("compacted storage", "frame", frame.Frame, "tombstones", tombstones, "slots", slots)
		}
	})
}
