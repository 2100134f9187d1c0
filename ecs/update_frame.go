package ecs

// UpdateFrame carries one Scheduler.Once call to each system. Structural
// changes made while a query is being iterated go through Commands, which
// is flushed after the last system.
type UpdateFrame struct {
	DeltaTime float64
	Frame     uint64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, n uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{DeltaTime: dt, Frame: n, Commands: newCommands(), Storage: storage}
}
