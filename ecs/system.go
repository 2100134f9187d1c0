package ecs

// System is one step of a frame. Exported Query and Singleton fields of a
// struct system are bound when it is registered with a Scheduler; any
// other fields are left alone and persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc lets a closure be registered as a System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) { f(frame) }
