package scene

import "github.com/plus3/flexscene/ecs"

// NewRegistry returns a registry declaring the scene component types in
// their fixed order: Model, Camera, PointLight, DirectionalLight.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Model](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[PointLight](registry)
	ecs.RegisterComponent[DirectionalLight](registry)
	return registry
}

// NewStorage returns an empty store over the scene component types.
func NewStorage() *ecs.Storage {
	return ecs.NewStorage(NewRegistry())
}

// CameraSystem advances every camera along its velocity.
type CameraSystem struct {
	Cameras ecs.Query[struct{ *Camera }]
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for _, item := range s.Cameras.Iter() {
		item.Camera.Step(dt)
	}
}
