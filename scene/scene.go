package scene

import (
	"log/slog"

	"github.com/plus3/flexscene/ecs"
)

// Populate adds the file's contents to storage and returns the ids it
// created. The scene-level models, camera and point lights come first, one
// entity each, followed by the entity records in file order. Each record's
// components are added one at a time. The background colour is stored as
// the Background singleton.
func (f *File) Populate(storage *ecs.Storage) []ecs.EntityId {
	ids := make([]ecs.EntityId, 0, len(f.Models)+len(f.PointLights)+len(f.Entities)+1)

	for _, model := range f.Models {
		ids = append(ids, storage.Spawn(model))
	}
	if f.Camera != nil {
		ids = append(ids, storage.Spawn(*f.Camera))
	}
	for _, light := range f.PointLights {
		ids = append(ids, storage.Spawn(light))
	}

	for _, record := range f.Entities {
		id := storage.CreateEntity()
		for _, component := range record.Components.present() {
			storage.AddComponent(id, component)
		}
		ids = append(ids, id)
	}

	storage.AddSingleton(Background{Colour: f.Background})
	return ids
}

// Scene owns the store built from one scene file.
type Scene struct {
	path     string
	storage  *ecs.Storage
	logger   *slog.Logger
	register []func(*ecs.ComponentRegistry)
}

type Option func(*Scene)

// WithLogger sets the logger used to report reloads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) { s.logger = logger }
}

// WithComponents registers additional component types after the scene
// types each time the store is rebuilt.
func WithComponents(register func(*ecs.ComponentRegistry)) Option {
	return func(s *Scene) { s.register = append(s.register, register) }
}

// Open loads the scene at path into a new store.
func Open(path string, opts ...Option) (*Scene, error) {
	s := &Scene{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Switch(path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Path() string { return s.path }

// Storage returns the current store. It is replaced by Reload and Switch, so
// callers should not hold on to it across either.
func (s *Scene) Storage() *ecs.Storage { return s.storage }

// Reload rebuilds the store from the scene file. On error the previous
// store is kept.
func (s *Scene) Reload() error {
	return s.Switch(s.path)
}

// Switch replaces the scene with the one at path. On error the current
// scene is kept.
func (s *Scene) Switch(path string) error {
	file, err := Load(path)
	if err != nil {
		return err
	}

	registry := NewRegistry()
	for _, register := range s.register {
		register(registry)
	}
	storage := ecs.NewStorage(registry)
	ids := file.Populate(storage)

	s.path = path
	s.storage = storage
	s.logger.Info("scene loaded", "path", path, "entities", len(ids), "archetypes", len(storage.Archetypes()))
	return nil
}
