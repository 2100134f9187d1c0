// Package render turns the contents of a scene store into a frame plan: the
// ordered passes, draw calls and resource handles a GPU backend would
// execute. It performs no graphics calls itself.
package render

import (
	"fmt"

	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/scene"
)

// Handle identifies a loaded GPU resource. The zero Handle is never issued.
type Handle uint32

// Loader uploads resources and returns their handles.
type Loader interface {
	LoadMesh(key string) (Handle, error)
	LoadShader(key scene.ShaderKey) (Handle, error)
	LoadTexture(key string) (Handle, error)
}

// HandleLoader issues sequential handles without touching any files. It is
// the loader for headless runs.
type HandleLoader struct {
	next Handle
}

func (l *HandleLoader) issue() Handle {
	l.next++
	return l.next
}

func (l *HandleLoader) LoadMesh(string) (Handle, error)            { return l.issue(), nil }
func (l *HandleLoader) LoadShader(scene.ShaderKey) (Handle, error) { return l.issue(), nil }
func (l *HandleLoader) LoadTexture(string) (Handle, error)         { return l.issue(), nil }

// ResourceCounts is the number of cached resources of each kind.
type ResourceCounts struct {
	Meshes   int
	Shaders  int
	Textures int
}

// Resources caches mesh, shader and texture handles by key so each key is
// loaded once.
type Resources struct {
	loader   Loader
	meshes   map[string]Handle
	shaders  map[scene.ShaderKey]Handle
	textures map[string]Handle
}

// NewResources creates an empty cache. A nil loader uses a HandleLoader.
func NewResources(loader Loader) *Resources {
	if loader == nil {
		loader = &HandleLoader{}
	}
	r := &Resources{loader: loader}
	r.Offload()
	return r
}

// Load resolves every mesh, shader and texture referenced by a Model in
// storage. Keys already cached are not loaded again.
func (r *Resources) Load(storage *ecs.Storage) error {
	var err error
	ecs.ForAnyWith(storage, func(id ecs.EntityId, item struct{ *scene.Model }) {
		if err != nil {
			return
		}
		for _, part := range item.Model.Parts {
			if _, err = r.resolve(part); err != nil {
				err = fmt.Errorf("render: load entity %d: %w", id, err)
				return
			}
		}
	})
	return err
}

// Offload drops every cached handle.
func (r *Resources) Offload() {
	r.meshes = make(map[string]Handle)
	r.shaders = make(map[scene.ShaderKey]Handle)
	r.textures = make(map[string]Handle)
}

func (r *Resources) Counts() ResourceCounts {
	return ResourceCounts{Meshes: len(r.meshes), Shaders: len(r.shaders), Textures: len(r.textures)}
}

func (r *Resources) Mesh(key string) (Handle, bool) {
	h, ok := r.meshes[key]
	return h, ok
}

func (r *Resources) Shader(key scene.ShaderKey) (Handle, bool) {
	h, ok := r.shaders[key]
	return h, ok
}

func (r *Resources) Texture(key string) (Handle, bool) {
	h, ok := r.textures[key]
	return h, ok
}

type partHandles struct {
	mesh, shader, texture Handle
}

// resolve returns the handles for a model part, loading any that are
// missing from the cache.
func (r *Resources) resolve(part scene.ModelPart) (partHandles, error) {
	var h partHandles
	var err error

	if h.mesh, err = cached(r.meshes, part.MeshKey, r.loader.LoadMesh); err != nil {
		return h, fmt.Errorf("mesh %q: %w", part.MeshKey, err)
	}
	if h.shader, err = cached(r.shaders, part.ShaderKey, r.loader.LoadShader); err != nil {
		return h, fmt.Errorf("shader %s/%s: %w", part.ShaderKey.Vertex, part.ShaderKey.Fragment, err)
	}
	if part.TextureKey != nil {
		if h.texture, err = cached(r.textures, *part.TextureKey, r.loader.LoadTexture); err != nil {
			return h, fmt.Errorf("texture %q: %w", *part.TextureKey, err)
		}
	}
	return h, nil
}

func cached[K comparable](m map[K]Handle, key K, load func(K) (Handle, error)) (Handle, error) {
	if h, ok := m[key]; ok {
		return h, nil
	}
	h, err := load(key)
	if err != nil {
		return 0, err
	}
	m[key] = h
	return h, nil
}
