package render_test

import (
	"errors"
	"testing"

	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/render"
	"github.com/plus3/flexscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	render.HandleLoader
	meshes   map[string]int
	shaders  map[scene.ShaderKey]int
	textures map[string]int
	failMesh string
}

func newCountingLoader() *countingLoader {
	return &countingLoader{
		meshes:   map[string]int{},
		shaders:  map[scene.ShaderKey]int{},
		textures: map[string]int{},
	}
}

func (l *countingLoader) LoadMesh(key string) (render.Handle, error) {
	if key == l.failMesh {
		return 0, errors.New("no such mesh")
	}
	l.meshes[key]++
	return l.HandleLoader.LoadMesh(key)
}

func (l *countingLoader) LoadShader(key scene.ShaderKey) (render.Handle, error) {
	l.shaders[key]++
	return l.HandleLoader.LoadShader(key)
}

func (l *countingLoader) LoadTexture(key string) (render.Handle, error) {
	l.textures[key]++
	return l.HandleLoader.LoadTexture(key)
}

func loadBasic(t *testing.T) *ecs.Storage {
	t.Helper()
	file, err := scene.Load("../scene/testdata/basic.json")
	require.NoError(t, err)
	storage := scene.NewStorage()
	file.Populate(storage)
	return storage
}

func TestResourcesDeduplicateKeys(t *testing.T) {
	storage := loadBasic(t)
	loader := newCountingLoader()
	resources := render.NewResources(loader)

	require.NoError(t, resources.Load(storage))
	require.NoError(t, resources.Load(storage))

	// cube.obj is used by two models, the basic shader pair by two parts.
	assert.Equal(t, render.ResourceCounts{Meshes: 2, Shaders: 2, Textures: 1}, resources.Counts())
	for key, n := range loader.meshes {
		assert.Equal(t, 1, n, key)
	}
	for key, n := range loader.shaders {
		assert.Equal(t, 1, n, key.Vertex)
	}
	assert.Equal(t, map[string]int{"assets/textures/crate.png": 1}, loader.textures)

	mesh, ok := resources.Mesh("assets/objects/cube.obj")
	assert.True(t, ok)
	assert.NotZero(t, mesh)
	_, ok = resources.Texture("missing.png")
	assert.False(t, ok)

	resources.Offload()
	assert.Equal(t, render.ResourceCounts{}, resources.Counts())
}

func TestResourcesLoadError(t *testing.T) {
	storage := loadBasic(t)
	loader := newCountingLoader()
	loader.failMesh = "assets/objects/sphere.obj"

	err := render.NewResources(loader).Load(storage)
	require.Error(t, err)
	assert.ErrorContains(t, err, `mesh "assets/objects/sphere.obj": no such mesh`)
}

func TestPlanFallsBackToDefaultCamera(t *testing.T) {
	storage := scene.NewStorage()
	storage.Spawn(scene.Model{})

	frame, err := render.NewPipeline(render.NewResources(nil)).Plan(storage, 800, 600)
	require.NoError(t, err)
	require.NotEmpty(t, frame.Passes)

	camera := scene.DefaultCamera()
	assert.Equal(t, camera.ViewMatrix(), frame.Passes[0].View)
	assert.Equal(t, camera.ProjectionMatrix(800, 600), frame.Passes[0].Projection)

	declared := scene.Camera{Position: scene.Vec3{X: 3, Y: 1, Z: 4}}
	storage.Spawn(declared)
	frame, err = render.NewPipeline(render.NewResources(nil)).Plan(storage, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, declared.ViewMatrix(), frame.Passes[0].View)
}

func TestPlanPasses(t *testing.T) {
	storage := loadBasic(t)
	pipeline := render.NewPipeline(render.NewResources(nil))

	frame, err := pipeline.Plan(storage, 1280, 720)
	require.NoError(t, err)

	kinds := make([]render.PassKind, 0, len(frame.Passes))
	for _, p := range frame.Passes {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []render.PassKind{
		render.PassOpaque, render.PassDepth, render.PassShadow, render.PassComposite,
	}, kinds)
	assert.Equal(t, scene.Colour{R: 12, G: 34, B: 56}, frame.Clear)

	opaque := frame.Passes[0]
	require.Len(t, opaque.Draws, 3)
	assert.Equal(t, 9, frame.DrawCount())

	// The first part is translated (1, 0, -2) and scaled by 2.
	first := opaque.Draws[0]
	assert.Equal(t, float32(2), first.Model.At(0, 0))
	assert.Equal(t, float32(1), first.Model.At(0, 3))
	assert.Equal(t, float32(-2), first.Model.At(2, 3))
	assert.NotZero(t, first.Texture)
	assert.Len(t, first.Lights, 2)

	second := opaque.Draws[1]
	assert.Zero(t, second.Texture)
	assert.Nil(t, second.Lights)
	assert.Equal(t, first.Entity, second.Entity)
	assert.Equal(t, 1, second.Part)
}

func TestCompositeInputPrecedence(t *testing.T) {
	cases := []struct {
		name        string
		bloom, post bool
		input       render.Target
		postInput   render.Target
	}{
		{"plain", false, false, render.TargetOffscreen, render.TargetNone},
		{"bloom", true, false, render.TargetBloom, render.TargetNone},
		{"post", false, true, render.TargetPostProcess, render.TargetOffscreen},
		{"both", true, true, render.TargetPostProcess, render.TargetBloom},
	}

	storage := scene.NewStorage()
	storage.Spawn(scene.DefaultCamera())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := render.NewPipeline(render.NewResources(nil),
				render.Bloom(tc.bloom), render.PostProcess(tc.post))
			frame, err := pipeline.Plan(storage, 640, 480)
			require.NoError(t, err)

			last := frame.Passes[len(frame.Passes)-1]
			assert.Equal(t, render.PassComposite, last.Kind)
			assert.Equal(t, render.TargetScreen, last.Target)
			assert.Equal(t, tc.input, last.Input)

			postInput := render.TargetNone
			for _, p := range frame.Passes {
				if p.Kind == render.PassPostProcess {
					postInput = p.Input
				}
			}
			assert.Equal(t, tc.postInput, postInput)
		})
	}
}

func TestPlanSystemKeepsLastFrame(t *testing.T) {
	storage := scene.NewStorage()
	loader := newCountingLoader()
	loader.failMesh = "missing.obj"
	system := &render.PlanSystem{
		Pipeline: render.NewPipeline(render.NewResources(loader)),
		Width:    320,
		Height:   200,
	}
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(system)

	scheduler.Once(0.016)
	require.NoError(t, system.Err)
	require.NotNil(t, system.Last)
	assert.Equal(t, 320, system.Last.Width)
	last := system.Last

	storage.Spawn(scene.Model{Parts: []scene.ModelPart{{
		MeshKey:   "missing.obj",
		ShaderKey: scene.ShaderKey{Vertex: "a.vert", Fragment: "a.frag"},
	}}})
	scheduler.Once(0.016)
	assert.ErrorContains(t, system.Err, "no such mesh")
	assert.Same(t, last, system.Last)
}
