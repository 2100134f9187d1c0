package render

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flexscene/ecs"
	"github.com/plus3/flexscene/scene"
)

// Fullscreen fragment shaders.
const (
	BloomShader       = "assets/shaders/bloom.frag.glsl"
	PostProcessShader = "assets/shaders/post_process_mix.frag.glsl"
	CompositeShader   = "assets/shaders/screen.frag.glsl"
)

// shadowExtent is the half-width of the orthographic shadow volume.
const shadowExtent = 20

type PassKind int

const (
	PassOpaque PassKind = iota
	PassDepth
	PassShadow
	PassBloom
	PassPostProcess
	PassComposite
)

func (k PassKind) String() string {
	switch k {
	case PassOpaque:
		return "opaque"
	case PassDepth:
		return "depth"
	case PassShadow:
		return "shadow"
	case PassBloom:
		return "bloom"
	case PassPostProcess:
		return "post-process"
	case PassComposite:
		return "composite"
	default:
		return fmt.Sprintf("PassKind(%d)", int(k))
	}
}

// Target is a framebuffer a pass reads from or writes to.
type Target int

const (
	TargetNone Target = iota
	TargetOffscreen
	TargetDepth
	TargetLightDepth
	TargetBloom
	TargetPostProcess
	TargetScreen
)

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetOffscreen:
		return "offscreen"
	case TargetDepth:
		return "depth"
	case TargetLightDepth:
		return "light-depth"
	case TargetBloom:
		return "bloom"
	case TargetPostProcess:
		return "post-process"
	case TargetScreen:
		return "screen"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// DrawCall draws one model part.
type DrawCall struct {
	Entity  ecs.EntityId
	Part    int
	Model   mgl32.Mat4
	Mesh    Handle
	Shader  Handle
	Texture Handle // zero when the part is untextured
	Lights  []scene.PointLight
}

// Pass is one step of a frame. Geometry passes carry draw calls and a
// view/projection pair; fullscreen passes read Input through Shader.
type Pass struct {
	Kind       PassKind
	Target     Target
	Input      Target
	Shader     string
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Draws      []DrawCall
}

// Frame is the plan for one rendered frame.
type Frame struct {
	Width, Height int
	Clear         scene.Colour
	Passes        []Pass
}

// DrawCount returns the number of draw calls across all passes.
func (f *Frame) DrawCount() int {
	n := 0
	for _, p := range f.Passes {
		n += len(p.Draws)
	}
	return n
}

// Pipeline plans frames from a scene store.
type Pipeline struct {
	resources   *Resources
	bloom       bool
	postProcess bool
}

type Option func(*Pipeline)

func Bloom(enabled bool) Option {
	return func(p *Pipeline) { p.bloom = enabled }
}

func PostProcess(enabled bool) Option {
	return func(p *Pipeline) { p.postProcess = enabled }
}

func NewPipeline(resources *Resources, opts ...Option) *Pipeline {
	p := &Pipeline{resources: resources}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Resources() *Resources { return p.resources }

func (p *Pipeline) ToggleBloom()       { p.bloom = !p.bloom }
func (p *Pipeline) TogglePostProcess() { p.postProcess = !p.postProcess }

// Plan builds the frame for storage at the given viewport size. The camera
// is the first entity holding a Camera, or scene.DefaultCamera when there is
// none. Resources missing from the cache are loaded on demand.
func (p *Pipeline) Plan(storage *ecs.Storage, width, height int) (*Frame, error) {
	camera := firstCamera(storage)

	draws, err := p.drawCalls(storage)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Width: width, Height: height}
	var background *scene.Background
	if storage.ReadSingleton(&background) {
		frame.Clear = background.Colour
	}

	view := camera.ViewMatrix()
	proj := camera.ProjectionMatrix(float32(width), float32(height))

	frame.Passes = append(frame.Passes,
		Pass{Kind: PassOpaque, Target: TargetOffscreen, View: view, Projection: proj, Draws: draws},
		Pass{Kind: PassDepth, Target: TargetDepth, View: view, Projection: proj, Draws: draws},
	)

	ecs.ForAnyWith(storage, func(_ ecs.EntityId, item struct{ *scene.DirectionalLight }) {
		lightView, lightProj := shadowMatrices(item.DirectionalLight)
		frame.Passes = append(frame.Passes, Pass{
			Kind:       PassShadow,
			Target:     TargetLightDepth,
			View:       lightView,
			Projection: lightProj,
			Draws:      draws,
		})
	})

	if p.bloom {
		frame.Passes = append(frame.Passes, Pass{
			Kind: PassBloom, Target: TargetBloom, Input: TargetOffscreen, Shader: BloomShader,
		})
	}
	if p.postProcess {
		input := TargetOffscreen
		if p.bloom {
			input = TargetBloom
		}
		frame.Passes = append(frame.Passes, Pass{
			Kind: PassPostProcess, Target: TargetPostProcess, Input: input, Shader: PostProcessShader,
		})
	}
	frame.Passes = append(frame.Passes, Pass{
		Kind: PassComposite, Target: TargetScreen, Input: p.compositeInput(), Shader: CompositeShader,
	})

	return frame, nil
}

// compositeInput picks the latest post-processed buffer.
func (p *Pipeline) compositeInput() Target {
	switch {
	case p.postProcess:
		return TargetPostProcess
	case p.bloom:
		return TargetBloom
	default:
		return TargetOffscreen
	}
}

func (p *Pipeline) drawCalls(storage *ecs.Storage) ([]DrawCall, error) {
	var lights []scene.PointLight
	ecs.ForAnyWith(storage, func(_ ecs.EntityId, item struct{ *scene.PointLight }) {
		lights = append(lights, *item.PointLight)
	})

	var draws []DrawCall
	var err error
	ecs.ForAnyWith(storage, func(id ecs.EntityId, item struct{ *scene.Model }) {
		if err != nil {
			return
		}
		for i, part := range item.Model.Parts {
			h, resolveErr := p.resources.resolve(part)
			if resolveErr != nil {
				err = fmt.Errorf("render: plan entity %d part %d: %w", id, i, resolveErr)
				return
			}
			call := DrawCall{
				Entity:  id,
				Part:    i,
				Model:   part.Transforms.Matrix(),
				Mesh:    h.mesh,
				Shader:  h.shader,
				Texture: h.texture,
			}
			if part.NeedsPointLights {
				call.Lights = lights
			}
			draws = append(draws, call)
		}
	})
	return draws, err
}

func firstCamera(storage *ecs.Storage) scene.Camera {
	view := ecs.NewView[struct{ *scene.Camera }](storage)
	for _, item := range view.Iter() {
		return *item.Camera
	}
	return scene.DefaultCamera()
}

func shadowMatrices(light *scene.DirectionalLight) (mgl32.Mat4, mgl32.Mat4) {
	eye := light.Properties.Position.Vec()
	dir := light.Direction.Vec()
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(eye, eye.Add(dir), up)
	proj := mgl32.Ortho(-shadowExtent, shadowExtent, -shadowExtent, shadowExtent, scene.NearPlane, scene.FarPlane)
	return view, proj
}

// PlanSystem plans a frame on every scheduler tick and keeps the latest one.
type PlanSystem struct {
	Pipeline *Pipeline
	Width    int
	Height   int
	Logger   *slog.Logger

	Last *Frame
	Err  error
}

func (s *PlanSystem) Execute(frame *ecs.UpdateFrame) {
	planned, err := s.Pipeline.Plan(frame.Storage, s.Width, s.Height)
	if err != nil {
		if s.Logger != nil && (s.Err == nil || s.Err.Error() != err.Error()) {
			s.Logger.Error("frame planning failed", "frame", frame.Frame, "error", err)
		}
		s.Err = err
		return
	}
	s.Last, s.Err = planned, nil
}
