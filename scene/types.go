// Package scene declares the component types a scene is made of, loads scene
// files into an ecs.Storage and watches them for changes.
package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera projection settings.
const (
	NearPlane   = 0.01
	FarPlane    = 1000.0
	FieldOfView = 45.0 // degrees
	MaxSpeed    = 25.0
)

// Vec3 is a three component vector as written in scene files.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Vec converts v to an mgl32 vector.
func (v Vec3) Vec() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

// Colour is an 8-bit RGB colour.
type Colour struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Vec returns the colour with each channel scaled to [0, 1].
func (c Colour) Vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// Transforms places a model part in the world.
type Transforms struct {
	Translation Vec3    `json:"Translation" yaml:"Translation"`
	Scale       float32 `json:"Scale" yaml:"Scale"`
}

// Matrix returns the part's model matrix: scale, then translate.
func (t Transforms) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X, t.Translation.Y, t.Translation.Z).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// ShaderKey names the shader sources of a program. Geometry is empty when the
// program has no geometry stage. Scene files write it as a three element
// array whose last element may be null.
type ShaderKey struct {
	Vertex   string
	Fragment string
	Geometry string
}

// ModelPart is one mesh of a model together with how to draw it.
type ModelPart struct {
	MeshKey          string     `json:"Mesh-File" yaml:"Mesh-File"`
	ShaderKey        ShaderKey  `json:"Shader-Files" yaml:"Shader-Files"`
	Transforms       Transforms `json:"Transforms" yaml:"Transforms"`
	NeedsPointLights bool       `json:"Needs-Point-Lights" yaml:"Needs-Point-Lights"`
	TextureKey       *string    `json:"Texture-File,omitempty" yaml:"Texture-File,omitempty"`
}

// Model is a drawable made of one or more parts.
type Model struct {
	Parts []ModelPart `json:"Model-Parts" yaml:"Model-Parts"`
}

// Camera is a free-flying perspective camera. Direction is the point the
// camera looks at.
type Camera struct {
	Position  Vec3 `json:"Position" yaml:"Position"`
	Velocity  Vec3 `json:"Velocity" yaml:"Velocity"`
	Direction Vec3 `json:"Direction" yaml:"Direction"`
}

// DefaultCamera returns the camera used when a scene does not declare one.
func DefaultCamera() Camera {
	return Camera{
		Position:  Vec3{0, 2, 0},
		Direction: Vec3{0, 0.5, 0},
	}
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position.Vec(), c.Direction.Vec(), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for a viewport.
func (c *Camera) ProjectionMatrix(width, height float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(FieldOfView), width/height, NearPlane, FarPlane)
}

// Step moves the camera along its velocity, capped at MaxSpeed.
func (c *Camera) Step(dt float32) {
	v := c.Velocity
	speed := math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if speed < 1e-5 {
		return
	}
	if speed > MaxSpeed {
		scale := MaxSpeed / speed
		v = Vec3{v.X * scale, v.Y * scale, v.Z * scale}
	}
	c.Position.X += v.X * dt
	c.Position.Y += v.Y * dt
	c.Position.Z += v.Z * dt
}

type LightAttenuation struct {
	Constant  float32 `json:"Constant" yaml:"Constant"`
	Linear    float32 `json:"Linear" yaml:"Linear"`
	Quadratic float32 `json:"Quadratic" yaml:"Quadratic"`
}

type PointLight struct {
	Position           Vec3             `json:"Position" yaml:"Position"`
	Attenuation        LightAttenuation `json:"Attenuation" yaml:"Attenuation"`
	Colour             Colour           `json:"Colour" yaml:"Colour"`
	Intensity          float32          `json:"Intensity" yaml:"Intensity"`
	AmbientCoefficient *float32         `json:"Ambient-Coefficient,omitempty" yaml:"Ambient-Coefficient,omitempty"`
	SpecularExponent   *float32         `json:"Specular-Exponent,omitempty" yaml:"Specular-Exponent,omitempty"`
}

// lightCutoff is the brightness below which a light no longer contributes.
const lightCutoff = 5.0 / 256.0

// Radius returns the distance at which the light's attenuated brightness
// falls below the visible cutoff. Lights that never fall off return +Inf.
func (p *PointLight) Radius() float32 {
	brightest := math32.Max(math32.Max(float32(p.Colour.R), float32(p.Colour.G)), float32(p.Colour.B)) / 255
	target := brightest * p.Intensity / lightCutoff
	a := p.Attenuation

	switch {
	case a.Quadratic > 0:
		disc := a.Linear*a.Linear - 4*a.Quadratic*(a.Constant-target)
		if disc < 0 {
			return 0
		}
		return math32.Max(0, (-a.Linear+math32.Sqrt(disc))/(2*a.Quadratic))
	case a.Linear > 0:
		return math32.Max(0, (target-a.Constant)/a.Linear)
	default:
		return math32.Inf(1)
	}
}

type DirectionalLight struct {
	Properties PointLight `json:"Properties" yaml:"Properties"`
	Direction  Vec3       `json:"Direction" yaml:"Direction"`
}

// Background holds the scene's clear colour. It is stored as a singleton.
type Background struct {
	Colour Colour
}
