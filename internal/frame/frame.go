// Package frame composes the per-frame transforms and shader uniforms of the
// surface viewer and submits them, with the draw calls, to a Backend.
package frame

import (
	"github.com/Faultbox/surfview/internal/interaction"
	"github.com/Faultbox/surfview/internal/logger"
	"github.com/Faultbox/surfview/pkg/math"
	"github.com/Faultbox/surfview/pkg/surface"
)

// Primitive is the topology of a draw call.
type Primitive int

const (
	TriangleStrip Primitive = iota
	Points
)

func (p Primitive) String() string {
	switch p {
	case TriangleStrip:
		return "triangle-strip"
	case Points:
		return "points"
	default:
		return "unknown"
	}
}

// Fixed view setup.
var (
	projection = math.Ortho(-10, 10, -10, 10, -40, 40)
	tilt       = math.RotateAxis(math.V3(0.707, 0.707, 0), 0.7)
	pullBack   = math.Translate(0, 0, -10)
)

// Lighting is the fixed part of the shading model.
type Lighting struct {
	Ambient   [3]float32
	Diffuse   [3]float32
	Shininess float32
	Color     [4]float32
}

// DefaultLighting returns the viewer's yellow material under a warm ambient.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:   [3]float32{0.2, 0.1, 0.0},
		Diffuse:   [3]float32{1.0, 1.0, 0.0},
		Shininess: 2.0,
		Color:     [4]float32{1, 1, 0, 1},
	}
}

// Uniforms is the named uniform set shared by the mesh and marker draws.
type Uniforms struct {
	LightDirection [3]float32
	AmbientColor   [3]float32
	DiffuseColor   [3]float32
	Shininess      float32
	Color          [4]float32
	Scale          float32
	Offset         float32
	MarkerWorld    [3]float32
	MarkerUV       [2]float32
}

// Frame holds everything a Backend needs for one frame.
type Frame struct {
	ModelViewProjection math.Mat4
	Normal              math.Mat4 // inverse-transpose of the model-view
	Uniforms            Uniforms
}

// Backend receives the composed frame. The mesh buffers are bound by the
// backend itself; Draw only issues counts.
type Backend interface {
	SetMatrices(mvp, normal math.Mat4)
	SetUniforms(u Uniforms)
	SetDrawPoint(on bool)
	DrawArrays(mode Primitive, first, count int)
}

// Compose builds the frame for state s seen through the camera rotation view.
func Compose(s interaction.State, view math.Mat4, look Lighting) Frame {
	modelView := pullBack.Mul(tilt.Mul(view))
	inv, ok := modelView.Inverse()
	if !ok {
		// Only a degenerate view can get here; shade with untransformed normals.
		logger.Warn("model-view matrix is singular, using identity normal matrix")
	}

	mx := surface.Radians(float64(s.MarkerX))
	my := surface.Radians(float64(s.MarkerY))

	return Frame{
		ModelViewProjection: projection.Mul(modelView),
		Normal:              inv.Transpose(),
		Uniforms: Uniforms{
			LightDirection: s.LightDirection(),
			AmbientColor:   look.Ambient,
			DiffuseColor:   look.Diffuse,
			Shininess:      look.Shininess,
			Color:          look.Color,
			Scale:          s.Scale,
			Offset:         s.Offset,
			MarkerWorld:    [3]float32{float32(mx), float32(my), float32(surface.F(mx, my))},
			MarkerUV:       [2]float32{float32(mx / 360), float32(my / 360)},
		},
	}
}

// Draw submits f: the mesh as a triangle strip of vertexCount vertices, then
// the marker as a single point with the draw-point flag raised.
func Draw(b Backend, f Frame, vertexCount int) {
	b.SetMatrices(f.ModelViewProjection, f.Normal)
	b.SetUniforms(f.Uniforms)

	b.SetDrawPoint(false)
	b.DrawArrays(TriangleStrip, 0, vertexCount)

	b.SetDrawPoint(true)
	b.DrawArrays(Points, 0, 1)
}
