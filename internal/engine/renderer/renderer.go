// Package renderer provides the OpenGL backend that draws the surface mesh.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/surfview/internal/engine/shader"
	"github.com/Faultbox/surfview/internal/engine/shader/shaders"
	"github.com/Faultbox/surfview/internal/engine/texture"
	"github.com/Faultbox/surfview/internal/frame"
	"github.com/Faultbox/surfview/internal/logger"
	"github.com/Faultbox/surfview/pkg/math"
	"github.com/Faultbox/surfview/pkg/surface"
)

// ErrEmptyMesh is returned by Upload for a mesh without vertices.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// attribute describes one vertex stream of the mesh.
type attribute struct {
	location   uint32
	components int32
	data       func(*surface.Mesh) []float32
}

// Attribute locations match the layout qualifiers in surface.vert.
var attributes = []attribute{
	{0, 3, func(m *surface.Mesh) []float32 { return m.Positions }},
	{1, 3, func(m *surface.Mesh) []float32 { return m.Normals }},
	{2, 2, func(m *surface.Mesh) []float32 { return m.TexCoords }},
}

// meshBuffers is the GPU copy of one generated mesh.
type meshBuffers struct {
	vao   uint32
	vbos  [3]uint32
	count int32
}

type uniforms struct {
	mvp, normal           int32
	lightDir              int32
	ambient, diffuse      int32
	shininess, color      int32
	scale, offset         int32
	markerWorld, markerUV int32
	drawPoint             int32
	texture               int32
}

// Renderer draws frames composed by package frame.
type Renderer struct {
	config Config

	program uint32
	loc     uniforms

	mesh    meshBuffers
	texture uint32
}

var _ frame.Backend = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0, 0, 0, 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.CompileProgram(shaders.SurfaceVertexShader, shaders.SurfaceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("surface program: %w", err)
	}
	r.locateUniforms()
	logger.Debug("surface program created", zap.Uint32("program", r.program))

	r.texture = uploadTexture(texture.Placeholder(), false)

	return r, nil
}

func (r *Renderer) locateUniforms() {
	p := r.program
	r.loc = uniforms{
		mvp:         shader.GetUniform(p, "uModelViewProjection"),
		normal:      shader.GetUniform(p, "uNormalMatrix"),
		lightDir:    shader.GetUniform(p, "uLightDir"),
		ambient:     shader.GetUniform(p, "uAmbientColor"),
		diffuse:     shader.GetUniform(p, "uDiffuseColor"),
		shininess:   shader.GetUniform(p, "uShininess"),
		color:       shader.GetUniform(p, "uColor"),
		scale:       shader.GetUniform(p, "uScale"),
		offset:      shader.GetUniform(p, "uOffset"),
		markerWorld: shader.GetUniform(p, "uMarkerWorld"),
		markerUV:    shader.GetUniform(p, "uMarkerUV"),
		drawPoint:   shader.GetUniform(p, "uDrawPoint"),
		texture:     shader.GetUniform(p, "uTexture"),
	}
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	deleteMesh(r.mesh)
	r.mesh = meshBuffers{}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Upload copies mesh to new GPU buffers. The previous buffers are deleted
// only after the new ones are complete, so a frame never mixes the two.
func (r *Renderer) Upload(mesh *surface.Mesh) error {
	if mesh == nil || mesh.VertexCount() == 0 {
		return ErrEmptyMesh
	}

	var next meshBuffers
	gl.GenVertexArrays(1, &next.vao)
	gl.BindVertexArray(next.vao)
	gl.GenBuffers(int32(len(next.vbos)), &next.vbos[0])

	for i, a := range attributes {
		data := a.data(mesh)
		gl.BindBuffer(gl.ARRAY_BUFFER, next.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(a.location, a.components, gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(a.location)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	next.count = int32(mesh.VertexCount())

	prev := r.mesh
	r.mesh = next
	deleteMesh(prev)

	logger.Debug("mesh uploaded",
		zap.Int32("vertices", next.count),
		zap.Uint32("vao", next.vao),
	)
	return nil
}

func deleteMesh(m meshBuffers) {
	if m.vao == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
	gl.DeleteVertexArrays(1, &m.vao)
}

// VertexCount returns the number of vertices in the uploaded mesh.
func (r *Renderer) VertexCount() int {
	return int(r.mesh.count)
}

// SetTexture replaces the bound surface texture.
func (r *Renderer) SetTexture(img *image.RGBA) {
	next := uploadTexture(img, true)
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	r.texture = next
	logger.Debug("texture replaced",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
}

func uploadTexture(img *image.RGBA, mipmaps bool) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	minFilter := int32(gl.LINEAR)
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return texID
}

// Begin starts a new frame and binds the program, mesh and texture.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.BindVertexArray(r.mesh.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.Uniform1i(r.loc.texture, 0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// SetMatrices implements frame.Backend.
func (r *Renderer) SetMatrices(mvp, normal math.Mat4) {
	gl.UniformMatrix4fv(r.loc.mvp, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.loc.normal, 1, false, normal.Ptr())
}

// SetUniforms implements frame.Backend.
func (r *Renderer) SetUniforms(u frame.Uniforms) {
	gl.Uniform3fv(r.loc.lightDir, 1, &u.LightDirection[0])
	gl.Uniform3fv(r.loc.ambient, 1, &u.AmbientColor[0])
	gl.Uniform3fv(r.loc.diffuse, 1, &u.DiffuseColor[0])
	gl.Uniform1f(r.loc.shininess, u.Shininess)
	gl.Uniform4fv(r.loc.color, 1, &u.Color[0])
	gl.Uniform1f(r.loc.scale, u.Scale)
	gl.Uniform1f(r.loc.offset, u.Offset)
	gl.Uniform3fv(r.loc.markerWorld, 1, &u.MarkerWorld[0])
	gl.Uniform2fv(r.loc.markerUV, 1, &u.MarkerUV[0])
}

// SetDrawPoint implements frame.Backend.
func (r *Renderer) SetDrawPoint(on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(r.loc.drawPoint, v)
}

// DrawArrays implements frame.Backend. Calls before the first Upload are
// dropped.
func (r *Renderer) DrawArrays(mode frame.Primitive, first, count int) {
	if r.mesh.vao == 0 {
		return
	}
	glMode, ok := primitiveMode(mode)
	if !ok {
		logger.Warn("unknown primitive", zap.Stringer("mode", mode))
		return
	}
	gl.DrawArrays(glMode, int32(first), int32(count))
}

func primitiveMode(p frame.Primitive) (uint32, bool) {
	switch p {
	case frame.TriangleStrip:
		return gl.TRIANGLE_STRIP, true
	case frame.Points:
		return gl.POINTS, true
	default:
		return 0, false
	}
}
