// Package trackball provides a mouse-driven virtual trackball that supplies
// the camera rotation of the viewer.
package trackball

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"

	"github.com/Faultbox/surfview/pkg/math"
)

// Config holds trackball settings.
type Config struct {
	Inertia   bool    // keep spinning after release, decaying to rest
	FPS       int     // frame rate the spring is tuned for
	Frequency float64 // spring angular frequency
	Damping   float64 // spring damping ratio (1 = critically damped)
}

// DefaultConfig returns a critically damped spin-down at 60 FPS.
func DefaultConfig() Config {
	return Config{
		Inertia:   true,
		FPS:       60,
		Frequency: 4.0,
		Damping:   1.0,
	}
}

// restSpeed is the angular speed (radians per frame) below which the spin stops.
const restSpeed = 1e-4

// Trackball accumulates drag rotations into an orientation.
type Trackball struct {
	cfg           Config
	width, height int

	rotation math.Quat
	dragging bool
	last     math.Vec3

	// Spin after release.
	axis     math.Vec3
	speed    float64
	speedVel float64
	spring   harmonica.Spring
}

// New creates a trackball for a viewport of the given size.
func New(width, height int, cfg Config) *Trackball {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Trackball{
		cfg:      cfg,
		width:    width,
		height:   height,
		rotation: math.QuatIdentity(),
		spring:   harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping),
	}
}

// Resize updates the viewport used to map mouse positions.
func (t *Trackball) Resize(width, height int) {
	t.width, t.height = width, height
}

// Begin starts a drag at window position (x, y).
func (t *Trackball) Begin(x, y int) {
	t.dragging = true
	t.last = t.project(x, y)
	t.speed, t.speedVel = 0, 0
}

// Drag continues a drag to (x, y) and reports whether the orientation changed.
func (t *Trackball) Drag(x, y int) bool {
	if !t.dragging {
		return false
	}
	cur := t.project(x, y)
	axis := t.last.Cross(cur)
	if axis.Length() < 1e-6 {
		return false
	}
	angle := math32.Acos(max(-1, min(1, t.last.Dot(cur))))
	t.rotate(axis, angle)
	t.last = cur

	t.axis = axis.Normalize()
	t.speed = float64(angle)
	return true
}

// End finishes a drag. With inertia the last drag speed keeps spinning.
func (t *Trackball) End() {
	t.dragging = false
	if !t.cfg.Inertia {
		t.speed = 0
	}
	t.speedVel = 0
}

// Dragging reports whether a drag is in progress.
func (t *Trackball) Dragging() bool {
	return t.dragging
}

// Update advances the spin by one frame and reports whether the orientation
// changed.
func (t *Trackball) Update() bool {
	if t.dragging || t.speed < restSpeed {
		t.speed = 0
		return false
	}
	t.rotate(t.axis, float32(t.speed))
	t.speed, t.speedVel = t.spring.Update(t.speed, t.speedVel, 0)
	return true
}

// ViewMatrix returns the accumulated rotation.
func (t *Trackball) ViewMatrix() math.Mat4 {
	return t.rotation.ToMat4()
}

// Reset returns to the initial orientation and stops any spin.
func (t *Trackball) Reset() {
	t.rotation = math.QuatIdentity()
	t.dragging = false
	t.speed, t.speedVel = 0, 0
}

func (t *Trackball) rotate(axis math.Vec3, angle float32) {
	t.rotation = math.QuatFromAxisAngle(axis, angle).Mul(t.rotation).Normalize()
}

// project maps a window position onto the unit sphere, or onto its rim when
// the position falls outside it.
func (t *Trackball) project(x, y int) math.Vec3 {
	w := float32(max(t.width, 1))
	h := float32(max(t.height, 1))
	size := min(w, h)

	p := math.Vec3{
		X: (2*float32(x) - w) / size,
		Y: (h - 2*float32(y)) / size,
	}
	d := p.X*p.X + p.Y*p.Y
	if d >= 1 {
		return p.Normalize()
	}
	p.Z = math32.Sqrt(1 - d)
	return p
}
