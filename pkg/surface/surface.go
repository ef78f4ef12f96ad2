package surface

import "math"

// degenerateNormal replaces normals whose cross product collapsed.
var degenerateNormal = vec3{0, 0, 1}

// minNormalLength is the cross-product length below which a normal is
// considered degenerate.
const minNormalLength = 1e-8

// F evaluates the surface height at (u, v) in radians.
// The acos argument is clamped into [-1, 1]; a 0/0 quotient maps to 0.
func F(u, v float64) float64 {
	cu, cv := math.Cos(u), math.Cos(v)
	return math.Acos(clampUnit(-3 * (cu + cv) / (3 + 4*cu*cv)))
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-1, math.Min(1, x))
}

// Partials returns the forward-difference partials of F at (u, v) in radians.
func Partials(u, v, h float64, mode DerivativeMode) (dfdu, dfdv float64) {
	div := h
	if mode == DerivativeLegacy {
		div = Radians(h)
	}
	f0 := F(u, v)
	dfdu = (F(u+h, v) - f0) / div
	dfdv = (F(u, v+h) - f0) / div
	return dfdu, dfdv
}

// Vertex is one emitted vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Sample evaluates the grid point (u, v), given in degrees, and returns the
// plus-sheet and minus-sheet vertices in emission order.
func Sample(p Params, u, v float64) (plus, minus Vertex) {
	ur, vr := Radians(u), Radians(v)
	f := F(ur, vr)
	dfdu, dfdv := Partials(ur, vr, p.H, p.Derivative)

	// The tangents are (1, v, df/du) and (u, 1, df/dv), not the true surface
	// partials. The minus sheet negates the derivatives only.
	plusN := normalOf(vec3{1, vr, dfdu}, vec3{ur, 1, dfdv})
	minusN := normalOf(vec3{1, vr, -dfdu}, vec3{ur, 1, -dfdv})

	uv := [2]float32{
		float32((u - p.UMin) / (p.UMax - p.UMin)),
		float32((v - p.VMin) / (p.VMax - p.VMin)),
	}

	plus = Vertex{
		Position: [3]float32{float32(ur), float32(vr), float32(f)},
		Normal:   plusN.f32(),
		TexCoord: uv,
	}
	minus = Vertex{
		Position: [3]float32{float32(ur), float32(vr), float32(-f)},
		Normal:   minusN.f32(),
		TexCoord: uv,
	}
	return plus, minus
}

func normalOf(tu, tv vec3) vec3 {
	n := tu.normalize().cross(tv.normalize())
	l := n.length()
	if l < minNormalLength || math.IsNaN(l) || math.IsInf(l, 0) {
		return degenerateNormal
	}
	return n.scale(1 / l)
}

type vec3 [3]float64

func (a vec3) cross(b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a vec3) length() float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

func (a vec3) scale(s float64) vec3 {
	return vec3{a[0] * s, a[1] * s, a[2] * s}
}

func (a vec3) normalize() vec3 {
	l := a.length()
	if l == 0 {
		return a
	}
	return a.scale(1 / l)
}

func (a vec3) f32() [3]float32 {
	return [3]float32{float32(a[0]), float32(a[1]), float32(a[2])}
}
