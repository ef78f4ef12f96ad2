// Package surface generates the triangle-strip mesh of the pseudospherical
// surface f(u,v) = acos(-3(cos u + cos v) / (3 + 4 cos u cos v)).
package surface

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when sampling parameters cannot produce a mesh.
var ErrInvalidParams = errors.New("invalid surface parameters")

// DerivativeMode selects the units used by the forward-difference partials.
type DerivativeMode int

const (
	// DerivativeLegacy offsets u,v by h radians but divides the difference by
	// h converted from degrees to radians. This scales both partials by 180/pi
	// and is the shading the viewer has always shown.
	DerivativeLegacy DerivativeMode = iota
	// DerivativeRadians offsets and divides in radians.
	DerivativeRadians
)

// String returns the config name of the mode.
func (m DerivativeMode) String() string {
	switch m {
	case DerivativeLegacy:
		return "legacy"
	case DerivativeRadians:
		return "radians"
	default:
		return fmt.Sprintf("DerivativeMode(%d)", int(m))
	}
}

// ParseDerivativeMode parses "legacy" or "radians".
func ParseDerivativeMode(s string) (DerivativeMode, error) {
	switch s {
	case "legacy", "":
		return DerivativeLegacy, nil
	case "radians":
		return DerivativeRadians, nil
	default:
		return 0, fmt.Errorf("%w: unknown derivative mode %q", ErrInvalidParams, s)
	}
}

// Params describes the parameter grid. Ranges and step are in degrees.
type Params struct {
	UMin, UMax float64
	VMin, VMax float64
	Step       float64
	H          float64 // forward-difference offset, see DerivativeMode
	Derivative DerivativeMode
}

// Default sampling of the viewer.
const (
	DefaultMin  = -180.0
	DefaultMax  = 180.0
	DefaultStep = 0.5
	DefaultH    = 0.0001
)

// DefaultParams returns the full [-180, 180] grid at 0.5 degree steps.
func DefaultParams() Params {
	return Params{
		UMin:       DefaultMin,
		UMax:       DefaultMax,
		VMin:       DefaultMin,
		VMax:       DefaultMax,
		Step:       DefaultStep,
		H:          DefaultH,
		Derivative: DerivativeLegacy,
	}
}

// WithStep returns a copy of p sampled at step degrees.
func (p Params) WithStep(step float64) Params {
	p.Step = step
	return p
}

// Validate checks that p describes a non-empty grid.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"u min": p.UMin, "u max": p.UMax,
		"v min": p.VMin, "v max": p.VMax,
		"step": p.Step, "h": p.H,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParams, name, v)
		}
	}
	if p.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidParams, p.Step)
	}
	if p.H <= 0 {
		return fmt.Errorf("%w: h must be positive, got %v", ErrInvalidParams, p.H)
	}
	if p.UMax <= p.UMin {
		return fmt.Errorf("%w: u range [%v, %v) is empty", ErrInvalidParams, p.UMin, p.UMax)
	}
	if p.VMax <= p.VMin {
		return fmt.Errorf("%w: v range [%v, %v] is degenerate", ErrInvalidParams, p.VMin, p.VMax)
	}
	if p.Derivative != DerivativeLegacy && p.Derivative != DerivativeRadians {
		return fmt.Errorf("%w: %v", ErrInvalidParams, p.Derivative)
	}
	// Counted in float64 so a tiny step cannot overflow int before the check.
	samples := math.Ceil((p.UMax-p.UMin)/p.Step) * (math.Floor((p.VMax-p.VMin)/p.Step) + 1)
	if samples > MaxSamples {
		return fmt.Errorf("%w: step %v gives %.0f grid points, limit is %d",
			ErrInvalidParams, p.Step, samples, MaxSamples)
	}
	return nil
}

// MaxSamples bounds the grid points of one mesh. The full default range at
// the finest interactive step (0.125) needs about 8.3 million.
const MaxSamples = 1 << 24

// gridEpsilon absorbs division noise such as 360/0.1 = 3599.9999999999995.
const gridEpsilon = 1e-9

// GridSize returns the number of u samples (half-open range) and v samples
// (closed range) for p.
func GridSize(p Params) (nU, nV int) {
	nU = int(math.Ceil((p.UMax-p.UMin)/p.Step - gridEpsilon))
	nV = int(math.Floor((p.VMax-p.VMin)/p.Step+gridEpsilon)) + 1
	return nU, nV
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
