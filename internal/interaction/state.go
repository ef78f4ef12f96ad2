// Package interaction holds the viewer's user-controlled parameters as an
// immutable snapshot and the pure reducers that derive the next snapshot
// from keyboard input.
package interaction

import "fmt"

// Limits and increments of the controls.
const (
	LightLimit = 25
	MarkerStep = 10
	ScaleStep  = 1

	InitialScale = -35

	MinStep = 0.125
	MaxStep = 20.0
)

// State is the interaction snapshot read once per frame.
type State struct {
	Light   [3]int  // light direction, each component in [-LightLimit, LightLimit]
	Scale   float32 // deformation scale
	Offset  float32 // deformation offset, not bound to any key
	MarkerX float32 // marker u angle in degrees
	MarkerY float32 // marker v angle in degrees
	Step    float64 // mesh sampling step in degrees
}

// Initial returns the startup state for a mesh sampled at step degrees.
func Initial(step float64) State {
	return State{
		Light: [3]int{1, 0, 0},
		Scale: InitialScale,
		Step:  step,
	}
}

// StepChanged reports whether the mesh sampled for prev must be regenerated for s.
func (s State) StepChanged(prev State) bool {
	return s.Step != prev.Step
}

// LightDirection returns the light components as floats for uniform upload.
func (s State) LightDirection() [3]float32 {
	return [3]float32{float32(s.Light[0]), float32(s.Light[1]), float32(s.Light[2])}
}

// Action is a discrete change requested by input.
type Action int

// Actions.
const (
	ActionNone Action = iota
	LightXDec
	LightXInc
	LightYDec
	LightYInc
	LightZDec
	LightZInc
	MarkerXDec
	MarkerXInc
	MarkerYDec
	MarkerYInc
	ScaleDec
	ScaleInc
	StepCoarser
	StepFiner
)

var actionNames = [...]string{
	ActionNone:  "none",
	LightXDec:   "light-x-",
	LightXInc:   "light-x+",
	LightYDec:   "light-y-",
	LightYInc:   "light-y+",
	LightZDec:   "light-z-",
	LightZInc:   "light-z+",
	MarkerXDec:  "marker-x-",
	MarkerXInc:  "marker-x+",
	MarkerYDec:  "marker-y-",
	MarkerYInc:  "marker-y+",
	ScaleDec:    "scale-",
	ScaleInc:    "scale+",
	StepCoarser: "step-coarser",
	StepFiner:   "step-finer",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Apply returns the state that follows s after a.
func Apply(s State, a Action) State {
	switch a {
	case LightXDec:
		s.Light[0] = stepLight(s.Light[0], -1)
	case LightXInc:
		s.Light[0] = stepLight(s.Light[0], 1)
	case LightYDec:
		s.Light[1] = stepLight(s.Light[1], -1)
	case LightYInc:
		s.Light[1] = stepLight(s.Light[1], 1)
	case LightZDec:
		s.Light[2] = stepLight(s.Light[2], -1)
	case LightZInc:
		s.Light[2] = stepLight(s.Light[2], 1)
	case MarkerXDec:
		s.MarkerX -= MarkerStep
	case MarkerXInc:
		s.MarkerX += MarkerStep
	case MarkerYDec:
		s.MarkerY -= MarkerStep
	case MarkerYInc:
		s.MarkerY += MarkerStep
	case ScaleDec:
		s.Scale -= ScaleStep
	case ScaleInc:
		s.Scale += ScaleStep
	// A step configured outside [MinStep, MaxStep] only moves in the
	// requested direction.
	case StepCoarser:
		if s.Step < MaxStep {
			s.Step = min(s.Step*2, MaxStep)
		}
	case StepFiner:
		if s.Step > MinStep {
			s.Step = max(s.Step/2, MinStep)
		}
	}
	return s
}

// ApplyAll folds actions over s in order.
func ApplyAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func stepLight(v, delta int) int {
	return max(-LightLimit, min(LightLimit, v+delta))
}
