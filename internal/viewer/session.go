package viewer

import (
	"fmt"

	"github.com/Faultbox/surfview/internal/interaction"
	"github.com/Faultbox/surfview/pkg/surface"
)

// Viewer keys outside the interaction bindings.
const (
	KeyQuit      = "Escape"
	KeyResetView = "r"
)

// Session owns the interaction state between frames and decides when the
// view must be redrawn or the mesh regenerated. It holds no GL resources.
type Session struct {
	state  interaction.State
	keys   *interaction.Keyboard
	params surface.Params
	dirty  bool
}

// NewSession starts from the initial interaction state for p.
func NewSession(p surface.Params) *Session {
	return &Session{
		state:  interaction.Initial(p.Step),
		keys:   interaction.NewKeyboard(),
		params: p,
		dirty:  true,
	}
}

// State returns the current snapshot.
func (s *Session) State() interaction.State {
	return s.state
}

// Params returns the sampling parameters for the current step.
func (s *Session) Params() surface.Params {
	return s.params.WithStep(s.state.Step)
}

// KeyDown applies the actions bound to key. It reports whether the viewer
// should quit and whether the mesh must be regenerated.
func (s *Session) KeyDown(key string) (quit, regenerate bool) {
	if key == KeyQuit {
		return true, false
	}
	actions := s.keys.Press(key)
	if len(actions) == 0 {
		return false, false
	}

	prev := s.state
	s.state = interaction.ApplyAll(prev, actions...)
	if s.state != prev {
		s.dirty = true
	}
	return false, s.state.StepChanged(prev)
}

// KeyUp releases key.
func (s *Session) KeyUp(key string) {
	s.keys.Release(key)
}

// ReleaseKeys forgets held keys, e.g. after focus is lost and key-up events
// go to another window.
func (s *Session) ReleaseKeys() {
	s.keys.Reset()
}

// Invalidate requests a redraw.
func (s *Session) Invalidate() {
	s.dirty = true
}

// TakeDirty reports whether a redraw is pending and clears the flag.
func (s *Session) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// Title describes the state for the window title bar.
func (s *Session) Title() string {
	st := s.state
	return fmt.Sprintf("surfview  light (%d, %d, %d)  scale %g  marker (%g°, %g°)  step %g°",
		st.Light[0], st.Light[1], st.Light[2], st.Scale, st.MarkerX, st.MarkerY, st.Step)
}
