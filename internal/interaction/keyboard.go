package interaction

// Key identifiers, named like DOM KeyboardEvent.key values.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Light axis modifiers: hold one and press an arrow key.
var lightModifiers = []struct {
	key      string
	dec, inc Action
}{
	{"x", LightXDec, LightXInc},
	{"y", LightYDec, LightYInc},
	{"z", LightZDec, LightZInc},
}

var plainKeys = map[string]Action{
	"w": MarkerYInc,
	"s": MarkerYDec,
	"a": MarkerXDec,
	"d": MarkerXInc,
	"o": ScaleDec,
	"p": ScaleInc,
	"[": StepCoarser,
	"]": StepFiner,
}

// Keyboard tracks held keys and maps key presses to actions.
type Keyboard struct {
	held map[string]bool
}

// NewKeyboard creates a keyboard with no keys held.
func NewKeyboard() *Keyboard {
	return &Keyboard{held: make(map[string]bool)}
}

// Press records key as held and returns the actions it triggers.
// An arrow key triggers one light action per held axis modifier.
func (k *Keyboard) Press(key string) []Action {
	k.held[key] = true

	var actions []Action
	switch key {
	case KeyArrowLeft, KeyArrowRight:
		for _, m := range lightModifiers {
			if !k.held[m.key] {
				continue
			}
			if key == KeyArrowLeft {
				actions = append(actions, m.dec)
			} else {
				actions = append(actions, m.inc)
			}
		}
	default:
		if a, ok := plainKeys[key]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// Release marks key as no longer held.
func (k *Keyboard) Release(key string) {
	delete(k.held, key)
}

// Held reports whether key is currently held.
func (k *Keyboard) Held(key string) bool {
	return k.held[key]
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	clear(k.held)
}
