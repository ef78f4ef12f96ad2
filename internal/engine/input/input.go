// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventExpose
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    string // DOM-style key identifier, e.g. "ArrowLeft" or "x"
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input collects the events of one poll.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Wait blocks up to timeoutMS milliseconds for the first event and then
// drains the queue. Returns true if the viewer should quit.
func (i *Input) Wait(timeoutMS int) bool {
	i.events = i.events[:0]

	event := sdl.WaitEventTimeout(timeoutMS)
	for ; event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			return true
		}
	}
	return false
}

// Poll drains pending events without blocking. Returns true on quit.
func (i *Input) Poll() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			return true
		}
	}
	return false
}

func (i *Input) translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_FOCUS_LOST:
			i.events = append(i.events, Event{Type: EventFocusLost})
		case sdl.WINDOWEVENT_EXPOSED:
			i.events = append(i.events, Event{Type: EventExpose})
		}

	case *sdl.KeyboardEvent:
		key := KeyName(e.Keysym.Sym)
		if key == "" {
			return false
		}
		typ := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			typ = EventKeyDown
		}
		i.events = append(i.events, Event{Type: typ, Key: key})

	case *sdl.MouseMotionEvent:
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		})

	case *sdl.MouseButtonEvent:
		typ := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = EventMouseDown
		}
		i.events = append(i.events, Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		})
	}
	return false
}

// Events returns the events from the last Wait or Poll.
func (i *Input) Events() []Event {
	return i.events
}

var namedKeys = map[sdl.Keycode]string{
	sdl.K_LEFT:   "ArrowLeft",
	sdl.K_RIGHT:  "ArrowRight",
	sdl.K_UP:     "ArrowUp",
	sdl.K_DOWN:   "ArrowDown",
	sdl.K_ESCAPE: "Escape",
	sdl.K_SPACE:  " ",
}

// KeyName maps an SDL keycode to its DOM key identifier. Printable ASCII
// keys map to themselves; unknown keys map to "".
func KeyName(code sdl.Keycode) string {
	if name, ok := namedKeys[code]; ok {
		return name
	}
	if code > 0x20 && code < 0x7f {
		return string(rune(code))
	}
	return ""
}
