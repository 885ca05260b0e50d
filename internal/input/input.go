// Package input turns raw terminal events into the small vocabulary
// the navigation loop consumes. The loop never sees key codes; it sees
// moves, activations and control events.
package input

import "github.com/dshills/paneboard/internal/renderer/backend"

// Event is one semantic input event.
type Event int

const (
	// None is an event the keyboard ignores.
	None Event = iota
	// MoveUp through MoveRight shift the focus.
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	// Activate presses the focused key.
	Activate
	// Reload asks for the layout document to be reloaded.
	Reload
	// Redraw repaints the board (resize or C-l).
	Redraw
	// Quit ends the session.
	Quit
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case MoveUp:
		return "move-up"
	case MoveDown:
		return "move-down"
	case MoveLeft:
		return "move-left"
	case MoveRight:
		return "move-right"
	case Activate:
		return "activate"
	case Reload:
		return "reload"
	case Redraw:
		return "redraw"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// Source produces input events. Next blocks until one is available.
type Source interface {
	Next() Event
}

// TerminalSource reads events from a backend surface. Arrows or hjkl
// move, Enter or Space activates, q / Escape / Ctrl-C quits, r
// reloads, Ctrl-L repaints.
type TerminalSource struct {
	backend backend.Backend
}

// NewTerminalSource wraps a backend as an event source.
func NewTerminalSource(b backend.Backend) *TerminalSource {
	return &TerminalSource{backend: b}
}

// Next blocks on the backend and maps its next relevant event.
// Irrelevant events are swallowed so the caller never busy-loops.
func (s *TerminalSource) Next() Event {
	for {
		if ev := Map(s.backend.PollEvent()); ev != None {
			return ev
		}
	}
}

// Map converts one backend event. Exposed for tests and for synthetic
// event injection.
func Map(ev backend.Event) Event {
	switch ev.Type {
	case backend.EventResize:
		return Redraw
	case backend.EventInterrupt:
		return Quit
	case backend.EventKey:
		return mapKey(ev)
	default:
		return None
	}
}

func mapKey(ev backend.Event) Event {
	switch ev.Key {
	case backend.KeyUp:
		return MoveUp
	case backend.KeyDown:
		return MoveDown
	case backend.KeyLeft:
		return MoveLeft
	case backend.KeyRight:
		return MoveRight
	case backend.KeyEnter:
		return Activate
	case backend.KeyEscape, backend.KeyCtrlC:
		return Quit
	case backend.KeyCtrlL:
		return Redraw
	case backend.KeyRune:
		switch ev.Rune {
		case 'h':
			return MoveLeft
		case 'j':
			return MoveDown
		case 'k':
			return MoveUp
		case 'l':
			return MoveRight
		case ' ':
			return Activate
		case 'q':
			return Quit
		case 'r':
			return Reload
		}
	}
	return None
}
