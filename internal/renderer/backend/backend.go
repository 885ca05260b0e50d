// Package backend abstracts the terminal surface: cell drawing on one
// side, raw input events on the other. The renderer and input source
// only see this interface; tcell stays behind it so tests can run
// against the in-memory implementation.
package backend

// Style describes cell attributes. The keyboard UI is monochrome by
// design; emphasis carries all the meaning.
type Style struct {
	Bold    bool
	Reverse bool
	Italic  bool
	Dim     bool
}

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Style Style
}

// EventType identifies a terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Key identifies a special (non-rune) key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlL
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key event fields.
	Key  Key
	Rune rune

	// Resize event fields.
	Width, Height int
}

// Backend is the terminal surface.
type Backend interface {
	// Init takes over the terminal. Must be called first.
	Init() error

	// Shutdown restores the terminal. Safe to call more than once;
	// it runs on every exit path.
	Shutdown()

	// Size returns the surface dimensions.
	Size() (width, height int)

	// SetCell writes one cell; out-of-range positions are ignored.
	SetCell(x, y int, c Cell)

	// Fill writes the cell to every position in the rectangle.
	Fill(x, y, w, h int, c Cell)

	// Clear blanks the surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// HideCursor hides the hardware cursor; the keyboard UI draws its
	// own focus highlight.
	HideCursor()

	// PollEvent blocks for the next event.
	PollEvent() Event

	// PostEvent injects a synthetic event, waking a PollEvent call.
	PostEvent(ev Event)
}
