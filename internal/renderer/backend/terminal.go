package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	shutdown bool
}

// NewTerminal creates a terminal backend for the current tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// Init puts the terminal into raw mode and takes over the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal. Idempotent; the input loop defers it
// and the signal handler may race it.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shutdown {
		return
	}
	t.shutdown = true
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, c Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, c.Rune, nil, convertStyle(c.Style))
}

func (t *Terminal) Fill(x, y, w, h int, c Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(c.Style)
	width, height := t.screen.Size()
	for row := y; row < y+h && row < height; row++ {
		for col := x; col < x+w && col < width; col++ {
			if col >= 0 && row >= 0 {
				t.screen.SetContent(col, row, c.Rune, nil, style)
			}
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent blocks on the next tcell event and converts it. Not held
// under the mutex; tcell serializes its own event queue.
func (t *Terminal) PollEvent() Event {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return convertKeyEvent(ev)
		case *tcell.EventResize:
			w, h := ev.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventInterrupt:
			return Event{Type: EventInterrupt}
		case nil:
			// Screen finalized under us.
			return Event{Type: EventInterrupt}
		default:
			// Mouse, paste, focus: not part of this surface.
			_ = ev
		}
	}
}

// PostEvent wakes a blocked PollEvent, used by the reload watcher and
// the signal handler.
func (t *Terminal) PostEvent(ev Event) {
	switch ev.Type {
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, tcell.ModNone))
	}
}

func convertKeyEvent(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey}
	switch ev.Key() {
	case tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
	case tcell.KeyEscape:
		out.Key = KeyEscape
	case tcell.KeyEnter:
		out.Key = KeyEnter
	case tcell.KeyTab:
		out.Key = KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
	case tcell.KeyUp:
		out.Key = KeyUp
	case tcell.KeyDown:
		out.Key = KeyDown
	case tcell.KeyLeft:
		out.Key = KeyLeft
	case tcell.KeyRight:
		out.Key = KeyRight
	case tcell.KeyCtrlC:
		out.Key = KeyCtrlC
	case tcell.KeyCtrlL:
		out.Key = KeyCtrlL
	default:
		out.Key = KeyNone
	}
	return out
}

func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyRune:
		return tcell.KeyRune
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyCtrlC:
		return tcell.KeyCtrlC
	case KeyCtrlL:
		return tcell.KeyCtrlL
	default:
		return tcell.KeyNUL
	}
}

func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Reverse {
		style = style.Reverse(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	if s.Dim {
		style = style.Dim(true)
	}
	return style
}
