// Package state tracks the mutable keyboard session state: the active
// layer, held modifiers and the focused key coordinate. A single State
// value is owned by the input loop and passed explicitly; nothing else
// mutates it.
package state

import "github.com/dshills/paneboard/internal/layout"

// Coord addresses a key in the layout grid.
type Coord struct {
	Row int
	Col int
}

// Direction is a focus movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// State is the keyboard session state.
type State struct {
	// ActiveLayer is the current layer name.
	ActiveLayer string

	// Modifiers holds the latched modifier set.
	Modifiers ModifierSet

	// Focus is the highlighted key coordinate. It always resolves to
	// an existing key of the current layout.
	Focus Coord

	sticky ModifierSet
}

// New creates session state positioned at (0,0) on the base layer.
// sticky marks the modifiers that stay latched across dispatches;
// everything else is one-shot.
func New(sticky ModifierSet) *State {
	return &State{
		ActiveLayer: layout.DefaultLayer,
		sticky:      sticky,
	}
}

// Reset returns the state to the base layer at (0,0) with no latched
// modifiers. Called when the layout is replaced.
func (s *State) Reset() {
	s.ActiveLayer = layout.DefaultLayer
	s.Modifiers = 0
	s.Focus = Coord{}
}

// Move shifts focus one key in the given direction, wrapping at layout
// edges so navigation never dead-ends. Rows of differing lengths clamp
// the column before wrapping applies.
func (s *State) Move(l *layout.Layout, d Direction) {
	rows := len(l.Rows)
	if rows == 0 {
		return
	}
	f := s.Focus
	if f.Row < 0 || f.Row >= rows {
		f = Coord{}
	}

	switch d {
	case Up:
		f.Row = (f.Row - 1 + rows) % rows
		f.Col = clamp(f.Col, len(l.Rows[f.Row].Keys))
	case Down:
		f.Row = (f.Row + 1) % rows
		f.Col = clamp(f.Col, len(l.Rows[f.Row].Keys))
	case Left:
		cols := len(l.Rows[f.Row].Keys)
		f.Col = (clamp(f.Col, cols) - 1 + cols) % cols
	case Right:
		cols := len(l.Rows[f.Row].Keys)
		f.Col = (clamp(f.Col, cols) + 1) % cols
	}

	s.Focus = f
}

// FocusedKey returns the key under the focus, or nil when the focus is
// stale against the given layout.
func (s *State) FocusedKey(l *layout.Layout) *layout.Key {
	return l.KeyAt(s.Focus.Row, s.Focus.Col)
}

// Toggle flips a modifier in the latched set.
func (s *State) Toggle(m Modifier) {
	s.Modifiers ^= m.mask()
}

// SwitchLayer sets the active layer. Layer switches persist until the
// next switch; they are not one-shot.
func (s *State) SwitchLayer(name string) {
	s.ActiveLayer = name
}

// ConsumeModifiers returns the modifier set to apply to a dispatch and
// clears the one-shot members. Sticky modifiers stay latched.
func (s *State) ConsumeModifiers() ModifierSet {
	held := s.Modifiers
	s.Modifiers &= s.sticky
	return held
}

func clamp(col, cols int) int {
	if cols <= 0 {
		return 0
	}
	if col < 0 {
		return 0
	}
	if col >= cols {
		return cols - 1
	}
	return col
}
