package state

import (
	"fmt"
	"strings"
)

// Modifier identifies a single modifier key.
type Modifier int

const (
	Ctrl Modifier = iota
	Alt
	Shift
	Meta
)

// Modifiers lists every modifier in display order.
var Modifiers = []Modifier{Ctrl, Alt, Shift, Meta}

// String returns the modifier name as used in layout and config
// documents.
func (m Modifier) String() string {
	switch m {
	case Ctrl:
		return "ctrl"
	case Alt:
		return "alt"
	case Shift:
		return "shift"
	case Meta:
		return "meta"
	default:
		return "unknown"
	}
}

// ParseModifier parses a modifier name.
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(s) {
	case "ctrl", "control":
		return Ctrl, nil
	case "alt":
		return Alt, nil
	case "shift":
		return Shift, nil
	case "meta":
		return Meta, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q", s)
	}
}

func (m Modifier) mask() ModifierSet {
	return 1 << ModifierSet(m)
}

// ModifierSet is a bit set over the modifiers.
type ModifierSet int

// NewModifierSet builds a set from individual modifiers.
func NewModifierSet(mods ...Modifier) ModifierSet {
	var set ModifierSet
	for _, m := range mods {
		set |= m.mask()
	}
	return set
}

// Has reports membership.
func (s ModifierSet) Has(m Modifier) bool {
	return s&m.mask() != 0
}

// IsEmpty reports whether no modifier is set.
func (s ModifierSet) IsEmpty() bool { return s == 0 }

// List returns the members in display order.
func (s ModifierSet) List() []Modifier {
	var out []Modifier
	for _, m := range Modifiers {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders the set like "ctrl+shift"; empty sets render as "".
func (s ModifierSet) String() string {
	var parts []string
	for _, m := range s.List() {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "+")
}
