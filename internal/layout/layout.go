// Package layout models the on-screen keyboard layout and loads it
// from a hand-edited JSONC document.
package layout

import "fmt"

// DefaultLayer is the layer every key must define a binding for.
const DefaultLayer = "base"

// Kind identifies what a key does when activated.
type Kind int

const (
	// KindLiteral sends a printable character.
	KindLiteral Kind = iota
	// KindControl sends a named control key (Enter, Tab, Escape, ...).
	KindControl
	// KindModifierToggle flips a modifier (Ctrl, Alt, Shift, Meta).
	KindModifierToggle
	// KindLayerSwitch switches the active layer.
	KindLayerSwitch
	// KindMacro sends a multi-token sequence, optionally produced by a
	// Lua script.
	KindMacro
)

// String returns the kind name as used in layout documents.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindControl:
		return "control"
	case KindModifierToggle:
		return "modifier"
	case KindLayerSwitch:
		return "layer"
	case KindMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind tag from a layout document.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "literal":
		return KindLiteral, nil
	case "control":
		return KindControl, nil
	case "modifier":
		return KindModifierToggle, nil
	case "layer":
		return KindLayerSwitch, nil
	case "macro":
		return KindMacro, nil
	default:
		return 0, fmt.Errorf("unknown key kind %q", s)
	}
}

// Output is the per-layer output specification of a key. Exactly one of
// Tokens or Script is set; Script is only meaningful for macro keys.
type Output struct {
	// Tokens are emitted in order as one atomic payload. Each token is
	// either a literal string or a named key in tmux send-keys notation.
	Tokens []string

	// Script is a Lua chunk that returns the token list at activation
	// time.
	Script string
}

// IsZero reports whether the output specifies nothing.
func (o Output) IsZero() bool {
	return len(o.Tokens) == 0 && o.Script == ""
}

// Key is a single addressable unit of the layout.
type Key struct {
	// Label is the display text for the base layer. Per-layer labels
	// fall back to the bound token when absent.
	Label string

	// Kind selects the activation behavior.
	Kind Kind

	// Bindings maps layer name to output. Every literal, control and
	// macro key has a DefaultLayer entry; other layers fall back to it.
	Bindings map[string]Output

	// Modifier names the toggled modifier for KindModifierToggle keys
	// (one of "ctrl", "alt", "shift", "meta").
	Modifier string

	// TargetLayer names the layer a KindLayerSwitch key activates.
	TargetLayer string
}

// Binding returns the output for the given layer, falling back to the
// default layer. ok is false when the key has no default binding either,
// which the loader rules out for dispatchable kinds.
func (k *Key) Binding(layer string) (Output, bool) {
	if out, ok := k.Bindings[layer]; ok && !out.IsZero() {
		return out, true
	}
	out, ok := k.Bindings[DefaultLayer]
	if !ok || out.IsZero() {
		return Output{}, false
	}
	return out, true
}

// LabelFor returns the text to display for the key on the given layer.
func (k *Key) LabelFor(layer string) string {
	if layer != DefaultLayer {
		if out, ok := k.Bindings[layer]; ok && len(out.Tokens) == 1 {
			return out.Tokens[0]
		}
	}
	if k.Label != "" {
		return k.Label
	}
	if out, ok := k.Bindings[DefaultLayer]; ok && len(out.Tokens) == 1 {
		return out.Tokens[0]
	}
	return k.Kind.String()
}

// Dispatchable reports whether activating the key produces a payload.
func (k *Key) Dispatchable() bool {
	switch k.Kind {
	case KindLiteral, KindControl, KindMacro:
		return true
	default:
		return false
	}
}

// Row is an ordered sequence of keys rendered left to right.
type Row struct {
	Keys []Key
}

// Layout is the root entity: an immutable grid of keys plus the set of
// declared layers. It is constructed once by the loader and replaced
// wholesale on reload.
type Layout struct {
	// Layers lists the declared layer names. Always contains
	// DefaultLayer.
	Layers []string

	// Rows is the key grid. Never empty; no row is empty.
	Rows []Row
}

// HasLayer reports whether the layer name is declared.
func (l *Layout) HasLayer(name string) bool {
	for _, layer := range l.Layers {
		if layer == name {
			return true
		}
	}
	return false
}

// KeyAt returns the key at the given coordinate, or nil when the
// coordinate is out of range.
func (l *Layout) KeyAt(row, col int) *Key {
	if row < 0 || row >= len(l.Rows) {
		return nil
	}
	r := &l.Rows[row]
	if col < 0 || col >= len(r.Keys) {
		return nil
	}
	return &r.Keys[col]
}

// Validate checks the structural invariants: at least one row, no empty
// rows, default-layer bindings on dispatchable keys, declared layers on
// all bindings, and kind-specific required fields.
func (l *Layout) Validate() error {
	if !l.HasLayer(DefaultLayer) {
		return &ValidationError{Message: fmt.Sprintf("layer %q must be declared", DefaultLayer)}
	}
	if len(l.Rows) == 0 {
		return &ValidationError{Message: "layout has no rows"}
	}
	for ri, row := range l.Rows {
		if len(row.Keys) == 0 {
			return &ValidationError{Row: ri, Message: "row has no keys"}
		}
		for ci := range row.Keys {
			if err := l.validateKey(ri, ci, &row.Keys[ci]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Layout) validateKey(ri, ci int, k *Key) error {
	for layer := range k.Bindings {
		if !l.HasLayer(layer) {
			return &ValidationError{
				Row: ri, Col: ci,
				Message: fmt.Sprintf("binding references undeclared layer %q", layer),
			}
		}
	}
	switch k.Kind {
	case KindLiteral, KindControl, KindMacro:
		if out, ok := k.Bindings[DefaultLayer]; !ok || out.IsZero() {
			return &ValidationError{
				Row: ri, Col: ci,
				Message: fmt.Sprintf("key missing %q layer binding", DefaultLayer),
			}
		}
	case KindModifierToggle:
		switch k.Modifier {
		case "ctrl", "alt", "shift", "meta":
		case "":
			return &ValidationError{Row: ri, Col: ci, Message: "modifier key missing modifier name"}
		default:
			return &ValidationError{
				Row: ri, Col: ci,
				Message: fmt.Sprintf("unknown modifier %q", k.Modifier),
			}
		}
	case KindLayerSwitch:
		// An undeclared target layer is tolerated here: the input
		// loop degrades to the base layer at activation time rather
		// than rejecting the whole document.
		if k.TargetLayer == "" {
			return &ValidationError{Row: ri, Col: ci, Message: "layer key missing target layer"}
		}
	}
	return nil
}
