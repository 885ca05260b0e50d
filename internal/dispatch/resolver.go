package dispatch

import (
	"fmt"

	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/state"
)

// namedKeys is the tmux send-keys key-name vocabulary the resolver
// emits. Tokens outside this set are literal strings.
var namedKeys = map[string]bool{
	"Enter": true, "Escape": true, "Tab": true, "Space": true,
	"BSpace": true, "Delete": true, "Insert": true,
	"Up": true, "Down": true, "Left": true, "Right": true,
	"Home": true, "End": true, "PPage": true, "NPage": true,
	"F1": true, "F2": true, "F3": true, "F4": true, "F5": true,
	"F6": true, "F7": true, "F8": true, "F9": true, "F10": true,
	"F11": true, "F12": true,
}

// IsNamedKey reports whether the token is a named key rather than a
// literal string.
func IsNamedKey(tok string) bool { return namedKeys[tok] }

// UndefinedBindingError reports a key with no usable binding for the
// requested layer or the default layer. The loop logs it and stays
// alive.
type UndefinedBindingError struct {
	Layer string
	Label string
}

func (e *UndefinedBindingError) Error() string {
	return fmt.Sprintf("key %q has no binding for layer %q or %q", e.Label, e.Layer, layout.DefaultLayer)
}

// Resolver turns an activated key plus the state snapshot into a
// Payload. It holds the delivery target and the macro engine; both are
// fixed for the session.
type Resolver struct {
	// Target is the opaque pane identifier payloads are addressed to.
	// The resolver never checks pane liveness.
	Target string

	macros *MacroEngine
}

// NewResolver creates a resolver for the given target pane. macros may
// be nil when the layout carries no script keys.
func NewResolver(target string, macros *MacroEngine) *Resolver {
	return &Resolver{Target: target, macros: macros}
}

// Resolve computes the payload for one activation of key under the
// given layer and modifier snapshot. Modifier one-shot clearing is the
// caller's business; Resolve only reads the snapshot.
func (r *Resolver) Resolve(key *layout.Key, layer string, mods state.ModifierSet) (Payload, error) {
	if !key.Dispatchable() {
		return Payload{}, fmt.Errorf("key kind %s does not dispatch", key.Kind)
	}

	lookupLayer := layer
	if key.Kind == layout.KindLiteral && mods.Has(state.Shift) {
		// Shift on a literal selects the shifted character rather
		// than prefixing a token; the shift layer takes precedence
		// over whatever layer is active.
		if _, ok := key.Bindings["shift"]; ok {
			lookupLayer = "shift"
		}
	}

	out, ok := key.Binding(lookupLayer)
	if !ok {
		return Payload{}, &UndefinedBindingError{Layer: layer, Label: key.LabelFor(layer)}
	}

	tokens := out.Tokens
	if out.Script != "" {
		if r.macros == nil {
			return Payload{}, fmt.Errorf("key %q needs a script engine", key.LabelFor(layer))
		}
		scripted, err := r.macros.Run(out.Script)
		if err != nil {
			return Payload{}, fmt.Errorf("macro %q: %w", key.LabelFor(layer), err)
		}
		tokens = append(append([]string(nil), tokens...), scripted...)
	}
	if len(tokens) == 0 {
		return Payload{}, &UndefinedBindingError{Layer: layer, Label: key.LabelFor(layer)}
	}

	encoded := make([]string, len(tokens))
	for i, tok := range tokens {
		encoded[i] = encodeToken(key.Kind, tok, mods)
	}

	return Payload{Tokens: encoded, Modifiers: mods}, nil
}

// encodeToken applies the modifier prefix table. The encoding is the
// tmux send-keys syntax and must stay bit-exact with it:
//
//	Ctrl  -> "C-" prefix (tmux maps C-<char> to the control code)
//	Alt   -> "M-" prefix (tmux emits ESC before the key)
//	Shift -> consumed by shifted-layer lookup for single characters;
//	         "S-" prefix for named keys (S-Up, S-Tab, ...)
//
// Combined modifiers stack as "C-M-S-x". Multi-character literal
// tokens (macro text) pass through unchanged; there is no meaningful
// Ctrl+"hello".
func encodeToken(kind layout.Kind, tok string, mods state.ModifierSet) string {
	if kind == layout.KindMacro {
		return tok
	}

	named := IsNamedKey(tok)
	single := len([]rune(tok)) == 1
	if !named && !single {
		return tok
	}

	prefix := ""
	if mods.Has(state.Ctrl) {
		prefix += "C-"
	}
	if mods.Has(state.Alt) || mods.Has(state.Meta) {
		prefix += "M-"
	}
	if mods.Has(state.Shift) && named {
		prefix += "S-"
	}
	return prefix + tok
}
