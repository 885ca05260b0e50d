// Package dispatch resolves an activated key against the session state
// into the exact token payload to hand to the pane sender.
package dispatch

import "github.com/dshills/paneboard/internal/state"

// Payload is the resolved outcome of one key activation: an ordered
// token sequence in tmux send-keys vocabulary plus the modifier set
// that was applied. Payloads are ephemeral; the sender consumes them
// as one atomic call.
type Payload struct {
	// Tokens are delivered in order. Each is either a literal string
	// or a named key ("Enter", "C-c", "M-Up", ...).
	Tokens []string

	// Modifiers is the modifier snapshot applied during resolution.
	Modifiers state.ModifierSet
}

// IsEmpty reports whether there is nothing to deliver.
func (p Payload) IsEmpty() bool { return len(p.Tokens) == 0 }
