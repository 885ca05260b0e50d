package renderer

import (
	"fmt"
	"strings"

	"github.com/dshills/paneboard/internal/dispatch"
)

// Preview accumulates recently sent keys for the line above the board.
// Runs of plain text build up into a readable string; a special key
// (named or modified) takes the line over and repeats collapse into a
// count, mirroring how a user watches C-c C-c C-c go by.
type Preview struct {
	limit   int
	history []string
	// special marks that history holds repeats of one special token.
	special bool
}

// NewPreview creates a preview keeping at most limit visible tokens.
func NewPreview(limit int) *Preview {
	return &Preview{limit: limit}
}

// Record notes one delivered payload.
func (p *Preview) Record(payload dispatch.Payload) {
	for _, tok := range payload.Tokens {
		p.record(tok)
	}
}

func (p *Preview) record(tok string) {
	// A token is plain text when it is not a named key and carries no
	// modifier prefix.
	visible := !dispatch.IsNamedKey(tok) && !isModified(tok)

	switch {
	case visible && !p.special:
		p.history = append(p.history, tok)
	case visible && p.special:
		p.history = []string{tok}
		p.special = false
	default:
		if p.special && len(p.history) > 0 && p.history[len(p.history)-1] == tok {
			p.history = append(p.history, tok)
		} else {
			p.history = []string{tok}
		}
		p.special = true
	}

	if len(p.history) > p.limit {
		p.history = p.history[len(p.history)-p.limit:]
	}
}

// Reset clears the preview, used on layout reload.
func (p *Preview) Reset() {
	p.history = nil
	p.special = false
}

// String renders the preview line.
func (p *Preview) String() string {
	if len(p.history) == 0 {
		return ""
	}
	if p.special {
		if n := len(p.history); n > 1 {
			return fmt.Sprintf("%s (x%d)", p.history[0], n)
		}
		return p.history[0]
	}
	return strings.Join(p.history, "")
}

// isModified reports a token carrying a C-/M-/S- prefix.
func isModified(tok string) bool {
	return strings.HasPrefix(tok, "C-") || strings.HasPrefix(tok, "M-") || strings.HasPrefix(tok, "S-")
}
