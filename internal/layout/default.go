package layout

import (
	_ "embed"
	"fmt"
)

//go:embed default-layout.jsonc
var defaultDocument []byte

// Default returns the built-in layout, used when no user layout exists
// or a user layout fails to load at startup.
func Default() *Layout {
	l, err := Parse(defaultDocument)
	if err != nil {
		// The embedded document is covered by tests; failing to parse
		// it is a build defect, not a runtime condition.
		panic(fmt.Sprintf("built-in layout is invalid: %v", err))
	}
	return l
}

// DefaultDocument returns the source of the built-in layout, for
// writing out a starter file the user can edit.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}
