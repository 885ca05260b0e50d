package dispatch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/state"
)

func literalKey(base, shift string) *layout.Key {
	k := &layout.Key{
		Kind:     layout.KindLiteral,
		Bindings: map[string]layout.Output{"base": {Tokens: []string{base}}},
	}
	if shift != "" {
		k.Bindings["shift"] = layout.Output{Tokens: []string{shift}}
	}
	return k
}

func TestResolveLiteral(t *testing.T) {
	r := NewResolver("%1", nil)

	p, err := r.Resolve(literalKey("a", "A"), "base", 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tokens, []string{"a"}) {
		t.Errorf("Tokens = %v, want [a]", p.Tokens)
	}
}

func TestResolveShiftSelectsShiftedBinding(t *testing.T) {
	r := NewResolver("%1", nil)
	key := literalKey("a", "A")

	p, err := r.Resolve(key, "base", state.NewModifierSet(state.Shift))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tokens, []string{"A"}) {
		t.Errorf("Tokens = %v, want [A]", p.Tokens)
	}

	// Without the modifier the base binding applies again.
	p, err = r.Resolve(key, "base", 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tokens, []string{"a"}) {
		t.Errorf("Tokens = %v, want [a]", p.Tokens)
	}
}

func TestResolveCtrlEncoding(t *testing.T) {
	r := NewResolver("%1", nil)

	p, err := r.Resolve(literalKey("c", ""), "base", state.NewModifierSet(state.Ctrl))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tokens, []string{"C-c"}) {
		t.Errorf("Tokens = %v, want [C-c]", p.Tokens)
	}
}

func TestEncodeToken(t *testing.T) {
	tests := []struct {
		name string
		kind layout.Kind
		tok  string
		mods state.ModifierSet
		want string
	}{
		{"plain char", layout.KindLiteral, "a", 0, "a"},
		{"ctrl char", layout.KindLiteral, "c", state.NewModifierSet(state.Ctrl), "C-c"},
		{"alt char", layout.KindLiteral, "x", state.NewModifierSet(state.Alt), "M-x"},
		{"meta maps to M-", layout.KindLiteral, "x", state.NewModifierSet(state.Meta), "M-x"},
		{"ctrl alt char", layout.KindLiteral, "x", state.NewModifierSet(state.Ctrl, state.Alt), "C-M-x"},
		{"named key", layout.KindControl, "Enter", 0, "Enter"},
		{"ctrl named", layout.KindControl, "Up", state.NewModifierSet(state.Ctrl), "C-Up"},
		{"shift named", layout.KindControl, "Tab", state.NewModifierSet(state.Shift), "S-Tab"},
		{"all mods named", layout.KindControl, "Up", state.NewModifierSet(state.Ctrl, state.Alt, state.Shift), "C-M-S-Up"},
		{"shift char has no S- prefix", layout.KindLiteral, "a", state.NewModifierSet(state.Shift), "a"},
		{"multichar literal unchanged", layout.KindLiteral, "hello", state.NewModifierSet(state.Ctrl), "hello"},
		{"macro token unchanged", layout.KindMacro, "c", state.NewModifierSet(state.Ctrl), "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeToken(tt.kind, tt.tok, tt.mods); got != tt.want {
				t.Errorf("encodeToken(%q) = %q, want %q", tt.tok, got, tt.want)
			}
		})
	}
}

func TestResolveLayerFallback(t *testing.T) {
	r := NewResolver("%1", nil)
	key := literalKey("a", "")

	// Active layer has no binding; the base binding applies.
	p, err := r.Resolve(key, "symbol", 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tokens, []string{"a"}) {
		t.Errorf("Tokens = %v, want [a]", p.Tokens)
	}
}

func TestResolveUndefinedBinding(t *testing.T) {
	r := NewResolver("%1", nil)
	key := &layout.Key{Kind: layout.KindLiteral, Bindings: map[string]layout.Output{}}

	_, err := r.Resolve(key, "base", 0)
	var ube *UndefinedBindingError
	if !errors.As(err, &ube) {
		t.Fatalf("Resolve() error = %v, want UndefinedBindingError", err)
	}
}

func TestResolveNonDispatchable(t *testing.T) {
	r := NewResolver("%1", nil)
	key := &layout.Key{Kind: layout.KindModifierToggle, Modifier: "ctrl"}

	if _, err := r.Resolve(key, "base", 0); err == nil {
		t.Error("Resolve() on a modifier key should fail")
	}
}

func TestResolveMacroTokens(t *testing.T) {
	r := NewResolver("%1", nil)
	key := &layout.Key{
		Kind: layout.KindMacro,
		Bindings: map[string]layout.Output{
			"base": {Tokens: []string{"l", "s", "Enter"}},
		},
	}

	p, err := r.Resolve(key, "base", state.NewModifierSet(state.Ctrl))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Macro payloads are atomic and unmodified.
	if !reflect.DeepEqual(p.Tokens, []string{"l", "s", "Enter"}) {
		t.Errorf("Tokens = %v", p.Tokens)
	}
}

func TestResolveMacroScript(t *testing.T) {
	engine := NewMacroEngine()
	defer engine.Close()
	r := NewResolver("%1", engine)

	key := &layout.Key{
		Kind: layout.KindMacro,
		Bindings: map[string]layout.Output{
			"base": {Script: `return {"g", "i", "t", " ", "Enter"}`},
		},
	}

	p, err := r.Resolve(key, "base", 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"g", "i", "t", " ", "Enter"}
	if !reflect.DeepEqual(p.Tokens, want) {
		t.Errorf("Tokens = %v, want %v", p.Tokens, want)
	}
}

func TestResolveScriptWithoutEngine(t *testing.T) {
	r := NewResolver("%1", nil)
	key := &layout.Key{
		Kind:     layout.KindMacro,
		Bindings: map[string]layout.Output{"base": {Script: `return "x"`}},
	}

	if _, err := r.Resolve(key, "base", 0); err == nil {
		t.Error("Resolve() script without engine should fail")
	}
}
