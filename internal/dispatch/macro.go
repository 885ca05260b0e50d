package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultMacroTimeout bounds a single macro run. Macros compute a short
// token list; anything that runs longer is a runaway script.
const DefaultMacroTimeout = time.Second

// MacroEngine evaluates Lua macro scripts into token lists. The state
// is sandboxed: no io, os, file loading, or require. gopher-lua's
// LState is not goroutine-safe, but the input loop is the only caller,
// so a mutex is enough for the reload path.
type MacroEngine struct {
	mu sync.Mutex
	L  *lua.LState

	timeout time.Duration
}

// MacroOption configures a MacroEngine.
type MacroOption func(*MacroEngine)

// WithMacroTimeout overrides the per-run execution budget.
func WithMacroTimeout(d time.Duration) MacroOption {
	return func(m *MacroEngine) { m.timeout = d }
}

// NewMacroEngine creates a sandboxed Lua state for macro evaluation.
func NewMacroEngine(opts ...MacroOption) *MacroEngine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only the value-manipulation libraries; nothing that touches
	// the file system, environment, or process.
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	m := &MacroEngine{L: L, timeout: DefaultMacroTimeout}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Close releases the Lua state.
func (m *MacroEngine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

// Run evaluates a macro script and returns the token list it produces.
// The script must return either a string (one token) or a table of
// strings.
func (m *MacroEngine) Run(script string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return nil, fmt.Errorf("macro engine closed")
	}

	fn, err := m.L.LoadString("return (function()\n" + script + "\nend)()")
	if err != nil {
		// Scripts may also be bare expressions like `"a" .. "b"`.
		fn, err = m.L.LoadString("return " + script)
		if err != nil {
			return nil, fmt.Errorf("compiling macro: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.L.SetContext(ctx)
	defer m.L.RemoveContext()

	top := m.L.GetTop()
	defer m.L.SetTop(top)

	m.L.Push(fn)
	if err := m.L.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("running macro: %w", err)
	}

	return tokensFromValue(m.L.Get(-1))
}

func tokensFromValue(v lua.LValue) ([]string, error) {
	switch val := v.(type) {
	case lua.LString:
		return []string{string(val)}, nil
	case lua.LNumber:
		return []string{val.String()}, nil
	case *lua.LTable:
		var tokens []string
		var badType lua.LValue
		val.ForEach(func(_, item lua.LValue) {
			switch it := item.(type) {
			case lua.LString:
				tokens = append(tokens, string(it))
			case lua.LNumber:
				tokens = append(tokens, it.String())
			default:
				badType = item
			}
		})
		if badType != nil {
			return nil, fmt.Errorf("macro table contains non-string value %s", badType.Type())
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("macro returned an empty table")
		}
		return tokens, nil
	default:
		return nil, fmt.Errorf("macro returned %s, want string or table", v.Type())
	}
}
