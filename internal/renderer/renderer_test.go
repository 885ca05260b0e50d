package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/renderer/backend"
	"github.com/dshills/paneboard/internal/state"
)

func testLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.Parse([]byte(`{
	  "rows": [
	    {"keys": [{"key": "a"}, {"key": "b"}, {"label": "Shf", "kind": "modifier", "modifier": "shift"}]},
	    {"keys": [{"label": "Ent", "kind": "control", "key": "Enter"}]}
	  ]
	}`))
	if err != nil {
		t.Fatalf("test layout: %v", err)
	}
	return l
}

func TestRenderDrawsGrid(t *testing.T) {
	mem := backend.NewMemory(60, 12)
	if err := mem.Init(); err != nil {
		t.Fatal(err)
	}
	r := New(mem)
	st := state.New(0)

	r.Render(testLayout(t), st, Status{Target: "%1"})

	if mem.ShowCount() != 1 {
		t.Errorf("ShowCount = %d, want 1", mem.ShowCount())
	}

	// Top-left key box corner sits under the preview line.
	if c := mem.CellAt(0, 1); c.Rune != '┌' {
		t.Errorf("cell (0,1) = %q, want box corner", c.Rune)
	}

	// First key row must contain the labels of the active layer.
	mid := mem.Line(2)
	if !strings.Contains(mid, "a") || !strings.Contains(mid, "b") || !strings.Contains(mid, "Shf") {
		t.Errorf("key row %q missing labels", mid)
	}

	// Status line names the target pane and layer.
	status := mem.Line(11)
	if !strings.Contains(status, "%1") || !strings.Contains(status, "base") {
		t.Errorf("status line %q missing target/layer", status)
	}
}

func TestRenderFocusHighlight(t *testing.T) {
	mem := backend.NewMemory(60, 12)
	if err := mem.Init(); err != nil {
		t.Fatal(err)
	}
	r := New(mem)
	st := state.New(0)
	st.Focus = state.Coord{Row: 0, Col: 1}

	r.Render(testLayout(t), st, Status{Target: "%1"})

	// The focused key's border is reverse video; the unfocused one is
	// not.
	if !mem.CellAt(6, 1).Style.Reverse {
		t.Error("focused key should render reverse video")
	}
	if mem.CellAt(0, 1).Style.Reverse {
		t.Error("unfocused key should not render reverse video")
	}
}

func TestRenderShiftLayerLabels(t *testing.T) {
	mem := backend.NewMemory(60, 12)
	if err := mem.Init(); err != nil {
		t.Fatal(err)
	}
	r := New(mem)
	st := state.New(0)
	st.SwitchLayer("shift")

	r.Render(testLayout(t), st, Status{Target: "%1"})

	mid := mem.Line(2)
	if !strings.Contains(mid, "A") || !strings.Contains(mid, "B") {
		t.Errorf("shift layer row %q should show uppercase labels", mid)
	}
}

func TestRenderLatchedModifierStyle(t *testing.T) {
	mem := backend.NewMemory(60, 12)
	if err := mem.Init(); err != nil {
		t.Fatal(err)
	}
	r := New(mem)
	st := state.New(0)
	st.Toggle(state.Shift)

	r.Render(testLayout(t), st, Status{Target: "%1"})

	// The Shf key box (third key, boxes are 5 wide + 1 gap) turns bold.
	if !mem.CellAt(12, 1).Style.Bold {
		t.Error("latched modifier key should render bold")
	}

	status := mem.Line(11)
	if !strings.Contains(status, "shift") {
		t.Errorf("status line %q should list held modifiers", status)
	}
}

func TestRenderErrorStatus(t *testing.T) {
	mem := backend.NewMemory(60, 12)
	if err := mem.Init(); err != nil {
		t.Fatal(err)
	}
	r := New(mem)

	r.Render(testLayout(t), state.New(0), Status{Target: "%1", Err: "target pane not found"})

	status := mem.Line(11)
	if !strings.Contains(status, "target pane not found") {
		t.Errorf("status line %q should carry the error", status)
	}
}
