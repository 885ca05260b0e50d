// Package renderer decides what the keyboard looks like and writes it
// to a backend surface. It owns no state machine: every Render call
// paints the whole board from the layout and the session state.
package renderer

import (
	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/renderer/backend"
	"github.com/dshills/paneboard/internal/state"
)

// Key box geometry. Every key is the same size; the grid stays
// readable without per-key layout in the document.
const (
	keyHeight = 3
	minKeyW   = 5
)

// Status is the transient information shown under the board.
type Status struct {
	// Target is the destination pane identifier.
	Target string

	// Err is the most recent delivery or binding problem; empty when
	// the last action succeeded.
	Err string
}

// Renderer paints the keyboard onto a backend.
type Renderer struct {
	backend backend.Backend
	preview *Preview
}

// New creates a renderer for the given backend.
func New(b backend.Backend) *Renderer {
	return &Renderer{backend: b, preview: NewPreview(40)}
}

// Preview returns the sent-key preview model so the input loop can
// record deliveries.
func (r *Renderer) Preview() *Preview { return r.preview }

// Render paints the full board: preview line, key grid, status line.
func (r *Renderer) Render(l *layout.Layout, st *state.State, status Status) {
	r.backend.Clear()

	width, height := r.backend.Size()
	keyW := r.keyWidth(l, st.ActiveLayer)

	r.drawText(0, 0, "> "+r.preview.String(), backend.Style{Bold: true})

	top := 1
	for ri, row := range l.Rows {
		y := top + ri*keyHeight
		if y+keyHeight > height-1 {
			break
		}
		for ci := range row.Keys {
			x := ci * (keyW + 1)
			if x+keyW > width {
				break
			}
			key := &row.Keys[ci]
			focused := st.Focus.Row == ri && st.Focus.Col == ci
			r.drawKey(x, y, keyW, key, st, focused)
		}
	}

	r.drawStatus(height-1, width, st, status)

	r.backend.HideCursor()
	r.backend.Show()
}

// keyWidth sizes every box to the longest label on the active layer.
func (r *Renderer) keyWidth(l *layout.Layout, layer string) int {
	w := minKeyW
	for _, row := range l.Rows {
		for ci := range row.Keys {
			if n := len([]rune(row.Keys[ci].LabelFor(layer))) + 2; n > w {
				w = n
			}
		}
	}
	return w
}

// drawKey paints one bordered key box.
func (r *Renderer) drawKey(x, y, w int, key *layout.Key, st *state.State, focused bool) {
	style := r.keyStyle(key, st, focused)

	r.setRune(x, y, '┌', style)
	r.setRune(x+w-1, y, '┐', style)
	r.setRune(x, y+2, '└', style)
	r.setRune(x+w-1, y+2, '┘', style)
	for col := x + 1; col < x+w-1; col++ {
		r.setRune(col, y, '─', style)
		r.setRune(col, y+2, '─', style)
	}
	r.setRune(x, y+1, '│', style)
	r.setRune(x+w-1, y+1, '│', style)

	label := key.LabelFor(st.ActiveLayer)
	runes := []rune(label)
	inner := w - 2
	if len(runes) > inner {
		runes = runes[:inner]
	}
	pad := (inner - len(runes)) / 2
	for i := 0; i < inner; i++ {
		ch := ' '
		if i >= pad && i-pad < len(runes) {
			ch = runes[i-pad]
		}
		r.setRune(x+1+i, y+1, ch, style)
	}
}

// keyStyle mirrors the original press states: focus is reverse video,
// a latched modifier or the active layer's switch key is bold italic.
func (r *Renderer) keyStyle(key *layout.Key, st *state.State, focused bool) backend.Style {
	style := backend.Style{}
	switch key.Kind {
	case layout.KindModifierToggle:
		if m, err := state.ParseModifier(key.Modifier); err == nil && st.Modifiers.Has(m) {
			style.Bold = true
			style.Italic = true
		}
	case layout.KindLayerSwitch:
		if key.TargetLayer == st.ActiveLayer {
			style.Bold = true
			style.Italic = true
		}
	}
	if focused {
		style.Reverse = true
	}
	return style
}

func (r *Renderer) drawStatus(y, width int, st *state.State, status Status) {
	text := "pane " + status.Target + "  layer " + st.ActiveLayer
	if mods := st.Modifiers.String(); mods != "" {
		text += "  mods " + mods
	}
	style := backend.Style{Dim: true}
	if status.Err != "" {
		text += "  ! " + status.Err
		style = backend.Style{Bold: true, Reverse: true}
	}
	runes := []rune(text)
	if len(runes) > width {
		runes = runes[:width]
	}
	r.drawText(0, y, string(runes), style)
}

func (r *Renderer) drawText(x, y int, text string, style backend.Style) {
	for i, ch := range []rune(text) {
		r.setRune(x+i, y, ch, style)
	}
}

func (r *Renderer) setRune(x, y int, ch rune, style backend.Style) {
	r.backend.SetCell(x, y, backend.Cell{Rune: ch, Style: style})
}
