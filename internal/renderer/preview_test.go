package renderer

import (
	"testing"

	"github.com/dshills/paneboard/internal/dispatch"
)

func record(p *Preview, tokens ...string) {
	p.Record(dispatch.Payload{Tokens: tokens})
}

func TestPreviewPlainTextAccumulates(t *testing.T) {
	p := NewPreview(40)
	record(p, "h", "i")
	record(p, "!")

	if got := p.String(); got != "hi!" {
		t.Errorf("String() = %q, want %q", got, "hi!")
	}
}

func TestPreviewSpecialKeyTakesOver(t *testing.T) {
	p := NewPreview(40)
	record(p, "h", "i")
	record(p, "C-c")

	if got := p.String(); got != "C-c" {
		t.Errorf("String() = %q, want %q", got, "C-c")
	}
}

func TestPreviewRepeatedSpecialCollapses(t *testing.T) {
	p := NewPreview(40)
	record(p, "Enter")
	record(p, "Enter")
	record(p, "Enter")

	if got := p.String(); got != "Enter (x3)" {
		t.Errorf("String() = %q, want %q", got, "Enter (x3)")
	}
}

func TestPreviewDifferentSpecialResets(t *testing.T) {
	p := NewPreview(40)
	record(p, "Enter", "Enter")
	record(p, "Tab")

	if got := p.String(); got != "Tab" {
		t.Errorf("String() = %q, want %q", got, "Tab")
	}
}

func TestPreviewTextAfterSpecialStartsFresh(t *testing.T) {
	p := NewPreview(40)
	record(p, "Enter")
	record(p, "a")

	if got := p.String(); got != "a" {
		t.Errorf("String() = %q, want %q", got, "a")
	}
}

func TestPreviewLimitTrimsOldest(t *testing.T) {
	p := NewPreview(3)
	record(p, "a", "b", "c", "d")

	if got := p.String(); got != "bcd" {
		t.Errorf("String() = %q, want %q", got, "bcd")
	}
}

func TestPreviewReset(t *testing.T) {
	p := NewPreview(40)
	record(p, "a", "b")
	p.Reset()

	if got := p.String(); got != "" {
		t.Errorf("String() after Reset = %q, want empty", got)
	}
}
