package tmux

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

// fakeRunner records invocations and plays back canned results.
type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
	block  bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.output, f.err
}

func TestDeliverBuildsSingleSendKeysCall(t *testing.T) {
	runner := &fakeRunner{}
	s := NewExecSender(WithRunner(runner))

	err := s.Deliver(context.Background(), "%3", []string{"l", "s", "Enter"})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1 (payloads are atomic)", len(runner.calls))
	}
	want := []string{"tmux", "send-keys", "-t", "%3", "--", "l", "s", "Enter"}
	if !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("call = %v, want %v", runner.calls[0], want)
	}
}

func TestDeliverTargetNotFound(t *testing.T) {
	runner := &fakeRunner{
		output: []byte("can't find pane: %9\n"),
		err:    fmt.Errorf("exit status 1"),
	}
	s := NewExecSender(WithRunner(runner))

	err := s.Deliver(context.Background(), "%9", []string{"a"})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Deliver() error = %v, want ErrTargetNotFound", err)
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	runner := &fakeRunner{
		output: []byte("server exited unexpectedly\n"),
		err:    fmt.Errorf("exit status 1"),
	}
	s := NewExecSender(WithRunner(runner))

	err := s.Deliver(context.Background(), "%1", []string{"a"})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Deliver() error = %v, want ErrTransport", err)
	}
}

func TestDeliverTimeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	s := NewExecSender(WithRunner(runner), WithTimeout(20*time.Millisecond))

	err := s.Deliver(context.Background(), "%1", []string{"a"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Deliver() error = %v, want ErrTimeout", err)
	}
}

func TestDeliverEmptyTarget(t *testing.T) {
	runner := &fakeRunner{}
	s := NewExecSender(WithRunner(runner))

	err := s.Deliver(context.Background(), "", []string{"a"})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Deliver() error = %v, want ErrTargetNotFound", err)
	}
	if len(runner.calls) != 0 {
		t.Error("runner should not be invoked for an empty target")
	}
}

func TestDeliverEmptyPayload(t *testing.T) {
	runner := &fakeRunner{}
	s := NewExecSender(WithRunner(runner))

	if err := s.Deliver(context.Background(), "%1", nil); err != nil {
		t.Errorf("Deliver() error = %v, want nil", err)
	}
	if len(runner.calls) != 0 {
		t.Error("runner should not be invoked for an empty payload")
	}
}

func TestIsMissingPane(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"can't find pane: %42", true},
		{"can't find window: @3", true},
		{"can't find session: main", true},
		{"no server running on /tmp/tmux-1000/default", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isMissingPane(tt.output); got != tt.want {
			t.Errorf("isMissingPane(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}
