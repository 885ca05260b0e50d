// Package tmux delivers resolved key payloads to a tmux pane. The core
// only ever talks to the Sender interface; the process-spawning lives
// behind a Runner so tests never shell out.
package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Delivery failures, matched with errors.Is.
var (
	// ErrTargetNotFound means the pane no longer exists.
	ErrTargetNotFound = errors.New("target pane not found")

	// ErrTransport means tmux could not be invoked or exited nonzero
	// for a reason other than a missing pane.
	ErrTransport = errors.New("tmux transport failure")

	// ErrTimeout means the delivery did not complete in time.
	ErrTimeout = errors.New("tmux delivery timed out")
)

// Sender delivers one payload to a pane. Implementations must treat
// the token list as atomic: one call, no interleaving.
type Sender interface {
	Deliver(ctx context.Context, target string, tokens []string) error
}

// Runner abstracts process execution.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner executes commands with os/exec.
type OSRunner struct{}

// Run executes the command and returns its combined output.
func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// DefaultTimeout bounds a single send-keys invocation.
const DefaultTimeout = 3 * time.Second

// ExecSender delivers payloads by invoking `tmux send-keys` once per
// payload.
type ExecSender struct {
	runner  Runner
	timeout time.Duration
}

// ExecOption configures an ExecSender.
type ExecOption func(*ExecSender)

// WithRunner substitutes the process runner; tests inject a fake.
func WithRunner(r Runner) ExecOption {
	return func(s *ExecSender) { s.runner = r }
}

// WithTimeout overrides the per-delivery timeout.
func WithTimeout(d time.Duration) ExecOption {
	return func(s *ExecSender) { s.timeout = d }
}

// NewExecSender creates a sender that shells out to tmux.
func NewExecSender(opts ...ExecOption) *ExecSender {
	s := &ExecSender{runner: OSRunner{}, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver sends the token sequence to the target pane as one
// send-keys call. tmux interprets each argument: known key names
// (Enter, C-c, M-Up, ...) become that key, anything else is sent as
// literal characters.
func (s *ExecSender) Deliver(ctx context.Context, target string, tokens []string) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrTargetNotFound)
	}
	if len(tokens) == 0 {
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := make([]string, 0, len(tokens)+4)
	args = append(args, "send-keys", "-t", target, "--")
	args = append(args, tokens...)

	out, err := s.runner.Run(runCtx, "tmux", args...)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || runCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if isMissingPane(string(out)) {
		return fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		msg = err.Error()
	}
	return fmt.Errorf("%w: %s", ErrTransport, msg)
}

// isMissingPane recognizes tmux's complaints about a stale target.
func isMissingPane(output string) bool {
	out := strings.ToLower(output)
	return strings.Contains(out, "can't find pane") ||
		strings.Contains(out, "can't find window") ||
		strings.Contains(out, "can't find session") ||
		strings.Contains(out, "no such pane")
}
