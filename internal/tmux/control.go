package tmux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// ControlSender delivers payloads over a long-lived tmux control-mode
// client (`tmux -C`) instead of spawning a process per key. Control
// mode wraps every command response in %begin and %end (or %error)
// lines.
//
// Doc: https://github.com/tmux/tmux/wiki/Control-Mode
type ControlSender struct {
	mu     sync.Mutex
	stdin  io.WriteCloser
	reader *bufio.Reader
	cmd    *exec.Cmd
}

// NewControlSender starts a control-mode client attached to the
// current tmux server.
func NewControlSender() (*ControlSender, error) {
	cmd := exec.Command("tmux", "-C", "attach-session")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting tmux -C: %v", ErrTransport, err)
	}

	return &ControlSender{
		stdin:  stdin,
		reader: bufio.NewReader(stdout),
		cmd:    cmd,
	}, nil
}

// Deliver sends the tokens through the control-mode channel as one
// send-keys command.
func (s *ControlSender) Deliver(ctx context.Context, target string, tokens []string) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrTargetNotFound)
	}
	if len(tokens) == 0 {
		return nil
	}

	args := make([]string, 0, len(tokens)+3)
	args = append(args, "-t", target, "--")
	args = append(args, tokens...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeCommand("send-keys", args); err != nil {
		return err
	}
	return s.readResponse(ctx, target)
}

// Close detaches the control-mode client.
func (s *ControlSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdin != nil {
		s.stdin.Close()
		s.stdin = nil
	}
	if s.cmd != nil {
		err := s.cmd.Wait()
		s.cmd = nil
		return err
	}
	return nil
}

// writeCommand serializes one command line, quoting arguments that
// contain control-mode metacharacters.
func (s *ControlSender) writeCommand(command string, args []string) error {
	if s.stdin == nil {
		return fmt.Errorf("%w: control client closed", ErrTransport)
	}

	var b strings.Builder
	b.WriteString(command)
	for _, arg := range args {
		b.WriteByte(' ')
		if arg == "" || strings.ContainsAny(arg, " ;\"") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(arg, `"`, `\"`))
			b.WriteByte('"')
		} else {
			b.WriteString(arg)
		}
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(s.stdin, b.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// readResponse consumes lines until the %end or %error marker of the
// command just written. Asynchronous %-notifications in between are
// skipped.
func (s *ControlSender) readResponse(ctx context.Context, target string) error {
	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("%w: reading control response: %v", ErrTransport, err)
		}
		switch {
		case strings.HasPrefix(line, "%end"):
			return nil
		case strings.HasPrefix(line, "%error"):
			if isMissingPane(line) {
				return fmt.Errorf("%w: %s", ErrTargetNotFound, target)
			}
			return fmt.Errorf("%w: %s", ErrTransport, strings.TrimSpace(line))
		}
	}
}
