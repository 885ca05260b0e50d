package app

import (
	"errors"
	"fmt"
)

// ErrQuit signals a normal user-requested exit. Run returns it so the
// caller can tell a clean quit from a failure.
var ErrQuit = errors.New("quit requested")

// InitError reports a component that failed to come up during New.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
