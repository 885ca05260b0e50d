package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying load failures with errors.Is.
var (
	// ErrParse indicates the document is not well-formed JSONC.
	ErrParse = errors.New("layout parse error")

	// ErrValidation indicates the document is well-formed but violates
	// a structural invariant.
	ErrValidation = errors.New("layout validation error")

	// ErrIO indicates the document could not be read.
	ErrIO = errors.New("layout io error")
)

// ParseError reports a malformed layout document.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing layout: %s", e.Message)
	}
	return fmt.Sprintf("parsing layout %s: %s", e.Path, e.Message)
}

// Unwrap classifies the error as ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }

// ValidationError reports a structurally invalid layout. Row and Col
// locate the offending key when applicable.
type ValidationError struct {
	Path    string
	Row     int
	Col     int
	Message string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid layout: %s (row %d, key %d)", e.Message, e.Row, e.Col)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

// Unwrap classifies the error as ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// IOError reports an unreadable layout document.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading layout %s: %v", e.Path, e.Err)
}

// Unwrap classifies the error as ErrIO. The underlying os error is
// available through Cause.
func (e *IOError) Unwrap() error { return ErrIO }

// Cause returns the underlying file system error.
func (e *IOError) Cause() error { return e.Err }
