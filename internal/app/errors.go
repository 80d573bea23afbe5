// Package app wires the waveform viewer together: configuration, logging,
// the event bus, and one session per open waveform file. Each session owns
// its own history coordinator so that independent documents never share an
// undo tree.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrSessionNotFound indicates a session was not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoActiveSession indicates no session is currently active.
	ErrNoActiveSession = errors.New("no active session")

	// ErrUnsupportedFormat indicates a waveform file format that cannot
	// be parsed.
	ErrUnsupportedFormat = errors.New("unsupported waveform format")
)

// OperationError represents an error that occurred during a specific
// application operation.
type OperationError struct {
	Op     string // Operation name (e.g., "open", "close")
	Target string // Target of the operation (e.g., file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
