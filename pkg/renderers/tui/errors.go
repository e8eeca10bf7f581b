package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoCounter is returned when the form definition has no counter field
	// to bind the increment/decrement actions to.
	ErrNoCounter = errors.New("tui: form definition has no counter field")
)
