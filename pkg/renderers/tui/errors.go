package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManySteps stops a session whose answers keep producing new
	// prompts.
	ErrTooManySteps = errors.New("tui: prompt limit reached")
)
