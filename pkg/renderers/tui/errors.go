package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrBusy is returned when the form is marked loading.
	ErrBusy = errors.New("tui: form is loading")
	// ErrTooManyAttempts is returned when submissions keep failing
	// validation past the configured limit.
	ErrTooManyAttempts = errors.New("tui: too many rejected submissions")
)
