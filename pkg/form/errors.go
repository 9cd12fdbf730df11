package form

import "errors"

var (
	// ErrNotMounted is returned by operations that need discovery to have run.
	ErrNotMounted = errors.New("form: not mounted")
	// ErrAlreadyMounted is returned when Mount is called twice.
	ErrAlreadyMounted = errors.New("form: already mounted")
)
