package form

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// SubmitHandler receives the form values when a submission passes validation.
type SubmitHandler func(values model.Values)

// ErrorsHandler observes every ErrorState update. It receives only the
// entries that carry an error, so a passing update delivers an empty map.
type ErrorsHandler func(errs model.ErrorState)

// Option configures a Form.
type Option func(*Form)

// WithRegistry overrides the validator registry used during discovery.
func WithRegistry(registry *validation.Registry) Option {
	return func(f *Form) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// WithOnSubmit registers the submit handler.
func WithOnSubmit(fn SubmitHandler) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithOnValidateErrors registers the error observer.
func WithOnValidateErrors(fn ErrorsHandler) Option {
	return func(f *Form) {
		f.onValidateErrors = fn
	}
}

// WithFocuser wires the capability used to focus the first invalid field.
func WithFocuser(focuser Focuser) Option {
	return func(f *Form) {
		f.focuser = focuser
	}
}

// WithExternalErrors supplies an error map computed elsewhere, typically
// server-side validation echoed back. While set, it replaces local errors for
// every field when props are derived.
func WithExternalErrors(errs model.ErrorState) Option {
	return func(f *Form) {
		f.external = errs
	}
}

// WithLoading marks the form as waiting on an outer operation.
func WithLoading(loading bool) Option {
	return func(f *Form) {
		f.loading = loading
	}
}

// WithClassName appends a caller class to the form chrome.
func WithClassName(name string) Option {
	return func(f *Form) {
		f.className = name
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
