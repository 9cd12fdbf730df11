package form

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Store holds the current values and locally computed errors of one form.
// It is single-owner: callers serialise access through their event loop.
type Store struct {
	values   model.Values
	defaults model.Values
	errors   model.ErrorState
	external model.ErrorState
	logger   *slog.Logger
}

// NewStore seeds a store with discovered values. The same values double as
// the declared defaults.
func NewStore(values model.Values, logger *slog.Logger) *Store {
	if logger == nil {
		logger = discardLogger()
	}
	return &Store{
		values:   values.Clone(),
		defaults: values.Clone(),
		errors:   make(model.ErrorState),
		logger:   logger,
	}
}

// SetFieldValue replaces the value stored for name. Unknown names are ignored
// so stale references from the host never crash the form; the return value
// reports whether the write happened. Values are coerced to the field's type:
// text fields hold strings and checkboxes hold bools. A value that cannot be
// read as a bool is refused for a checkbox.
func (s *Store) SetFieldValue(name string, value any) bool {
	declared, ok := s.defaults[name]
	if !ok {
		s.logger.Debug("form: ignoring change for unknown field", "field", name)
		return false
	}
	coerced, ok := coerceValue(declared, value)
	if !ok {
		s.logger.Debug("form: ignoring value of wrong type",
			"field", name,
			"type", fmt.Sprintf("%T", value),
		)
		return false
	}
	s.values[name] = coerced
	return true
}

// coerceValue converts value to the type of the declared default.
func coerceValue(declared, value any) (any, bool) {
	if _, checkbox := declared.(bool); checkbox {
		switch typed := value.(type) {
		case nil:
			return false, true
		case bool:
			return typed, true
		case string:
			if strings.TrimSpace(typed) == "" {
				return false, true
			}
			parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err != nil {
				return nil, false
			}
			return parsed, true
		default:
			return nil, false
		}
	}

	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	default:
		return fmt.Sprint(typed), true
	}
}

// GetFieldValue returns the current value for name, falling back to the
// declared default. Unknown names return nil.
func (s *Store) GetFieldValue(name string) any {
	if value, ok := s.values[name]; ok && value != nil {
		return value
	}
	return s.defaults[name]
}

// GetFieldError returns the error shown for name. When an external error map
// is present it decides for every field, even those it has no entry for.
func (s *Store) GetFieldError(name string) *model.FieldError {
	if s.external != nil {
		return s.external[name]
	}
	return s.errors[name]
}

// LocalError returns the locally computed error for name, ignoring any
// external override.
func (s *Store) LocalError(name string) *model.FieldError {
	return s.errors[name]
}

// Has reports whether name is a known field.
func (s *Store) Has(name string) bool {
	_, ok := s.defaults[name]
	return ok
}

// Values returns a snapshot of the current values.
func (s *Store) Values() model.Values {
	return s.values.Clone()
}

// Errors returns a snapshot of the local error state.
func (s *Store) Errors() model.ErrorState {
	return s.errors.Clone()
}

// SetErrors replaces the local error state.
func (s *Store) SetErrors(errs model.ErrorState) {
	if errs == nil {
		errs = make(model.ErrorState)
	}
	s.errors = errs.Clone()
}

// SetExternalErrors installs or, with nil, clears the external override.
func (s *Store) SetExternalErrors(errs model.ErrorState) {
	if errs == nil {
		s.external = nil
		return
	}
	s.external = errs.Clone()
}
