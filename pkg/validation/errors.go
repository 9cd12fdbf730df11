package validation

import (
	"errors"
	"fmt"
)

// ErrUnknownValidator is wrapped by ConfigurationError when a field names a
// validation kind the registry does not know.
var ErrUnknownValidator = errors.New("unknown validator")

// ConfigurationError reports a form declaration the engine refuses to mount.
// It is fatal at discovery time.
type ConfigurationError struct {
	Field string
	Kind  string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Field != "" && e.Kind != "":
		return fmt.Sprintf("validation: field %q: %v %q", e.Field, e.Err, e.Kind)
	case e.Field != "":
		return fmt.Sprintf("validation: field %q: %v", e.Field, e.Err)
	case e.Kind != "":
		return fmt.Sprintf("validation: %v %q", e.Err, e.Kind)
	default:
		return fmt.Sprintf("validation: %v", e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
