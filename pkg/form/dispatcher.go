package form

import "github.com/goliatone/go-formstate/pkg/model"

// Dispatcher applies the discovered validators to form values. It performs no
// I/O and does not recover validator panics.
type Dispatcher struct {
	validations ValidationMap
	order       []string
}

// NewDispatcher builds a dispatcher over a validation map. order fixes the
// iteration order of ValidateAll.
func NewDispatcher(validations ValidationMap, order []string) *Dispatcher {
	return &Dispatcher{validations: validations, order: order}
}

// Validate runs the validator registered for name against values. Fields
// without a validator are valid by definition.
func (d *Dispatcher) Validate(name string, values model.Values) *model.FieldError {
	validator, ok := d.validations[name]
	if !ok || validator == nil {
		return nil
	}
	return validator.Validate(values[name], values)
}

// Validates reports whether name has a validator.
func (d *Dispatcher) Validates(name string) bool {
	_, ok := d.validations[name]
	return ok
}

// ValidateAll validates every field and returns a fresh error state holding
// one entry per validated field (nil when it passed).
func (d *Dispatcher) ValidateAll(values model.Values) model.ErrorState {
	errs := make(model.ErrorState, len(d.validations))
	for _, name := range d.order {
		if _, known := values[name]; !known || !d.Validates(name) {
			continue
		}
		errs[name] = d.Validate(name, values)
	}
	return errs
}
