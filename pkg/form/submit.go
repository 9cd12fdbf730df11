package form

import "github.com/goliatone/go-formstate/pkg/model"

// Phase is the submission coordinator state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseRejected   Phase = "rejected"
	PhaseAccepted   Phase = "accepted"
)

// SubmitResult reports the outcome of one submission attempt.
type SubmitResult struct {
	Phase  Phase
	Values model.Values
	Errors model.ErrorState
	// Focused names the field focus was requested for on rejection.
	Focused string
}

// Accepted reports whether the submission passed validation.
func (r SubmitResult) Accepted() bool {
	return r.Phase == PhaseAccepted
}

// Phase returns the coordinator state. Outside of Submit it is always idle.
func (f *Form) Phase() Phase {
	return f.phase
}

// Submit validates every field and merges the outcome into the error state,
// notifying the error observer pass or fail. On failure it requests focus on
// the first invalid field in discovery order; on success it hands a snapshot
// of the values to the submit handler.
// Validator panics propagate and leave the coordinator idle.
func (f *Form) Submit() (SubmitResult, error) {
	if !f.mounted {
		return SubmitResult{}, ErrNotMounted
	}

	f.phase = PhaseValidating
	defer func() { f.phase = PhaseIdle }()

	values := f.store.Values()
	errs := f.dispatcher.ValidateAll(values)
	f.updateErrors(f.mergeErrors(errs))

	if errs.HasErrors() {
		result := SubmitResult{
			Phase:  PhaseRejected,
			Values: values,
			Errors: errs.Failed(),
		}
		if name := f.firstErrorField(); name != "" {
			result.Focused = name
			if f.focuser != nil && !f.focuser.RequestFocus(name) {
				f.logger.Debug("form: no focus handle for field", "field", name)
			}
		}
		f.logger.Debug("form: submission rejected",
			"errors", len(result.Errors),
			"focus", result.Focused,
		)
		return result, nil
	}

	f.logger.Debug("form: submission accepted", "fields", len(values))
	if f.onSubmit != nil {
		f.onSubmit(values.Clone())
	}
	return SubmitResult{Phase: PhaseAccepted, Values: values}, nil
}
