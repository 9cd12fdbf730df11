// Package form implements the form-state engine: it discovers fields in a
// declarative model.Node tree, keeps their values and validation errors, and
// coordinates submission.
//
// A Form is owned by a single host event loop. Mount runs discovery once;
// afterwards the host feeds change, blur and submit events in arrival order
// and re-reads per-field props on every render:
//
//	f := form.New(tree,
//	    form.WithOnSubmit(func(values model.Values) { ... }),
//	    form.WithFocuser(focusRegistry),
//	)
//	if err := f.Mount(); err != nil {
//	    return err // *validation.ConfigurationError
//	}
//	f.HandleChange("email", form.ChangeEvent{Value: "a@b.co"})
//	f.HandleBlur("email")
//	result, _ := f.Submit()
//
// Validators are pure; a panicking validator aborts the submission attempt and
// propagates to the host. Nothing in this package blocks or locks.
package form
