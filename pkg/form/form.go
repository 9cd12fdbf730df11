package form

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Form binds a field tree to its state store, validators and callbacks.
type Form struct {
	root             model.Node
	registry         *validation.Registry
	logger           *slog.Logger
	external         model.ErrorState
	onSubmit         SubmitHandler
	onValidateErrors ErrorsHandler
	focuser          Focuser
	loading          bool
	className        string

	mounted    bool
	store      *Store
	dispatcher *Dispatcher
	discovery  Discovery
	phase      Phase
}

// New constructs an unmounted form over root.
func New(root model.Node, options ...Option) *Form {
	f := &Form{
		root:     root,
		registry: validation.NewRegistry(),
		logger:   discardLogger(),
		phase:    PhaseIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Mount runs field discovery and seeds the state store. Configuration errors
// leave the form unmounted.
func (f *Form) Mount() error {
	if f.mounted {
		return ErrAlreadyMounted
	}

	discovery, err := Discover(f.root, f.registry)
	if err != nil {
		f.logger.Error("form: discovery failed", "error", err)
		return err
	}

	f.discovery = discovery
	f.store = NewStore(discovery.Values, f.logger)
	f.store.SetExternalErrors(f.external)
	f.dispatcher = NewDispatcher(discovery.Validations, discovery.Order)
	f.mounted = true

	f.logger.Debug("form: mounted",
		"fields", len(discovery.Order),
		"validated", len(discovery.Validations),
	)
	return nil
}

// Root returns the tree the form was built from.
func (f *Form) Root() model.Node {
	return f.root
}

// Mounted reports whether discovery has run.
func (f *Form) Mounted() bool {
	return f.mounted
}

// Order returns field names in discovery order.
func (f *Form) Order() []string {
	return append([]string(nil), f.discovery.Order...)
}

// Node returns the node that declared name.
func (f *Form) Node(name string) (model.Node, bool) {
	node, ok := f.discovery.Nodes[name]
	return node, ok
}

// Values returns a snapshot of the current values.
func (f *Form) Values() model.Values {
	if !f.mounted {
		return nil
	}
	return f.store.Values()
}

// Errors returns a snapshot of the locally computed error state.
func (f *Form) Errors() model.ErrorState {
	if !f.mounted {
		return nil
	}
	return f.store.Errors()
}

// SetFieldValue writes a value directly. Unknown fields are ignored.
func (f *Form) SetFieldValue(name string, value any) {
	if !f.mounted {
		return
	}
	f.store.SetFieldValue(name, value)
}

// GetFieldValue returns the current value or the declared default.
func (f *Form) GetFieldValue(name string) any {
	if !f.mounted {
		return nil
	}
	return f.store.GetFieldValue(name)
}

// GetFieldError returns the error to display for name, external errors first.
func (f *Form) GetFieldError(name string) *model.FieldError {
	if !f.mounted {
		return nil
	}
	return f.store.GetFieldError(name)
}

// SetExternalErrors replaces the external error override; nil removes it.
func (f *Form) SetExternalErrors(errs model.ErrorState) {
	f.external = errs
	if f.mounted {
		f.store.SetExternalErrors(errs)
	}
}

// Loading reports whether the host marked the form busy.
func (f *Form) Loading() bool {
	return f.loading
}

// SetLoading toggles the busy flag passed down to field props.
func (f *Form) SetLoading(loading bool) {
	f.loading = loading
}

// ClassName returns the chrome classes: "form" plus the caller class.
func (f *Form) ClassName() string {
	classes := []string{"form"}
	if extra := strings.TrimSpace(f.className); extra != "" {
		classes = append(classes, extra)
	}
	return strings.Join(classes, " ")
}

// Validate runs the validator of a single field against the current values.
func (f *Form) Validate(name string) *model.FieldError {
	if !f.mounted {
		return nil
	}
	return f.dispatcher.Validate(name, f.store.Values())
}

// ValidateAll validates every field against the current values without
// touching the stored error state.
func (f *Form) ValidateAll() model.ErrorState {
	if !f.mounted {
		return nil
	}
	return f.dispatcher.ValidateAll(f.store.Values())
}

// HandleChange applies a change event from the widget bound to name.
func (f *Form) HandleChange(name string, event ChangeEvent) {
	if !f.mounted {
		return
	}
	node, ok := f.discovery.Nodes[name]
	if !ok {
		f.logger.Debug("form: ignoring change for unknown field", "field", name)
		return
	}
	f.store.SetFieldValue(name, event.valueFor(node.Kind))
}

// HandleBlur validates name and publishes the updated error state.
func (f *Form) HandleBlur(name string) {
	if !f.mounted {
		return
	}
	errs := f.store.Errors()
	if f.dispatcher.Validates(name) {
		errs[name] = f.dispatcher.Validate(name, f.store.Values())
	}
	f.updateErrors(errs)
}

func (f *Form) updateErrors(errs model.ErrorState) {
	f.store.SetErrors(errs)
	if f.onValidateErrors != nil {
		f.onValidateErrors(errs.Failed())
	}
}

func (f *Form) mergeErrors(errs model.ErrorState) model.ErrorState {
	merged := f.store.Errors()
	for name, err := range errs {
		merged[name] = err
	}
	return merged
}

func (f *Form) firstErrorField() string {
	for _, name := range f.discovery.Order {
		if f.store.LocalError(name) != nil {
			return name
		}
	}
	return ""
}
