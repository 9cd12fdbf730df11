package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Kind names a validator in the registry. Field nodes reference kinds through
// their Validation attribute.
type Kind string

// Built-in validator kinds.
const (
	KindDefault        Kind = "DEFAULT"
	KindName           Kind = "NAME"
	KindEmail          Kind = "EMAIL"
	KindPassword       Kind = "PASSWORD"
	KindRepeatPassword Kind = "REPEAT_PASSWORD"
	KindCheckbox       Kind = "CHECKBOX"
)

// ParseKind normalises a declared validation name. Empty names select
// KindDefault; matching is case-insensitive and accepts dashes.
func ParseKind(raw string) Kind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return KindDefault
	}
	trimmed = strings.ReplaceAll(trimmed, "-", "_")
	return Kind(strings.ToUpper(trimmed))
}

// Validator maps a field value, together with the whole form, to an error
// descriptor or nil. Implementations must be pure.
type Validator interface {
	Validate(value any, form model.Values) *model.FieldError
}

// Func adapts a function into a Validator.
type Func func(value any, form model.Values) *model.FieldError

// Validate calls the underlying function.
func (fn Func) Validate(value any, form model.Values) *model.FieldError {
	return fn(value, form)
}

// Registry resolves validator kinds to implementations. Unknown kinds are
// rejected when a form mounts, never while it validates.
type Registry struct {
	mu         sync.RWMutex
	validators map[Kind]Validator
}

// NewRegistry constructs a registry with the built-in validators registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without any validators.
func NewEmptyRegistry() *Registry {
	return &Registry{validators: make(map[Kind]Validator)}
}

// Register adds a validator under kind. Duplicate kinds return an error.
func (r *Registry) Register(kind Kind, validator Validator) error {
	if validator == nil {
		return errors.New("validation: validator is required")
	}
	kind = ParseKind(string(kind))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.validators[kind]; exists {
		return fmt.Errorf("validation: validator %q already registered", kind)
	}
	r.validators[kind] = validator
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind Kind, validator Validator) {
	if err := r.Register(kind, validator); err != nil {
		panic(err)
	}
}

// Resolve returns the validator registered for the declared name. An empty
// name resolves KindDefault.
func (r *Registry) Resolve(name string) (Validator, error) {
	kind := ParseKind(name)
	if r == nil {
		return nil, &ConfigurationError{Kind: string(kind), Err: ErrUnknownValidator}
	}

	r.mu.RLock()
	validator, ok := r.validators[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigurationError{Kind: string(kind), Err: ErrUnknownValidator}
	}
	return validator, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind Kind) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.validators[ParseKind(string(kind))]
	return ok
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.validators))
	for kind := range r.validators {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(KindDefault, Required(CodeEmpty))
	r.MustRegister(KindName, All(
		Length(2, 55, CodeName),
		Alpha(CodeName),
	))
	r.MustRegister(KindEmail, Email(CodeEmail))
	r.MustRegister(KindPassword, Length(5, 200, CodePassword))
	r.MustRegister(KindRepeatPassword, MatchesField("password", CodeRepeatPassword))
	r.MustRegister(KindCheckbox, Checked(CodeCheckbox))
}
