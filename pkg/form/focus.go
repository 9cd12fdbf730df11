package form

// Focuser is the narrow capability the form uses to move input focus. The
// rendering layer implements it; the form only ever names fields.
type Focuser interface {
	RequestFocus(fieldID string) bool
}

// FocusHandle is a rendered control that can take focus.
type FocusHandle interface {
	Focus()
}

// FocusFunc adapts a function into a FocusHandle.
type FocusFunc func()

// Focus calls the underlying function.
func (fn FocusFunc) Focus() {
	fn()
}

// FocusRegistry maps field ids to focus handles registered by the renderer.
type FocusRegistry struct {
	handles map[string]FocusHandle
}

// NewFocusRegistry returns an empty registry.
func NewFocusRegistry() *FocusRegistry {
	return &FocusRegistry{handles: make(map[string]FocusHandle)}
}

// Register stores handle for fieldID, replacing any previous handle.
func (r *FocusRegistry) Register(fieldID string, handle FocusHandle) {
	if handle == nil {
		return
	}
	r.handles[fieldID] = handle
}

// Unregister drops the handle for fieldID.
func (r *FocusRegistry) Unregister(fieldID string) {
	delete(r.handles, fieldID)
}

// RequestFocus focuses the handle registered for fieldID and reports whether
// one existed.
func (r *FocusRegistry) RequestFocus(fieldID string) bool {
	if r == nil {
		return false
	}
	handle, ok := r.handles[fieldID]
	if !ok {
		return false
	}
	handle.Focus()
	return true
}

var _ Focuser = (*FocusRegistry)(nil)
