package form

import "github.com/goliatone/go-formstate/pkg/model"

// ChangeEvent carries the new state of a widget. Text widgets fill Value,
// checkboxes fill Checked.
type ChangeEvent struct {
	Value   string
	Checked bool
}

func (e ChangeEvent) valueFor(kind model.NodeKind) any {
	if kind == model.NodeCheckbox {
		return e.Checked
	}
	return e.Value
}

// FieldProps is what a rendered widget receives on each render pass.
type FieldProps struct {
	Name     string
	Node     model.Node
	Value    any
	Error    *model.FieldError
	Disabled bool
	OnChange func(ChangeEvent)
	OnBlur   func()
}

// Text returns the value as text; checkboxes render as "true"/"false".
func (p FieldProps) Text() string {
	switch value := p.Value.(type) {
	case string:
		return value
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Checked returns the value as a checkbox state.
func (p FieldProps) Checked() bool {
	checked, _ := p.Value.(bool)
	return checked
}

// Props derives the props for a single field.
func (f *Form) Props(name string) (FieldProps, bool) {
	if !f.mounted {
		return FieldProps{}, false
	}
	node, ok := f.discovery.Nodes[name]
	if !ok {
		return FieldProps{}, false
	}
	return FieldProps{
		Name:     name,
		Node:     node,
		Value:    f.store.GetFieldValue(name),
		Error:    f.store.GetFieldError(name),
		Disabled: f.loading,
		OnChange: func(event ChangeEvent) { f.HandleChange(name, event) },
		OnBlur:   func() { f.HandleBlur(name) },
	}, true
}

// Fields re-derives props for every field in discovery order. Hosts call it
// once per render pass.
func (f *Form) Fields() []FieldProps {
	if !f.mounted {
		return nil
	}
	out := make([]FieldProps, 0, len(f.discovery.Order))
	for _, name := range f.discovery.Order {
		props, _ := f.Props(name)
		out = append(out, props)
	}
	return out
}
