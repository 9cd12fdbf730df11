package model

import (
	"sort"
	"strings"
)

// NodeKind tags the variant held by a Node.
type NodeKind string

const (
	NodeContainer NodeKind = "container"
	NodeText      NodeKind = "text"
	NodeCheckbox  NodeKind = "checkbox"
)

// IsField reports whether the kind carries a form value.
func (k NodeKind) IsField() bool {
	return k == NodeText || k == NodeCheckbox
}

// Node is one entry of a declarative form tree. Only Text and Checkbox nodes
// become fields; Container nodes are walked for their Children and otherwise
// ignored. Value is the initial text, Checked the initial checkbox state.
type Node struct {
	Kind        NodeKind          `json:"kind" yaml:"kind"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Value       string            `json:"value,omitempty" yaml:"value,omitempty"`
	Checked     bool              `json:"checked,omitempty" yaml:"checked,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Validation  string            `json:"validation,omitempty" yaml:"validation,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Children    []Node            `json:"children,omitempty" yaml:"children,omitempty"`
}

// Text builds a text field node.
func Text(name string) Node {
	return Node{Kind: NodeText, Name: name}
}

// Checkbox builds a checkbox field node.
func Checkbox(name string) Node {
	return Node{Kind: NodeCheckbox, Name: name}
}

// Container groups children without contributing a value.
func Container(children ...Node) Node {
	return Node{Kind: NodeContainer, Children: children}
}

// WithRequired marks the node required and sets its validation kind. An empty
// kind leaves the default validator in charge.
func (n Node) WithRequired(kind string) Node {
	n.Required = true
	n.Validation = kind
	return n
}

// WithLabel sets the display label.
func (n Node) WithLabel(label string) Node {
	n.Label = label
	return n
}

// WithValue sets the initial text value.
func (n Node) WithValue(value string) Node {
	n.Value = value
	return n
}

// WithChecked sets the initial checkbox state.
func (n Node) WithChecked(checked bool) Node {
	n.Checked = checked
	return n
}

// WithFormat sets a presentation format such as "email" or "password".
func (n Node) WithFormat(format string) Node {
	n.Format = format
	return n
}

// InitialValue returns the value a field seeds the form with: the declared
// text (or "") for text fields and the checked flag for checkboxes. Containers
// return nil.
func (n Node) InitialValue() any {
	switch n.Kind {
	case NodeText:
		return n.Value
	case NodeCheckbox:
		return n.Checked
	default:
		return nil
	}
}

// DisplayLabel falls back to the field name when no label is set.
func (n Node) DisplayLabel() string {
	if label := strings.TrimSpace(n.Label); label != "" {
		return label
	}
	return n.Name
}

// Clone returns a deep copy of the node and its children.
func (n Node) Clone() Node {
	if n.Metadata != nil {
		meta := make(map[string]string, len(n.Metadata))
		for key, value := range n.Metadata {
			meta[key] = value
		}
		n.Metadata = meta
	}
	if n.Children != nil {
		children := make([]Node, len(n.Children))
		for i, child := range n.Children {
			children[i] = child.Clone()
		}
		n.Children = children
	}
	return n
}

// Walk visits n and every descendant depth-first in document order.
func Walk(n Node, visit func(Node)) {
	visit(n)
	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// FieldNames returns the names of every field node in document order,
// including duplicates.
func FieldNames(root Node) []string {
	var names []string
	Walk(root, func(n Node) {
		if n.Kind.IsField() {
			names = append(names, n.Name)
		}
	})
	return names
}

// Values maps field names to their current value (string or bool).
type Values map[string]any

// Clone returns a shallow copy; values are immutable scalars.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// String returns the text value stored under name, or "".
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns the checkbox value stored under name, or false.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Keys returns the field names in lexical order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FieldError describes why a field value is invalid. Code is a stable
// identifier (for example ERROR_EMAIL) that hosts can translate; Message is a
// human readable fallback.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Error implements error so field errors can be surfaced by prompt drivers.
func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// ErrorState maps field names to their validation outcome. A nil entry means
// the field was validated and passed.
type ErrorState map[string]*FieldError

// Clone returns a shallow copy of the state.
func (s ErrorState) Clone() ErrorState {
	out := make(ErrorState, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}

// HasErrors reports whether any entry carries an error.
func (s ErrorState) HasErrors() bool {
	for _, err := range s {
		if err != nil {
			return true
		}
	}
	return false
}

// Failed returns only the entries that carry an error.
func (s ErrorState) Failed() ErrorState {
	out := make(ErrorState)
	for key, err := range s {
		if err != nil {
			out[key] = err
		}
	}
	return out
}

// Messages flattens the failed entries into the {field: [message]} shape used
// by server payloads.
func (s ErrorState) Messages() map[string][]string {
	out := make(map[string][]string)
	for key, err := range s {
		if err != nil {
			out[key] = []string{err.Error()}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
