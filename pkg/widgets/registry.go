package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetEmail    = "email"
	WidgetPassword = "password"
	WidgetTextArea = "textarea"
	WidgetCheckbox = "checkbox"
)

// Matcher decides whether a widget should present the supplied node.
type Matcher func(node model.Node) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects the widget for field nodes based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. Text nodes nobody claims resolve to WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a node. An explicit metadata "widget"
// hint is honoured before matcher evaluation. Containers never resolve.
func (r *Registry) Resolve(node model.Node) (string, bool) {
	if !node.Kind.IsField() {
		return "", false
	}
	if explicit := strings.TrimSpace(node.Metadata["widget"]); explicit != "" {
		return explicit, true
	}
	if r != nil {
		r.mu.RLock()
		rules := append([]rule(nil), r.rules...)
		r.mu.RUnlock()

		sort.SliceStable(rules, func(i, j int) bool {
			if rules[i].priority == rules[j].priority {
				return rules[i].order < rules[j].order
			}
			return rules[i].priority > rules[j].priority
		})
		for _, entry := range rules {
			if entry.match(node) {
				return entry.name, true
			}
		}
	}
	if node.Kind == model.NodeCheckbox {
		return WidgetCheckbox, true
	}
	return WidgetText, true
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(node model.Node) bool {
		return node.Kind == model.NodeCheckbox
	})

	r.Register(WidgetPassword, 80, func(node model.Node) bool {
		if node.Kind != model.NodeText {
			return false
		}
		if strings.EqualFold(node.Format, "password") {
			return true
		}
		validation := strings.ToUpper(node.Validation)
		return validation == "PASSWORD" || validation == "REPEAT_PASSWORD"
	})

	r.Register(WidgetEmail, 70, func(node model.Node) bool {
		if node.Kind != model.NodeText {
			return false
		}
		return strings.EqualFold(node.Format, "email") || strings.EqualFold(node.Validation, "EMAIL")
	})

	r.Register(WidgetTextArea, 60, func(node model.Node) bool {
		return node.Kind == model.NodeText && strings.EqualFold(node.Format, "textarea")
	})
}
