package form

import (
	"errors"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ValidationMap maps field names to the validator resolved at discovery.
// Only required fields appear.
type ValidationMap map[string]validation.Validator

// Discovery is the outcome of walking a field tree.
type Discovery struct {
	Values      model.Values
	Validations ValidationMap
	// Order lists field names in document order, each once.
	Order []string
	// Nodes keeps the declaring node of every field.
	Nodes map[string]model.Node
}

var errEmptyFieldName = errors.New("field name is required")

// Discover walks root depth-first and seeds the initial values and validation
// map. The first node declaring a name wins; later duplicates are visited but
// do not reseed. Unknown validation kinds fail with a
// *validation.ConfigurationError.
func Discover(root model.Node, registry *validation.Registry) (Discovery, error) {
	if registry == nil {
		registry = validation.NewRegistry()
	}

	d := Discovery{
		Values:      make(model.Values),
		Validations: make(ValidationMap),
		Nodes:       make(map[string]model.Node),
	}

	var walkErr error
	model.Walk(root, func(node model.Node) {
		if walkErr != nil || !node.Kind.IsField() {
			return
		}
		if node.Name == "" {
			walkErr = &validation.ConfigurationError{Err: errEmptyFieldName}
			return
		}
		if _, seen := d.Values[node.Name]; seen {
			return
		}

		d.Values[node.Name] = node.InitialValue()
		d.Nodes[node.Name] = node
		d.Order = append(d.Order, node.Name)

		if !node.Required {
			return
		}
		validator, err := registry.Resolve(node.Validation)
		if err != nil {
			var cfgErr *validation.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.Field = node.Name
			}
			walkErr = err
			return
		}
		d.Validations[node.Name] = validator
	})
	if walkErr != nil {
		return Discovery{}, walkErr
	}

	return d, nil
}
