package schema

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formstate/pkg/model"
)

type documentFile struct {
	Forms map[string]formSpec `mapstructure:"forms"`
}

type formSpec struct {
	ClassName   string            `mapstructure:"className"`
	SubmitLabel string            `mapstructure:"submitLabel"`
	Label       string            `mapstructure:"label"`
	Metadata    map[string]string `mapstructure:"metadata"`
	Fields      []fieldSpec       `mapstructure:"fields"`
}

type fieldSpec struct {
	Kind        string            `mapstructure:"kind"`
	Name        string            `mapstructure:"name"`
	Label       string            `mapstructure:"label"`
	Placeholder string            `mapstructure:"placeholder"`
	Help        string            `mapstructure:"help"`
	Format      string            `mapstructure:"format"`
	Value       string            `mapstructure:"value"`
	Checked     bool              `mapstructure:"checked"`
	Required    bool              `mapstructure:"required"`
	Validation  string            `mapstructure:"validation"`
	Metadata    map[string]string `mapstructure:"metadata"`
	Fields      []fieldSpec       `mapstructure:"fields"`
}

// decodeDocument maps the loosely typed payload onto formSpec and fieldSpec.
// Unknown keys are rejected so typos surface at load time.
func decodeDocument(raw map[string]any, location string) (documentFile, error) {
	var doc documentFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return documentFile{}, fmt.Errorf("schema: decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return documentFile{}, fmt.Errorf("schema: decode %s: %w", location, err)
	}
	return doc, nil
}

func (s formSpec) node(path string) (model.Node, error) {
	root := model.Container()
	root.Label = s.Label
	root.Metadata = cloneMetadata(s.Metadata)
	for i, child := range s.Fields {
		node, err := child.node(fmt.Sprintf("%s.fields[%d]", path, i))
		if err != nil {
			return model.Node{}, err
		}
		root.Children = append(root.Children, node)
	}
	return root, nil
}

func (s fieldSpec) node(path string) (model.Node, error) {
	kind, err := s.kind()
	if err != nil {
		return model.Node{}, fmt.Errorf("schema: %s: %w", path, err)
	}

	node := model.Node{
		Kind:        kind,
		Name:        strings.TrimSpace(s.Name),
		Label:       s.Label,
		Placeholder: s.Placeholder,
		Help:        s.Help,
		Format:      s.Format,
		Metadata:    cloneMetadata(s.Metadata),
	}

	switch kind {
	case model.NodeContainer:
		if node.Name != "" {
			return model.Node{}, fmt.Errorf("schema: %s: groups cannot be named (%q)", path, node.Name)
		}
		for i, child := range s.Fields {
			childNode, err := child.node(fmt.Sprintf("%s.fields[%d]", path, i))
			if err != nil {
				return model.Node{}, err
			}
			node.Children = append(node.Children, childNode)
		}
		return node, nil
	case model.NodeCheckbox:
		node.Checked = s.Checked
	default:
		node.Value = s.Value
	}

	if len(s.Fields) > 0 {
		return model.Node{}, fmt.Errorf("schema: %s: field %q cannot hold nested fields", path, node.Name)
	}
	if node.Name == "" {
		return model.Node{}, fmt.Errorf("schema: %s: field name is required", path)
	}

	// A validation kind implies the field is required.
	node.Validation = strings.TrimSpace(s.Validation)
	node.Required = s.Required || node.Validation != ""
	return node, nil
}

func (s fieldSpec) kind() (model.NodeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s.Kind)) {
	case "":
		if len(s.Fields) > 0 {
			return model.NodeContainer, nil
		}
		return model.NodeText, nil
	case "text", "input":
		return model.NodeText, nil
	case "checkbox", "bool", "boolean":
		return model.NodeCheckbox, nil
	case "group", "container", "fieldset":
		return model.NodeContainer, nil
	default:
		return "", fmt.Errorf("unknown field kind %q", s.Kind)
	}
}

func cloneMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
