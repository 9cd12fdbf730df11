package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Transformer rewrites a tree before the form is mounted. Implementations can
// relabel fields, inject metadata or change validation kinds.
type Transformer interface {
	Transform(ctx context.Context, root *model.Node) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, root *model.Node) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, root *model.Node) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, root)
}

// Chain runs transformers in order and stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, root *model.Node) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, root); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies declarative patches loaded from a JSON or YAML
// document, keyed by field name:
//
//	{
//	  "metadata": {"theme": "compact"},
//	  "fields": {
//	    "email": {"label": "Work email", "validation": "EMAIL"},
//	    "nickname": {"rename": "handle", "metadata": {"widget": "textarea"}}
//	  }
//	}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Metadata map[string]string      `json:"metadata" yaml:"metadata"`
	Fields   map[string]presetPatch `json:"fields" yaml:"fields"`
}

type presetPatch struct {
	Label       string            `json:"label" yaml:"label"`
	Help        string            `json:"help" yaml:"help"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Validation  string            `json:"validation" yaml:"validation"`
	Required    *bool             `json:"required" yaml:"required"`
	Rename      string            `json:"rename" yaml:"rename"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		document = presetDocument{}
		if yamlErr := yaml.Unmarshal(data, &document); yamlErr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", yamlErr)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches. Every patched field must exist.
func (t *PresetTransformer) Transform(ctx context.Context, root *model.Node) error {
	if root == nil {
		return errors.New("preset transformer: tree is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Metadata) > 0 {
		root.Metadata = mergeStringMap(root.Metadata, t.document.Metadata)
	}
	for name, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(root, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		applyPatch(field, patch)
	}
	return nil
}

func applyPatch(field *model.Node, patch presetPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Help != "" {
		field.Help = patch.Help
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Validation != "" {
		field.Validation = patch.Validation
		field.Required = true
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		field.Name = rename
	}
}

// findField returns the first field declared under name, matching the node
// the form would bind state to.
func findField(node *model.Node, name string) *model.Node {
	if node.Kind.IsField() && node.Name == name {
		return node
	}
	for i := range node.Children {
		if found := findField(&node.Children[i], name); found != nil {
			return found
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
