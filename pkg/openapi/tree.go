package openapi

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/model"
)

const (
	extensionPrefix     = "x-formstate-"
	validationExtension = extensionPrefix + "validation"
	labelExtension      = extensionPrefix + "label"
	placeholderExt      = extensionPrefix + "placeholder"
	widgetExtension     = extensionPrefix + "widget"
	orderExtension      = extensionPrefix + "order"
)

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// FormTree converts the request body of the operation into a form tree.
//
// Properties of nested objects are named by their dotted path so server
// error payloads keyed by path resolve against them. Properties render in the
// order given by x-formstate-order, then required properties in declaration
// order, then the rest alphabetically.
func (d *Document) FormTree(operationID string) (model.Node, error) {
	op, err := d.Operation(operationID)
	if err != nil {
		return model.Node{}, err
	}
	schema := requestSchema(op.op)
	if schema == nil {
		return model.Node{}, fmt.Errorf("openapi: operation %q has no request body schema", op.ID)
	}
	if !isType(schema, openapi3.TypeObject) && len(schema.Properties) == 0 && len(schema.AllOf) == 0 {
		return model.Node{}, fmt.Errorf("openapi: operation %q request body is not an object", op.ID)
	}

	b := builder{document: d, visiting: make(map[*openapi3.Schema]bool)}
	root := b.container("", schema)
	root.Label = schema.Title
	if root.Label == "" {
		root.Label = op.Summary
	}
	if len(root.Children) == 0 {
		return model.Node{}, fmt.Errorf("openapi: operation %q request body declares no fields", op.ID)
	}
	return root, nil
}

type builder struct {
	document *Document
	visiting map[*openapi3.Schema]bool
}

func (b builder) container(prefix string, schema *openapi3.Schema) model.Node {
	node := model.Container()
	b.visiting[schema] = true
	defer delete(b.visiting, schema)

	properties, required := flatten(schema)
	for _, name := range propertyOrder(schema, properties, required) {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		child, ok := b.property(joinPath(prefix, name), name, ref.Value, required[name])
		if !ok {
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node
}

func (b builder) property(path, name string, schema *openapi3.Schema, required bool) (model.Node, bool) {
	if b.visiting[schema] {
		b.document.logger.Debug("openapi: skipping recursive property", "property", path)
		return model.Node{}, false
	}

	switch {
	case isType(schema, openapi3.TypeObject) || len(schema.Properties) > 0:
		group := b.container(path, schema)
		group.Label = labelFor(name, schema)
		group.Help = schema.Description
		return group, len(group.Children) > 0
	case isType(schema, openapi3.TypeBoolean):
		node := model.Checkbox(path).WithLabel(labelFor(name, schema))
		node.Help = schema.Description
		if checked, ok := schema.Default.(bool); ok {
			node.Checked = checked
		}
		if kind := extensionString(schema, validationExtension); kind != "" || required {
			node = node.WithRequired(kind)
		}
		node.Metadata = metadataFor(schema)
		return node, true
	case isType(schema, openapi3.TypeArray):
		b.document.logger.Debug("openapi: skipping array property", "property", path)
		return model.Node{}, false
	default:
		node := model.Text(path).WithLabel(labelFor(name, schema))
		node.Help = schema.Description
		node.Format = schema.Format
		node.Placeholder = extensionString(schema, placeholderExt)
		if node.Placeholder == "" {
			if example, ok := schema.Example.(string); ok {
				node.Placeholder = example
			}
		}
		if value, ok := schema.Default.(string); ok {
			node.Value = value
		}
		if isType(schema, openapi3.TypeInteger) || isType(schema, openapi3.TypeNumber) {
			node.Format = "number"
		}

		kind := extensionString(schema, validationExtension)
		switch {
		case kind != "":
			node = node.WithRequired(kind)
		case required:
			node = node.WithRequired(kindForFormat(schema.Format))
		}
		node.Metadata = metadataFor(schema)
		return node, true
	}
}

// flatten merges allOf members into one property set.
func flatten(schema *openapi3.Schema) (openapi3.Schemas, map[string]bool) {
	properties := make(openapi3.Schemas)
	required := make(map[string]bool)
	var merge func(s *openapi3.Schema)
	merge = func(s *openapi3.Schema) {
		if s == nil {
			return
		}
		for _, member := range s.AllOf {
			if member != nil {
				merge(member.Value)
			}
		}
		for name, ref := range s.Properties {
			properties[name] = ref
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	merge(schema)
	return properties, required
}

func propertyOrder(schema *openapi3.Schema, properties openapi3.Schemas, required map[string]bool) []string {
	out := make([]string, 0, len(properties))
	seen := make(map[string]bool, len(properties))
	add := func(name string) {
		if _, ok := properties[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	if raw, ok := schema.Extensions[orderExtension].([]any); ok {
		for _, entry := range raw {
			if name, ok := entry.(string); ok {
				add(name)
			}
		}
	}
	for _, name := range schema.Required {
		add(name)
	}
	var rest []string
	for name := range properties {
		if !seen[name] && !required[name] {
			rest = append(rest, name)
		}
	}
	// Required names contributed by allOf members.
	for name := range required {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return out
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func kindForFormat(format string) string {
	switch strings.ToLower(format) {
	case "email":
		return "EMAIL"
	case "password":
		return "PASSWORD"
	default:
		return ""
	}
}

func metadataFor(schema *openapi3.Schema) map[string]string {
	widget := extensionString(schema, widgetExtension)
	if widget == "" {
		return nil
	}
	return map[string]string{"widget": widget}
}

func labelFor(name string, schema *openapi3.Schema) string {
	if label := extensionString(schema, labelExtension); label != "" {
		return label
	}
	if schema.Title != "" {
		return schema.Title
	}
	return humanize(name)
}

// humanize turns "repeat_password" or "firstName" into "Repeat password" and
// "First name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && i > 0:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func extensionString(schema *openapi3.Schema, key string) string {
	if schema == nil {
		return ""
	}
	value, _ := schema.Extensions[key].(string)
	return strings.TrimSpace(value)
}

func isType(schema *openapi3.Schema, typ string) bool {
	return schema != nil && schema.Type != nil && schema.Type.Is(typ)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
