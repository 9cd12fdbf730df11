package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	widgets    *widgets.Registry
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithWidgets overrides the widget registry used to pick controls.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// Renderer renders a mounted form as an HTML <form> using field props from
// the form engine: current values, displayed errors and the loading flag.
type Renderer struct {
	template *pongo2.Template
	widgets  *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer, parsing the entry template eagerly.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), widgets: widgets.NewRegistry()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	set := pongo2.NewSet("formstate", pongo2.NewFSLoader(cfg.templateFS))
	tmpl, err := set.FromFile(TemplateName)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: load template: %w", err)
	}

	return &Renderer{template: tmpl, widgets: cfg.widgets}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "vanilla"
}

// ContentType reports the markup type.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render mounts the form if needed, applies prefill values and server errors
// from options, and renders the result.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("vanilla renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("vanilla renderer: form is required")
	}
	if !f.Mounted() {
		if err := f.Mount(); err != nil {
			return nil, fmt.Errorf("vanilla renderer: mount form: %w", err)
		}
	}

	formErrors := opts.Apply(f)

	method := strings.ToLower(strings.TrimSpace(opts.Method))
	hidden := opts.Hidden
	if method == "" {
		method = "post"
	}
	if method != "get" && method != "post" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden("_method", strings.ToUpper(method)))
		method = "post"
	}

	submitLabel := opts.SubmitLabel
	if submitLabel == "" {
		submitLabel = "Submit"
	}

	root := f.Root().Clone()
	render.LocalizeTree(&root, opts)

	data := pongo2.Context{
		"form": map[string]any{
			"class":        f.ClassName(),
			"action":       opts.Action,
			"method":       method,
			"loading":      f.Loading(),
			"hidden":       render.SortedHiddenFields(hidden),
			"errors":       formErrors,
			"submit_label": submitLabel,
			"items":        r.items(f, root, opts),
		},
	}

	out, err := r.template.ExecuteBytes(data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: execute template: %w", err)
	}
	return out, nil
}

// items flattens the tree into template items. Nested containers open and
// close fieldsets; repeated field names render once.
func (r *Renderer) items(f *form.Form, root model.Node, opts render.RenderOptions) []map[string]any {
	var out []map[string]any
	seen := make(map[string]struct{})

	var walk func(node model.Node, depth int)
	walk = func(node model.Node, depth int) {
		switch {
		case node.Kind == model.NodeContainer:
			if depth > 0 {
				out = append(out, map[string]any{"open": true, "label": sanitizeLabelMarkup(node.Label)})
			}
			for _, child := range node.Children {
				walk(child, depth+1)
			}
			if depth > 0 {
				out = append(out, map[string]any{"close": true})
			}
		case node.Kind.IsField():
			if _, dup := seen[node.Name]; dup {
				return
			}
			seen[node.Name] = struct{}{}
			if item := r.fieldItem(f, node, opts); item != nil {
				out = append(out, item)
			}
		}
	}
	walk(root, 0)
	return out
}

func (r *Renderer) fieldItem(f *form.Form, node model.Node, opts render.RenderOptions) map[string]any {
	props, ok := f.Props(node.Name)
	if !ok {
		return nil
	}
	widget, _ := r.widgets.Resolve(node)

	item := map[string]any{
		"id":          "field-" + node.Name,
		"name":        node.Name,
		"widget":      widget,
		"input_type":  inputType(widget),
		"label":       sanitizeLabelMarkup(node.DisplayLabel()),
		"help":        sanitizeLabelMarkup(node.Help),
		"placeholder": node.Placeholder,
		"value":       props.Text(),
		"checked":     props.Checked(),
		"required":    node.Required,
		"disabled":    props.Disabled,
		"focus":       opts.Focus != "" && opts.Focus == node.Name,
	}
	if props.Error != nil {
		item["error"] = render.ErrorMessage(props.Error, opts)
		item["error_code"] = props.Error.Code
	}
	return item
}

func inputType(widget string) string {
	switch widget {
	case widgets.WidgetEmail:
		return "email"
	case widgets.WidgetPassword:
		return "password"
	default:
		return "text"
	}
}
