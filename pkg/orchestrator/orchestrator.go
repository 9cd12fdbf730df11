package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
	"github.com/goliatone/go-formstate/pkg/schema"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that rewrites the tree before the
// form is mounted.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithOpenAPILoader injects the loader used for OpenAPI sources.
func WithOpenAPILoader(loader *openapi.Loader) Option {
	return func(o *Orchestrator) {
		o.openapi = loader
	}
}

// WithFormsFS supplies form documents looked up by Request.FormID when the
// request names no document path.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithLogger sets the logger handed to mounted forms.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator resolves a form tree, mounts it and renders it.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	openapi         *openapi.Loader
	formsFS         fs.FS
	forms           *schema.Store
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator. Missing dependencies get the built-in
// implementations: the vanilla and tui renderers and a default OpenAPI
// loader.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where a tree comes from and how to render it. Exactly one
// source applies, checked in field order: Tree, OpenAPIPath, FormsPath, then
// FormID against the configured forms filesystem.
type Request struct {
	Tree *model.Node

	OpenAPIPath string
	OperationID string

	FormsPath string
	FormID    string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to its default renderer.
	Renderer string

	// FormOptions are appended to the options the orchestrator derives.
	FormOptions []form.Option

	RenderOptions render.RenderOptions
}

// Resolved is a tree plus the chrome its source declared.
type Resolved struct {
	Root        model.Node
	ClassName   string
	SubmitLabel string
}

// Resolve loads and transforms the tree named by the request.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (Resolved, error) {
	if ctx == nil {
		return Resolved{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	var out Resolved
	switch {
	case req.Tree != nil:
		out.Root = req.Tree.Clone()
	case req.OpenAPIPath != "":
		if req.OperationID == "" {
			return Resolved{}, errors.New("orchestrator: operation id is required")
		}
		doc, err := o.openapi.LoadFile(ctx, req.OpenAPIPath)
		if err != nil {
			return Resolved{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		out.Root, err = doc.FormTree(req.OperationID)
		if err != nil {
			return Resolved{}, fmt.Errorf("orchestrator: build tree: %w", err)
		}
	default:
		doc, err := o.formDocument(req)
		if err != nil {
			return Resolved{}, err
		}
		out = Resolved{Root: doc.Root, ClassName: doc.ClassName, SubmitLabel: doc.SubmitLabel}
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &out.Root); err != nil {
			return Resolved{}, fmt.Errorf("orchestrator: transform tree: %w", err)
		}
	}
	return out, nil
}

// Build resolves the tree and mounts a form over it. Renderers that expose a
// focus registry are wired as the form's Focuser.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*form.Form, render.Renderer, error) {
	f, renderer, _, err := o.build(ctx, req)
	return f, renderer, err
}

// Generate builds the form and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	f, renderer, resolved, err := o.build(ctx, req)
	if err != nil {
		return nil, err
	}
	opts := req.RenderOptions
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = resolved.SubmitLabel
	}

	output, err := renderer.Render(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) build(ctx context.Context, req Request) (*form.Form, render.Renderer, Resolved, error) {
	if err := o.initialiseErr; err != nil {
		return nil, nil, Resolved{}, err
	}
	resolved, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, nil, Resolved{}, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, nil, Resolved{}, err
	}

	opts := []form.Option{form.WithLogger(o.logger)}
	if resolved.ClassName != "" {
		opts = append(opts, form.WithClassName(resolved.ClassName))
	}
	if focusable, ok := renderer.(interface{ Focuser() form.Focuser }); ok {
		opts = append(opts, form.WithFocuser(focusable.Focuser()))
	}
	opts = append(opts, req.FormOptions...)

	f := form.New(resolved.Root, opts...)
	if err := f.Mount(); err != nil {
		return nil, nil, Resolved{}, fmt.Errorf("orchestrator: mount form: %w", err)
	}
	return f, renderer, resolved, nil
}

func (o *Orchestrator) formDocument(req Request) (schema.Form, error) {
	if req.FormID == "" {
		return schema.Form{}, errors.New("orchestrator: a tree, an OpenAPI operation or a form id is required")
	}

	store := o.forms
	if req.FormsPath != "" {
		loaded, err := schema.LoadFile(req.FormsPath)
		if err != nil {
			return schema.Form{}, fmt.Errorf("orchestrator: load forms: %w", err)
		}
		store = loaded
	}
	if store.Empty() {
		return schema.Form{}, errors.New("orchestrator: no form documents configured")
	}
	doc, ok := store.Form(req.FormID)
	if !ok {
		return schema.Form{}, fmt.Errorf("orchestrator: form %q not found", req.FormID)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.openapi == nil {
		o.openapi = openapi.NewLoader(openapi.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(html)
		}
		o.registry.MustRegister(tui.New(tui.WithLogger(o.logger)))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.formsFS != nil {
		store, err := schema.LoadFS(o.formsFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			return
		}
		o.forms = store
	}
}
