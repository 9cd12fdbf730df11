// Package formstate is the convenience entry point of the module. It mounts
// form trees from inline values, form documents or OpenAPI operations and
// renders them through the orchestrator.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/render"
)

// RenderOptions describes per-request overrides that renderers use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Node aliases the field tree node.
type Node = model.Node

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewForm builds and mounts a form over root.
func NewForm(root Node, options ...form.Option) (*form.Form, error) {
	f := form.New(root, options...)
	if err := f.Mount(); err != nil {
		return nil, err
	}
	return f, nil
}

// GenerateHTML renders the request body of an OpenAPI operation as an HTML
// form.
func GenerateHTML(ctx context.Context, openapiPath, operationID string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		OpenAPIPath:   openapiPath,
		OperationID:   operationID,
		Renderer:      "vanilla",
		RenderOptions: opts,
	})
}

// GenerateHTMLFromDocument renders a form declared in a form document.
func GenerateHTMLFromDocument(ctx context.Context, formsPath, formID string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		FormsPath:     formsPath,
		FormID:        formID,
		Renderer:      "vanilla",
		RenderOptions: opts,
	})
}
