package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Renderer hosts a mounted form: it derives field props, presents them and,
// for interactive hosts, feeds user events back into the form. The returned
// bytes are the rendered markup or the collected submission.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
