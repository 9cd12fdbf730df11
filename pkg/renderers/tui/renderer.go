package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Renderer runs a form as a terminal session. It is the form's event loop:
// every answered prompt becomes a change followed by a blur, and the session
// ends with a submission that either succeeds or moves the cursor back to the
// field the form asked to focus.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	widgets      *widgets.Registry
	maxAttempts  int
	theme        Theme
	logger       *slog.Logger

	focus  *form.FocusRegistry
	cursor int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		widgets:      widgets.NewRegistry(),
		theme:        Theme{ErrorPrefix: "✗ "},
		logger:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		focus:        form.NewFocusRegistry(),
		cursor:       -1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Focuser returns the focus capability to hand to form.WithFocuser. The
// renderer registers one handle per field while a session runs.
func (r *Renderer) Focuser() form.Focuser {
	return r.focus
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every field once, then submits until the form accepts. The
// accepted values are returned serialized in the configured output format.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("tui: form is required")
	}
	if !f.Mounted() {
		if err := f.Mount(); err != nil {
			return nil, fmt.Errorf("tui: mount form: %w", err)
		}
	}
	if f.Loading() {
		return nil, ErrBusy
	}

	for _, msg := range opts.Apply(f) {
		r.info(ctx, r.theme.ErrorPrefix+msg)
	}

	order := f.Order()
	index := make(map[string]int, len(order))
	for i, name := range order {
		i := i
		index[name] = i
		r.focus.Register(name, form.FocusFunc(func() { r.cursor = i }))
	}
	defer func() {
		for _, name := range order {
			r.focus.Unregister(name)
		}
	}()

	for _, name := range order {
		if err := r.promptField(ctx, f, name, opts); err != nil {
			return nil, err
		}
	}

	for attempt := 1; ; attempt++ {
		r.cursor = -1
		result, err := f.Submit()
		if err != nil {
			return nil, err
		}
		if result.Accepted() {
			r.logger.Debug("tui: submission accepted", "attempts", attempt)
			return r.serialize(result.Values)
		}

		r.logger.Debug("tui: submission rejected", "attempt", attempt, "focus", result.Focused)
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return nil, ErrTooManyAttempts
		}
		r.info(ctx, r.theme.InfoPrefix+fmt.Sprintf("Please fix %d field(s) before submitting.", len(result.Errors)))

		if r.cursor < 0 {
			// The form was wired to another focuser; follow the result.
			pos, ok := index[result.Focused]
			if !ok {
				return nil, fmt.Errorf("tui: rejected submission without a focus target")
			}
			r.cursor = pos
		}
		if err := r.promptField(ctx, f, order[r.cursor], opts); err != nil {
			return nil, err
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, name string, opts render.RenderOptions) error {
	props, ok := f.Props(name)
	if !ok {
		return fmt.Errorf("tui: unknown field %q", name)
	}
	node := props.Node
	label := node.DisplayLabel()
	help := node.Help
	if err := displayError(f, name); err != nil {
		r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("%s: %s", label, render.ErrorMessage(err, opts)))
	}

	widget, _ := r.widgets.Resolve(node)
	switch widget {
	case widgets.WidgetCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: props.Checked(), Help: help})
		if err != nil {
			return err
		}
		props.OnChange(form.ChangeEvent{Checked: checked})
	case widgets.WidgetPassword:
		text, err := r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return err
		}
		props.OnChange(form.ChangeEvent{Value: text})
	case widgets.WidgetTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: props.Text(), Help: help})
		if err != nil {
			return err
		}
		props.OnChange(form.ChangeEvent{Value: text})
	default:
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: props.Text(), Help: help})
		if err != nil {
			return err
		}
		props.OnChange(form.ChangeEvent{Value: text})
	}
	props.OnBlur()

	if err := displayError(f, name); err != nil {
		r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", label, render.ErrorMessage(err, opts)))
	}
	return nil
}

// displayError prefers the form's error for name and falls back to the local
// one, so a server error map never hides why a field was sent back.
func displayError(f *form.Form, name string) *model.FieldError {
	if err := f.GetFieldError(name); err != nil {
		return err
	}
	return f.Errors()[name]
}

func (r *Renderer) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Warn("tui: info message failed", "error", err)
	}
}

func (r *Renderer) serialize(values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values model.Values) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, fmt.Sprint(value))
	}
	return flattened.Encode()
}

func prettyPrint(values model.Values) string {
	var b strings.Builder
	for _, key := range values.Keys() {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
