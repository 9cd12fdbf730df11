package render

import "github.com/goliatone/go-formstate/pkg/form"

// RenderOptions carry per-request data hosts apply before presenting a form.
type RenderOptions struct {
	// Action and Method describe where an HTML form posts to.
	Action string
	Method string
	// Values pre-populates fields by name. Unknown names are ignored.
	Values map[string]any
	// Errors is a server error payload ({path: [messages]}). It is mapped
	// onto field names and installed as the form's external error override.
	Errors map[string][]string
	// Focus names the field an HTML host should autofocus, usually
	// form.SubmitResult.Focused after a rejected submission.
	Focus string
	// SubmitLabel is the text of the submit control.
	SubmitLabel string
	// Hidden fields are emitted alongside the visible controls.
	Hidden map[string]string
	// Locale and Translator localise labels and error codes.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Apply prefills values and installs server errors on a mounted form. It
// returns the form-level messages that could not be attached to a field.
func (o RenderOptions) Apply(f *form.Form) []string {
	for name, value := range o.Values {
		f.SetFieldValue(name, value)
	}
	if len(o.Errors) == 0 {
		return nil
	}
	mapping := MapErrorPayload(f.Root(), o.Errors)
	f.SetExternalErrors(mapping.ErrorState())
	return mapping.Form
}
