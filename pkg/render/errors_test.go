package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

func signupTree() model.Node {
	return model.Container(
		model.Text("name").WithRequired("NAME"),
		model.Container(
			model.Text("email").WithRequired("EMAIL"),
			model.Text("password").WithRequired("PASSWORD"),
		),
	)
}

func TestMapErrorPayload_PathStyles(t *testing.T) {
	payload := map[string][]string{
		"/body/name":                 {"Name is required"},
		"data.attributes.email":      {"Email invalid", " Email invalid "},
		"$.body.password[0]":         {"Password too short"},
		"non_field_errors":           {"Form level error"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"":                           {"Unscoped form error"},
		"name":                       {"  "},
	}

	mapped := render.MapErrorPayload(signupTree(), payload)

	wantFields := map[string][]string{
		"name":     {"Name is required"},
		"email":    {"Email invalid"},
		"password": {"Password too short"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMapping_ErrorState(t *testing.T) {
	mapping := render.ErrorMapping{Fields: map[string][]string{"email": {"taken", "blocked"}}}
	got := mapping.ErrorState()
	want := model.ErrorState{"email": {Code: render.CodeServer, Message: "taken; blocked"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("error state mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOptions_ApplyInstallsServerErrors(t *testing.T) {
	f := form.New(signupTree())
	if err := f.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	formErrs := render.RenderOptions{
		Values: map[string]any{"email": "alice@example.com", "ghost": "x"},
		Errors: map[string][]string{"body.email": {"already registered"}, "form": {"try again"}},
	}.Apply(f)

	if diff := cmp.Diff([]string{"try again"}, formErrs); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got := f.GetFieldValue("email"); got != "alice@example.com" {
		t.Fatalf("expected prefilled email, got %v", got)
	}
	if got := f.GetFieldError("email"); got == nil || got.Message != "already registered" {
		t.Fatalf("expected server error for email, got %+v", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
}

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeTreeAndErrors(t *testing.T) {
	tree := model.Container(
		model.Node{Kind: model.NodeText, Name: "name", Label: "Name", Metadata: map[string]string{"labelKey": "FULL_NAME"}},
		model.Node{Kind: model.NodeText, Name: "email", Label: "Email", Metadata: map[string]string{"labelKey": "MISSING"}},
	)
	opts := render.RenderOptions{Locale: "es", Translator: stubTranslator{"FULL_NAME": "Nombre", "ERROR_NAME": "Nombre inválido"}}

	render.LocalizeTree(&tree, opts)
	if tree.Children[0].Label != "Nombre" || tree.Children[1].Label != "Email" {
		t.Fatalf("unexpected labels: %q %q", tree.Children[0].Label, tree.Children[1].Label)
	}

	if got := render.ErrorMessage(&model.FieldError{Code: "ERROR_NAME", Message: "bad"}, opts); got != "Nombre inválido" {
		t.Fatalf("unexpected translated message %q", got)
	}
	if got := render.ErrorMessage(&model.FieldError{Code: "ERROR_EMAIL", Message: "bad email"}, opts); got != "bad email" {
		t.Fatalf("expected fallback message, got %q", got)
	}
	if got := render.ErrorMessage(nil, opts); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{"_method": "POST"}, render.CSRFToken("_csrf", "tok"), render.Hidden("", "x"))
	got := render.SortedHiddenFields(merged)
	want := []render.HiddenField{{Name: "_csrf", Value: "tok"}, {Name: "_method", Value: "POST"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOptions_ApplyCoercesTypedValues(t *testing.T) {
	tree := model.Container(
		model.Text("name").WithRequired("NAME"),
		model.Text("password").WithRequired("PASSWORD"),
		model.Text("repeat-password").WithRequired("REPEAT_PASSWORD"),
		model.Checkbox("terms").WithRequired("CHECKBOX"),
	)
	f := form.New(tree)
	if err := f.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	doc := []byte("name: 42\npassword: 1234\nrepeat-password: 1234\nterms: \"true\"\n")
	var values map[string]any
	if err := yaml.Unmarshal(doc, &values); err != nil {
		t.Fatalf("decode values: %v", err)
	}
	render.RenderOptions{Values: values}.Apply(f)

	want := model.Values{
		"name":            "42",
		"password":        "1234",
		"repeat-password": "1234",
		"terms":           true,
	}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	result, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Accepted() {
		t.Fatalf("expected typed values to be rejected")
	}
	got := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		got = append(got, name)
	}
	if diff := cmp.Diff([]string{"name", "password"}, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("failed fields mismatch (-want +got):\n%s", diff)
	}
}
