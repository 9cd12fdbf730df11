package schema_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestLoadFile_YAML(t *testing.T) {
	store, err := schema.LoadFile("testdata/forms/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	signup, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup form missing, have %v", store.IDs())
	}
	if signup.ClassName != "signup" || signup.SubmitLabel != "Create account" {
		t.Fatalf("form chrome not parsed: %#v", signup)
	}
	if signup.Source.Kind() != schema.SourceKindFile {
		t.Fatalf("unexpected source kind %q", signup.Source.Kind())
	}

	if diff := cmp.Diff([]string{"name", "email", "password", "repeat-password", "remember"}, model.FieldNames(signup.Root)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	email := signup.Root.Children[1]
	if !email.Required || email.Validation != "EMAIL" {
		t.Fatalf("validation should imply required: %#v", email)
	}
	if email.Metadata["labelKey"] != "signup.email" {
		t.Fatalf("metadata not parsed: %#v", email.Metadata)
	}
	remember := signup.Root.Children[4]
	if remember.Kind != model.NodeCheckbox || !remember.Checked || remember.Required {
		t.Fatalf("checkbox not parsed: %#v", remember)
	}
}

func TestLoadFS_MixedDocuments(t *testing.T) {
	store, err := schema.LoadFS(fstest.MapFS{
		"forms/signup.yaml":  &fstest.MapFile{Data: mustRead(t, "testdata/forms/signup.yaml")},
		"forms/profile.json": &fstest.MapFile{Data: mustRead(t, "testdata/forms/profile.json")},
		"forms/README.md":    &fstest.MapFile{Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"profile", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	profile, _ := store.Form("profile")
	group := profile.Root.Children[1]
	if group.Kind != model.NodeContainer || group.Label != "Address" || len(group.Children) != 2 {
		t.Fatalf("group not parsed: %#v", group)
	}
	if !group.Children[1].Required {
		t.Fatalf("weakly typed required flag not decoded: %#v", group.Children[1])
	}
}

func TestLoadedTreeDrivesForm(t *testing.T) {
	store, err := schema.LoadFile("testdata/forms/profile.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	profile, _ := store.Form("profile")

	f := form.New(profile.Root)
	if err := f.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	want := model.Values{"nickname": "al", "street": "", "city": "", "terms": false}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("seeded values mismatch (-want +got):\n%s", diff)
	}

	result, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Focused != "street" {
		t.Fatalf("expected focus on street, got %q", result.Focused)
	}
	if _, ok := result.Errors["terms"]; !ok {
		t.Fatalf("expected terms error, got %#v", result.Errors)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "  ", want: "is empty"},
		{name: "not a document", doc: "- a\n- b\n", want: "invalid JSON or YAML"},
		{name: "no forms", doc: "forms: {}\n", want: "defines no forms"},
		{name: "unknown key", doc: "forms:\n  a:\n    fields:\n      - name: x\n        colour: red\n", want: "colour"},
		{name: "unknown kind", doc: "forms:\n  a:\n    fields:\n      - kind: slider\n        name: x\n", want: `unknown field kind "slider"`},
		{name: "missing name", doc: "forms:\n  a:\n    fields:\n      - label: X\n", want: "field name is required"},
		{name: "named group", doc: "forms:\n  a:\n    fields:\n      - kind: group\n        name: g\n", want: "groups cannot be named"},
		{name: "nested under field", doc: "forms:\n  a:\n    fields:\n      - kind: text\n        name: x\n        fields:\n          - name: y\n", want: "cannot hold nested fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.doc), schema.SourceInline(tt.name))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFS_DuplicateForm(t *testing.T) {
	doc := []byte("forms:\n  a:\n    fields:\n      - name: x\n")
	_, err := schema.LoadFS(fstest.MapFS{
		"one.yaml": &fstest.MapFile{Data: doc},
		"two.yml":  &fstest.MapFile{Data: doc},
	})
	if err == nil || !strings.Contains(err.Error(), `duplicate form "a"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUnknownValidationSurfacesOnMount(t *testing.T) {
	forms, err := schema.Parse([]byte("forms:\n  a:\n    fields:\n      - name: x\n        validation: ZIP\n"), schema.SourceInline("zip"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	err = form.New(forms[0].Root).Mount()
	var cfgErr *validation.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "x" {
		t.Fatalf("expected configuration error for x, got %v", err)
	}
}
