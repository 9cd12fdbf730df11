// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MountForm builds and mounts a form, failing the test on configuration
// errors.
func MountForm(t *testing.T, root model.Node, options ...form.Option) *form.Form {
	t.Helper()

	f := form.New(root, options...)
	if err := f.Mount(); err != nil {
		t.Fatalf("mount form: %v", err)
	}
	return f
}

// LoadTree reads a form document and returns the tree registered under id.
func LoadTree(t *testing.T, path, id string) model.Node {
	t.Helper()

	store, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	doc, ok := store.Form(id)
	if !ok {
		t.Fatalf("form %q not found in %s (have %v)", id, path, store.IDs())
	}
	return doc.Root
}

// Fill sets every value on a mounted form.
func Fill(f *form.Form, values map[string]any) {
	for name, value := range values {
		f.SetFieldValue(name, value)
	}
}

// AssertValues fails the test when the form's values differ from want.
func AssertValues(t *testing.T, f *form.Form, want model.Values) {
	t.Helper()
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
