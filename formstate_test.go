package formstate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestGenerateHTML(t *testing.T) {
	out, err := formstate.GenerateHTML(context.Background(), "testdata/openapi.yaml", "signup", formstate.RenderOptions{Action: "/signup"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `action="/signup"`) {
		t.Fatalf("missing action\n%s", out)
	}
}

func TestGenerateHTMLFromDocument(t *testing.T) {
	out, err := formstate.GenerateHTMLFromDocument(context.Background(), "testdata/forms.yaml", "contact", formstate.RenderOptions{
		Values: map[string]any{"name": "Ada"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `name="name" value="Ada"`) {
		t.Fatalf("prefill missing\n%s", out)
	}
}

func TestNewForm(t *testing.T) {
	f, err := formstate.NewForm(model.Container(model.Text("name").WithRequired("")))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if !f.Mounted() {
		t.Fatalf("expected mounted form")
	}

	_, err = formstate.NewForm(model.Container(model.Text("x").WithRequired("NOPE")))
	if !errors.Is(err, validation.ErrUnknownValidator) {
		t.Fatalf("expected unknown validator, got %v", err)
	}
}
