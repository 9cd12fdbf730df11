package vanilla

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

func signupTree() model.Node {
	return model.Container(
		model.Text("name").WithLabel("Name").WithRequired("NAME"),
		model.Text("email").WithLabel("Email").WithRequired("EMAIL"),
		model.Text("password").WithLabel("Password").WithRequired("PASSWORD"),
		model.Checkbox("remember").WithLabel("Remember <strong>me</strong>"),
	)
}

func mustRender(t *testing.T, r *Renderer, f *form.Form, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	if !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderer_RendersFieldsInDocumentOrder(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := form.New(signupTree(), form.WithClassName("signup"))

	html := mustRender(t, r, f, render.RenderOptions{
		Action: "/signup",
		Values: map[string]any{"name": "Alice", "password": "secret"},
	})

	assertContains(t, html,
		`class="form signup"`,
		`method="post"`,
		`action="/signup"`,
		`name="name" value="Alice"`,
		`type="email" id="field-email"`,
		`type="password" id="field-password"`,
		`type="checkbox" id="field-remember"`,
		`Remember <strong>me</strong>`,
		`>Submit</button>`,
	)
	assertNotContains(t, html, `value="secret"`, "form__field--invalid")

	name := strings.Index(html, `data-field="name"`)
	email := strings.Index(html, `data-field="email"`)
	remember := strings.Index(html, `data-field="remember"`)
	if !(name < email && email < remember) {
		t.Fatalf("fields out of order: name=%d email=%d remember=%d", name, email, remember)
	}
}

func TestRenderer_ShowsSubmissionErrorsAndFocus(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := form.New(signupTree())
	if err := f.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	f.SetFieldValue("name", "Alice")
	f.SetFieldValue("email", "nope")
	f.SetFieldValue("password", "secret")

	result, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Accepted() {
		t.Fatalf("expected rejected submission")
	}

	html := mustRender(t, r, f, render.RenderOptions{Focus: result.Focused})
	assertContains(t, html,
		`form__field--email form__field--invalid`,
		`aria-invalid="true" aria-describedby="field-email-error" autofocus`,
		`data-code="ERROR_EMAIL">must be a valid email address</p>`,
	)
	if strings.Count(html, "autofocus") != 1 {
		t.Fatalf("expected exactly one autofocus\n%s", html)
	}
}

func TestRenderer_ServerErrorsAndHiddenFields(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := form.New(signupTree())

	html := mustRender(t, r, f, render.RenderOptions{
		Method: "patch",
		Hidden: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok")),
		Errors: map[string][]string{
			"/email": {"already registered"},
			"_form":  {"try again later"},
		},
	})

	assertContains(t, html,
		`name="_method" value="PATCH"`,
		`value="tok"`,
		`<li>try again later</li>`,
		`data-code="ERROR_SERVER">already registered</p>`,
	)
}

func TestRenderer_LoadingDisablesControls(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := form.New(signupTree(), form.WithLoading(true))

	html := mustRender(t, r, f, render.RenderOptions{})
	assertContains(t, html, `aria-busy="true"`, `<button type="submit" disabled>`)
	if strings.Count(html, " disabled") < 5 {
		t.Fatalf("expected every control to be disabled\n%s", html)
	}
}

func TestRenderer_NestedContainersAndSanitising(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	group := model.Container(
		model.Text("street").WithLabel(`Street <script>alert(1)</script>`),
	)
	group.Label = "Address"
	root := model.Container(model.Text("name"), group)
	root.Children[1].Children[0].Help = `See <em>docs</em><img src=x onerror=alert(1)>`

	html := mustRender(t, r, form.New(root), render.RenderOptions{})
	assertContains(t, html, `<legend>Address</legend>`, `</fieldset>`, `See <em>docs</em>`)
	assertNotContains(t, html, "<script>", "onerror")
}

func TestRenderer_CustomTemplate(t *testing.T) {
	files := fstest.MapFS{
		TemplateName: &fstest.MapFile{Data: []byte(`{% for item in form.items %}[{{ item.name }}]{% endfor %}`)},
	}
	r, err := New(WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	html := mustRender(t, r, form.New(signupTree()), render.RenderOptions{})
	if html != "[name][email][password][remember]" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderer_PropagatesConfigurationErrors(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := form.New(model.Container(model.Text("name").WithRequired("BOGUS")))

	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); err == nil {
		t.Fatalf("expected mount error")
	}
}
