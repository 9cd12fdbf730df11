package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	textAreas    []string
	prompts      []string
	infoMessages []string
	inputPos     int
	passPos      int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func signupTree() model.Node {
	return model.Container(
		model.Text("name").WithLabel("Name").WithRequired("NAME"),
		model.Text("email").WithLabel("Email").WithRequired("EMAIL"),
		model.Text("password").WithLabel("Password").WithRequired("PASSWORD"),
		model.Checkbox("remember").WithLabel("Remember me"),
	)
}

func TestRender_AcceptsValidSession(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice", "alice@example.com"},
		passwords: []string{"secret"},
		confirm:   []bool{true},
	}
	r := New(WithPromptDriver(driver))

	var submitted model.Values
	f := form.New(signupTree(),
		form.WithFocuser(r.Focuser()),
		form.WithOnSubmit(func(values model.Values) { submitted = values }),
	)

	out, err := r.Render(context.Background(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret",
		"remember": true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Values(want), submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Name", "Email", "Password", "Remember me"}, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RejectedSubmissionReturnsToFocusedField(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice", "nope", "alice@example.com"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	f := form.New(signupTree(), form.WithFocuser(r.Focuser()))

	out, err := r.Render(context.Background(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantPrompts := []string{"Name", "Email", "Password", "Remember me", "Email"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	wantOut := "email=alice@example.com\nname=Alice\npassword=secret\nremember=false\n"
	if string(out) != wantOut {
		t.Fatalf("unexpected output:\n%s", out)
	}

	var sawInvalid bool
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "Invalid Email") {
			sawInvalid = true
		}
	}
	if !sawInvalid {
		t.Fatalf("expected invalid email message, got %v", driver.infoMessages)
	}
}

func TestRender_FallsBackToResultFocusWithoutFocuser(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"A", "alice@example.com", "Alice"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r := New(WithPromptDriver(driver))
	f := form.New(signupTree())

	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := driver.prompts[len(driver.prompts)-1]; got != "Name" {
		t.Fatalf("expected to re-prompt name, got %q", got)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"A", "alice@example.com"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r := New(WithPromptDriver(driver), WithMaxAttempts(1))
	f := form.New(signupTree(), form.WithFocuser(r.Focuser()))

	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_ShowsServerErrors(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice", "alice@example.com"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	f := form.New(signupTree(), form.WithFocuser(r.Focuser()))

	out, err := r.Render(context.Background(), f, render.RenderOptions{
		Errors: map[string][]string{
			"body.email": {"already registered"},
			"form":       {"signup failed"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "email=alice%40example.com&name=Alice&password=secret&remember=false" {
		t.Fatalf("unexpected output %q", out)
	}

	joined := strings.Join(driver.infoMessages, "\n")
	if !strings.Contains(joined, "signup failed") || !strings.Contains(joined, "already registered") {
		t.Fatalf("expected server errors in output, got %v", driver.infoMessages)
	}
}

func TestRender_LoadingFormIsBusy(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	f := form.New(signupTree(), form.WithLoading(true))
	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestRender_PropagatesDriverErrors(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	f := form.New(signupTree())
	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestRender_ShowsLocalErrorsUnderServerErrors(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"A", "alice@example.com", "Alice"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r := New(WithPromptDriver(driver))
	f := form.New(signupTree(), form.WithFocuser(r.Focuser()))

	_, err := r.Render(context.Background(), f, render.RenderOptions{
		Errors: map[string][]string{"email": {"already registered"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantPrompts := []string{"Name", "Email", "Password", "Remember me", "Name"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	var sawInvalid, sawReprompt bool
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "Invalid Name: ") {
			sawInvalid = true
		}
		if strings.Contains(msg, "Name: ") && !strings.Contains(msg, "Invalid") {
			sawReprompt = true
		}
	}
	if !sawInvalid || !sawReprompt {
		t.Fatalf("expected local name errors while server errors are set, got %v", driver.infoMessages)
	}
}
