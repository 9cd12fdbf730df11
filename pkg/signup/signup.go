// Package signup holds the account signup form: its field tree, the decoded
// request, and the server-side checks whose failures are echoed back to the
// form as external errors.
package signup

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Field names.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldRepeatPassword = "repeat-password"
	FieldTerms          = "terms"
)

// Server error codes.
const (
	ErrorInvalidName     = "INVALID_NAME"
	ErrorInvalidEmail    = "INVALID_EMAIL"
	ErrorInvalidPassword = "INVALID_PASSWORD"
)

// TreeOption customises the signup tree.
type TreeOption func(*treeConfig)

type treeConfig struct {
	terms string
}

// WithTerms appends a required terms checkbox with the given label.
func WithTerms(label string) TreeOption {
	return func(cfg *treeConfig) {
		cfg.terms = label
	}
}

// Tree returns the signup form tree. Credentials are grouped so hosts can
// render them as a fieldset.
func Tree(options ...TreeOption) model.Node {
	var cfg treeConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	credentials := model.Container(
		model.Text(FieldPassword).WithLabel("Password").WithFormat("password").WithRequired(string(validation.KindPassword)),
		model.Text(FieldRepeatPassword).WithLabel("Repeat password").WithFormat("password").WithRequired(string(validation.KindRepeatPassword)),
	)
	credentials.Label = "Credentials"

	root := model.Container(
		model.Text(FieldName).WithLabel("Full name").WithRequired(string(validation.KindName)),
		model.Text(FieldEmail).WithLabel("Email").WithFormat("email").WithRequired(string(validation.KindEmail)),
		credentials,
	)
	if cfg.terms != "" {
		root.Children = append(root.Children,
			model.Checkbox(FieldTerms).WithLabel(cfg.terms).WithRequired(string(validation.KindCheckbox)),
		)
	}
	return root
}

// Request is the payload the signup endpoint receives.
type Request struct {
	Name     string `mapstructure:"name" json:"name"`
	Email    string `mapstructure:"email" json:"email"`
	Password string `mapstructure:"password" json:"password"`
}

// Decode builds a Request from submitted form values. Fields the endpoint
// does not take, such as the repeated password, are dropped.
func Decode(values model.Values) (Request, error) {
	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &req,
		TagName: "mapstructure",
	})
	if err != nil {
		return Request{}, fmt.Errorf("signup: decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(values)); err != nil {
		return Request{}, fmt.Errorf("signup: decode values: %w", err)
	}
	return req, nil
}

var serverRules = []struct {
	field string
	code  string
	check validation.Validator
}{
	{FieldName, ErrorInvalidName, validation.All(validation.Length(2, 55, ""), validation.Alpha(""))},
	{FieldEmail, ErrorInvalidEmail, validation.Email("")},
	{FieldPassword, ErrorInvalidPassword, validation.Length(5, 200, "")},
}

// Check runs the endpoint's own validation and returns an error payload keyed
// by field, or nil when the request is acceptable. Messages carry the error
// code so clients can translate them.
func Check(req Request) map[string][]string {
	values := model.Values{
		FieldName:     req.Name,
		FieldEmail:    req.Email,
		FieldPassword: req.Password,
	}

	var payload map[string][]string
	for _, rule := range serverRules {
		if err := rule.check.Validate(values[rule.field], values); err != nil {
			if payload == nil {
				payload = make(map[string][]string)
			}
			payload[rule.field] = append(payload[rule.field], rule.code)
		}
	}
	return payload
}
