package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Error codes produced by the built-in validators.
const (
	CodeEmpty          = "ERROR_EMPTY"
	CodeName           = "ERROR_NAME"
	CodeEmail          = "ERROR_EMAIL"
	CodePassword       = "ERROR_PASSWORD"
	CodeRepeatPassword = "ERROR_REPEAT_PASSWORD"
	CodeCheckbox       = "ERROR_CHECKBOX"
)

// Rules collects simple string constraints. Zero values disable a rule.
type Rules struct {
	Code     string
	Required bool
	MinLen   int
	MaxLen   int
	Pattern  *regexp.Regexp
}

// Validate implements Validator for string values. A missing value only
// fails Required; any other non-string value is rejected.
func (r Rules) Validate(value any, _ model.Values) *model.FieldError {
	if value == nil {
		if r.Required {
			return fieldError(r.Code, "required")
		}
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return fieldError(r.Code, "must be text")
	}

	if r.Required && strings.TrimSpace(text) == "" {
		return fieldError(r.Code, "required")
	}
	length := utf8.RuneCountInString(text)
	if r.MinLen > 0 && length < r.MinLen {
		return fieldError(r.Code, fmt.Sprintf("must be at least %d characters", r.MinLen))
	}
	if r.MaxLen > 0 && length > r.MaxLen {
		return fieldError(r.Code, fmt.Sprintf("must be at most %d characters", r.MaxLen))
	}
	if r.Pattern != nil && !r.Pattern.MatchString(text) {
		return fieldError(r.Code, fmt.Sprintf("must match %s", r.Pattern.String()))
	}
	return nil
}

// Required rejects empty text and unchecked boxes.
func Required(code string) Validator {
	return Func(func(value any, _ model.Values) *model.FieldError {
		if isEmpty(value) {
			return fieldError(code, "required")
		}
		return nil
	})
}

// Length bounds the rune count of a text value. A max of zero means unbounded.
func Length(min, max int, code string) Validator {
	return Rules{Code: code, MinLen: min, MaxLen: max}
}

// Pattern requires the text value to match expr. It panics on an invalid
// expression, like regexp.MustCompile.
func Pattern(expr, code string) Validator {
	return Rules{Code: code, Pattern: regexp.MustCompile(expr)}
}

// Alpha accepts letters and whitespace only.
func Alpha(code string) Validator {
	return Func(func(value any, _ model.Values) *model.FieldError {
		text, ok := value.(string)
		if !ok && value != nil {
			return fieldError(code, "must be text")
		}
		for _, r := range text {
			if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
				return fieldError(code, "must contain only letters")
			}
		}
		return nil
	})
}

// Email accepts a single bare address such as "a@b.co".
func Email(code string) Validator {
	return Func(func(value any, _ model.Values) *model.FieldError {
		text, _ := value.(string)
		text = strings.TrimSpace(text)
		if text == "" {
			return fieldError(code, "required")
		}
		addr, err := mail.ParseAddress(text)
		if err != nil || addr.Address != text || addr.Name != "" {
			return fieldError(code, "must be a valid email address")
		}
		at := strings.LastIndex(text, "@")
		if at <= 0 || !strings.Contains(text[at+1:], ".") {
			return fieldError(code, "must be a valid email address")
		}
		return nil
	})
}

// Checked requires a checkbox to be ticked.
func Checked(code string) Validator {
	return Func(func(value any, _ model.Values) *model.FieldError {
		if checked, _ := value.(bool); !checked {
			return fieldError(code, "must be checked")
		}
		return nil
	})
}

// MatchesField requires the value to equal the current value of another
// field. It is the reason validators receive the whole form.
func MatchesField(other, code string) Validator {
	return Func(func(value any, form model.Values) *model.FieldError {
		if isEmpty(value) || value != form[other] {
			return fieldError(code, fmt.Sprintf("must match %s", other))
		}
		return nil
	})
}

// All runs validators in order and returns the first error.
func All(validators ...Validator) Validator {
	return Func(func(value any, form model.Values) *model.FieldError {
		for _, validator := range validators {
			if validator == nil {
				continue
			}
			if err := validator.Validate(value, form); err != nil {
				return err
			}
		}
		return nil
	})
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case bool:
		return !typed
	default:
		return false
	}
}

func fieldError(code, message string) *model.FieldError {
	return &model.FieldError{Code: code, Message: message}
}
