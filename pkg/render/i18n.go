package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the string used when a key cannot be
// translated. args carries {"default": fallback}.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

const (
	labelKeyHint = "labelKey"
	helpKeyHint  = "helpKey"
)

// LocalizeTree rewrites labels and help texts of every node that declares a
// labelKey/helpKey metadata hint. Nodes without hints keep their text.
func LocalizeTree(root *model.Node, opts RenderOptions) {
	if root == nil {
		return
	}
	if key := strings.TrimSpace(root.Metadata[labelKeyHint]); key != "" {
		root.Label = translate(opts.Locale, key, root.Label, opts.Translator, opts.OnMissing)
	}
	if key := strings.TrimSpace(root.Metadata[helpKeyHint]); key != "" {
		root.Help = translate(opts.Locale, key, root.Help, opts.Translator, opts.OnMissing)
	}
	for i := range root.Children {
		LocalizeTree(&root.Children[i], opts)
	}
}

// ErrorMessage returns the text shown for a field error: the translation of
// its code when available, else its message, else the code itself.
func ErrorMessage(err *model.FieldError, opts RenderOptions) string {
	if err == nil {
		return ""
	}
	if err.Code == "" || err.Code == CodeServer {
		return err.Error()
	}
	return translate(opts.Locale, err.Code, err.Error(), opts.Translator, opts.OnMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	var err error
	if t == nil {
		err = ErrMissingTranslator
	} else {
		var result string
		result, err = t.Translate(locale, key)
		if err == nil && strings.TrimSpace(result) != "" {
			return result
		}
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
