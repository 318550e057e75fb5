package outreach

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// MissingVariableError reports a placeholder referenced by a template that
// has no value. Rendering is all-or-nothing, so no partially substituted
// text ever leaves this package.
type MissingVariableError struct {
	Variable string
	Template string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing template variable %q in template %q", e.Variable, e.Template)
}

// Vars holds placeholder values for template rendering. An empty string is a
// valid value; only absent keys fail.
type Vars map[string]string

// Message is a rendered email.
type Message struct {
	Subject string
	Body    string
}

// Render substitutes every {placeholder} in the template's subject and body.
// The first placeholder without a value aborts the whole render.
func Render(t Template, vars Vars) (Message, error) {
	subject, err := substitute(t.Name, t.Subject, vars)
	if err != nil {
		return Message{}, err
	}
	body, err := substitute(t.Name, t.Body, vars)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: subject, Body: body}, nil
}

func substitute(name, text string, vars Vars) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		key := strings.Trim(m, "{}")
		val, ok := vars[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return val
	})
	if missing != "" {
		return "", &MissingVariableError{Variable: missing, Template: name}
	}
	return out, nil
}
