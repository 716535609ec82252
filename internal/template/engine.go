// Package template renders user-supplied Go templates over command output,
// e.g. for status bars that show the active profile.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine parses and executes output templates. Templates have access to the
// sprig function library.
type Engine struct {
	funcs template.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{funcs: sprig.TxtFuncMap()}
}

// Parse validates tmpl without executing it.
func (e *Engine) Parse(tmpl string) (*template.Template, error) {
	t, err := template.New("output").Funcs(e.funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return t, nil
}

// Render executes tmpl against data. A trailing newline is added when the
// template does not end with one.
func (e *Engine) Render(tmpl string, data interface{}) (string, error) {
	t, err := e.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	out := buf.String()
	if out == "" || out[len(out)-1] != '\n' {
		out += "\n"
	}
	return out, nil
}
