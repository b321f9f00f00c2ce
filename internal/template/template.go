// Package template renders prompt templates with text/template.
package template

import (
	"bytes"
	"fmt"
	"text/template"
)

// Context holds all variables available to a prompt template.
type Context struct {
	// Sample fields
	Transcript string
	SampleID   string
	Role       string

	// PromptVersion is the name of the version being rendered.
	PromptVersion string

	// Vars holds the prompt file's user variables, read as {{.Vars.name}}.
	Vars map[string]string
}

// Template is a parsed prompt template, safe for concurrent Execute calls.
type Template struct {
	text string
	tmpl *template.Template
}

// Parse compiles text once so it can be executed per sample.
func Parse(name, text string) (*Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("template: parse: %w", err)
	}
	return &Template{text: text, tmpl: t}, nil
}

// Text returns the unrendered template source.
func (t *Template) Text() string {
	return t.text
}

// Execute renders the template against ctx.
func (t *Template) Execute(ctx *Context) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}
	return buf.String(), nil
}
