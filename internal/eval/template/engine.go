package template

import (
	"fmt"
	"regexp"

	"github.com/aymerick/raymond"
)

// placeholderPattern matches {param} placeholders
var placeholderPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Engine renders {param} templates through Handlebars
type Engine struct{}

// Template is a compiled {param} template. It is immutable and safe for
// concurrent use.
type Template struct {
	source string
	params []string
	tmpl   *raymond.Template
}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compile converts {param} placeholders into unescaped Handlebars
// expressions and parses the result.
func (e *Engine) Compile(source string) (*Template, error) {
	var params []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(source, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			params = append(params, m[1])
		}
	}

	handlebars := placeholderPattern.ReplaceAllString(source, "{{{$1}}}")
	tmpl, err := raymond.Parse(handlebars)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &Template{source: source, params: params, tmpl: tmpl}, nil
}

// Render compiles and renders source once
func (e *Engine) Render(source string, params map[string]string) (string, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}
	return tmpl.Render(params)
}

// ValidateTemplate validates a template without rendering it
func (e *Engine) ValidateTemplate(source string) error {
	_, err := e.Compile(source)
	return err
}

// Source returns the original {param} text
func (t *Template) Source() string {
	return t.source
}

// Params lists placeholder names in first-seen order
func (t *Template) Params() []string {
	return t.params
}

// Render substitutes params. Placeholders without a value render as
// <name> so gaps stay visible to the operator.
func (t *Template) Render(params map[string]string) (string, error) {
	data := make(map[string]interface{}, len(t.params))
	for _, p := range t.params {
		v, ok := params[p]
		if !ok || v == "" {
			v = "<" + p + ">"
		}
		data[p] = v
	}

	result, err := t.tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return result, nil
}
