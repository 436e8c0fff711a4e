package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

// Template names a mail body under templates/
type Template string

const (
	TemplateVerifyEmail     Template = "verify-email"
	TemplateVerifyLogin     Template = "verify-login"
	TemplateForgotPassword  Template = "forgot-password"
	TemplateResponseContact Template = "response-contact"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded templates
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &Renderer{templates: tpl}, nil
}

// Render fills the named template with data
func (r *Renderer) Render(name Template, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, string(name)+".html", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
