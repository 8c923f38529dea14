package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	s, ok := value.(string)
	if value == nil || (ok && strings.TrimSpace(s) == "") {
		return fallback
	}
	return value
}

var funcMap = htmpl.FuncMap{
	"now":     func() time.Time { return time.Now().UTC() },
	"upper":   strings.ToUpper,
	"default": defaultFn,
}

// RenderHTML loads and renders a named template file from the embedded FS.
func RenderHTML(name string, data any) (string, error) {
	filename := name + ".tmpl"
	t, err := htmpl.New(filename).Funcs(funcMap).ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Subject returns the mail subject for a template name.
func Subject(template string) string {
	switch template {
	case "reset_password":
		return "Reset your password"
	default:
		return "Notification"
	}
}
