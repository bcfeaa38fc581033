package site

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed static/*.tmpl
var staticFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"signed": func(v float64) string { return fmt.Sprintf("%+.1f", v) },
		"fixed":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"inc":    func(i int) int { return i + 1 },
	}).ParseFS(staticFS, "static/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return t, nil
}
