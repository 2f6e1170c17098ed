package assets

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var FS embed.FS

// DashboardTemplate parses the dashboard page.
func DashboardTemplate() (*template.Template, error) {
	return template.ParseFS(FS, "templates/dashboard.html")
}
