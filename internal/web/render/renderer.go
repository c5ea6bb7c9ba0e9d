package render

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{"admin", "portal", "confirm_delete", "error"}

// Renderer holds the parsed HTML templates the web client renders its views from.
// Every value interpolated into a template is escaped by html/template.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New parses the embedded templates into a new renderer
func New() (*Renderer, error) {
	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/fragments/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		page, err := template.New("layout.gohtml").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.gohtml",
			"templates/fragments/*.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %q: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{
		pages:     pages,
		fragments: fragments,
	}, nil
}
