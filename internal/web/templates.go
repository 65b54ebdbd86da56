package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"
)

//go:embed templates
var files embed.FS

var funcs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
}

// Renderer holds the parsed page templates, each combined with the
// shared layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[path.Base(name)] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render writes the named page into w
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
