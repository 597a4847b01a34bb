// Package views holds the embedded page templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"autoreview/app/compare"
	"autoreview/app/site"
)

//go:embed layout.html shared/*.html pages/*.html static
var files embed.FS

// Page is the data every template receives.
type Page struct {
	Title string
	Path  string
	Site  *site.Site
	Data  interface{}
}

// Templates maps a page name to its parsed template set.
type Templates map[string]*template.Template

var funcs = template.FuncMap{
	"date":   func(t time.Time) string { return t.Format("January 2, 2006") },
	"price":  compare.FormatPrice,
	"active": site.Active,
}

// Load parses the layout and shared partials together with every page.
func Load() (Templates, error) {
	pages, err := files.ReadDir("pages")
	if err != nil {
		return nil, err
	}
	templates := make(Templates, len(pages))
	for _, entry := range pages {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "layout.html", "shared/*.html", "pages/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// Render executes the layout of page name with p.
func (t Templates) Render(w io.Writer, name string, p Page) error {
	tmpl, ok := t[name]
	if !ok {
		return fmt.Errorf("no template named %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", p)
}

// Static serves the embedded stylesheets and images. Mount it under /static/
// with the prefix stripped.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
