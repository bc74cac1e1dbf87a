// Package views renders the html pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates
var templateFS embed.FS

const LAYOUT = "templates/layout.html"

type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page under templates/, each one combined with the layout.
// Pages are named by their path relative to templates/, e.g. "contacts/index.html".
func New() (*Renderer, error) {
	renderer := &Renderer{templates: map[string]*template.Template{}}

	err := fs.WalkDir(templateFS, "templates", func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || filePath == LAYOUT || path.Ext(filePath) != ".html" {
			return nil
		}

		page, err := template.New(path.Base(LAYOUT)).Funcs(funcs).ParseFS(templateFS, LAYOUT, filePath)
		if err != nil {
			return fmt.Errorf("could not parse %v: %v", filePath, err)
		}

		renderer.templates[strings.TrimPrefix(filePath, "templates/")] = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	return renderer, nil
}

// Render writes the page to w. Nothing is written if the page fails to render.
func (renderer *Renderer) Render(w io.Writer, name string, data interface{}) error {
	page, ok := renderer.templates[name]
	if !ok {
		return fmt.Errorf("no such template: %v", name)
	}

	buffer := new(bytes.Buffer)
	if err := page.ExecuteTemplate(buffer, "layout", data); err != nil {
		return fmt.Errorf("could not render %v: %v", name, err)
	}

	_, err := buffer.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"cost": func(value float64) string {
		return fmt.Sprintf("%.2f", value)
	},
}
