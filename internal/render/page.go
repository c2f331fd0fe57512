// Package render turns a document into the two-column A4 page, in read or
// edit mode, and exports it as Markdown.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"cv-editor/internal/cv"
	"cv-editor/internal/richtext"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/cv.css
var pageCSS string

//go:embed static/editor.js
var editorJS string

// Primary is the brand color of the page.
const Primary = "#7B2882"

var templates = template.Must(template.New("cv").Funcs(template.FuncMap{
	"icon":    func(i Icon, size int, color string) template.HTML { return i.SVG(size, color) },
	"glyph":   glyph,
	"css":     func() template.CSS { return template.CSS(pageCSS) },
	"js":      func() template.JS { return template.JS(editorJS) },
	"primary": func() string { return Primary },
	"dict":    dict,
}).ParseFS(templateFS, "templates/*.tmpl"))

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func toolbarControls() []ToolbarButton {
	out := make([]ToolbarButton, 0, len(richtext.Controls))
	for _, c := range richtext.Controls {
		out = append(out, ToolbarButton{
			Command: string(c.Command),
			Title:   c.Title,
			Glyph:   glyph(c.Icon, 13, "white"),
		})
	}
	return out
}

// WritePage renders the full HTML document for doc.
func WritePage(w io.Writer, doc cv.Document, opts Options) error {
	return templates.ExecuteTemplate(w, "document", Build(doc, opts))
}

// WriteFragment renders only the page element, used to refresh the page in
// place after a commit.
func WriteFragment(w io.Writer, doc cv.Document, opts Options) error {
	return templates.ExecuteTemplate(w, "page", Build(doc, opts))
}

// PrintHTML renders the standalone read-mode document handed to the print
// surface.
func PrintHTML(doc cv.Document) (string, error) {
	var buf bytes.Buffer
	if err := WritePage(&buf, doc, Options{Print: true}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
