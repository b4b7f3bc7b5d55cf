package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"resume-builder/resume/model"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

// levelDots is the length of the skill level indicator.
const levelDots = 4

var pageTemplate = template.Must(
	template.New("page.html.tmpl").
		Funcs(template.FuncMap{
			"dots": dots,
			"css":  func(s string) template.CSS { return template.CSS(s) },
		}).
		ParseFS(templateFS, "templates/page.html.tmpl"),
)

func dots(rank int) []bool {
	out := make([]bool, levelDots)
	for i := 0; i < rank && i < levelDots; i++ {
		out[i] = true
	}
	return out
}

type pageView struct {
	Document
	Contact []string
}

// HTML renders doc as a self-contained page.
func HTML(doc Document) ([]byte, error) {
	view := pageView{
		Document: doc,
		Contact:  doc.Header.Contact(doc.Variant == model.TemplateModern),
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
