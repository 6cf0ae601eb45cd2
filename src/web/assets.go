package web

import (
	"embed"
	"html/template"

	"redox_tutor/src/tutor"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"formula": tutor.RenderFormula,
	"signed":  tutor.SignedState,
}

func parsePages() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
