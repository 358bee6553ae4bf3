// Package web holds the form page served at /.
package web

import (
	_ "embed"
	"html/template"
)

//go:embed static/index.html
var index string

// Page renders both forms. It executes with a handler.FormPage, so a
// rejected submission comes back with its values filled in.
var Page = template.Must(template.New("index").Parse(index))
