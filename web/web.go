package web

import "embed"

// Static holds the embedded web/static directory.
// Handlers access it via fs.Sub(Static, "static").
//
//go:embed static
var Static embed.FS

// Templates holds the html/template page files under web/templates.
//
//go:embed templates/*.html
var Templates embed.FS
