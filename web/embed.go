package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// TemplateFS provides access to the embedded admin templates.
var TemplateFS fs.FS = templateFS

// StaticFS provides access to the embedded admin assets.
var StaticFS fs.FS = staticFS
