// Package web embeds the admin screen templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the stylesheet and script served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the page templates and their shared layout.
func TemplatesFS() fs.FS { return sub("templates") }

// sub panics on error. Both directories are embedded at build time.
func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return f
}
