// Package web embeds the HTML templates, static assets and page content.
package web

import "embed"

// FS holds templates/, static/ and content/.
//
//go:embed templates static content
var FS embed.FS
