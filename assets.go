// Package uchiverify provides the embedded assets: HTML templates for
// the verification pages and the campus CSV datasets.
package uchiverify

import "embed"

//go:embed web/templates
var TemplateFS embed.FS

//go:embed data
var DataFS embed.FS
