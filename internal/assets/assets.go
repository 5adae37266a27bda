// Package assets embeds the README templates and record schemas shipped with coursekit.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

// Template paths, relative to GetTemplatesFS.
const (
	GroupReadmeTemplate     = "readme/group.md.hbs"
	LessonReadmeTemplate    = "readme/lesson.md.hbs"
	ContainerReadmeTemplate = "readme/container.md.hbs"
)

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetTemplate returns an embedded template by its path under embedded_templates.
func GetTemplate(path string) ([]byte, error) {
	return fs.ReadFile(GetTemplatesFS(), path)
}
