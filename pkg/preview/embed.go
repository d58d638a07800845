package preview

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded layout templates. Callers with custom
// layouts can supply their own fs.FS via WithFS instead.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
