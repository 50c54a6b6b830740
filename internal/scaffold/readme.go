package scaffold

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ormstarter/ormstarter/internal/registry"
)

// ReadmeFileName is the generated documentation file.
const ReadmeFileName = "README.md"

//go:embed templates/README.md.tmpl
var readmeTemplate string

var readmeTmpl = template.Must(template.New("README.md").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
	// section normalizes a multi-line block to end in exactly one newline.
	"section": func(s string) string {
		s = strings.TrimRight(s, "\n")
		if s == "" {
			return ""
		}
		return s + "\n"
	},
}).Parse(readmeTemplate))

// RenderReadme renders the README for a template.
func RenderReadme(d *registry.Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering %s for %s: %w", ReadmeFileName, d.Key, err)
	}
	return buf.Bytes(), nil
}
