package dashboard

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"strings"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

const templatesDir = "templates"

// Renderer is the template contract the controller renders pages through.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer over the embedded
// templates. Each override FS is rooted like the templates directory
// (dashboard.html, widgets/order_list.html, ...) and shadows the embedded
// file of the same name; earlier overrides win.
func NewTemplateRenderer(overrides ...fs.FS) (Renderer, error) {
	layers := make(layeredFS, 0, len(overrides)+1)
	for _, override := range overrides {
		if override != nil {
			layers = append(layers, prefixedFS{prefix: templatesDir + "/", fsys: override})
		}
	}
	layers = append(layers, embeddedTemplates)
	return template.NewRenderer(
		template.WithFS(layers),
		template.WithBaseDir(templatesDir),
		template.WithExtension(".html"),
	)
}

// layeredFS opens a name from the first layer that has it.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// prefixedFS exposes fsys under prefix.
type prefixedFS struct {
	prefix string
	fsys   fs.FS
}

func (p prefixedFS) Open(name string) (fs.File, error) {
	rest, ok := strings.CutPrefix(name, p.prefix)
	if !ok || rest == "" {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return p.fsys.Open(rest)
}
