// Package docs renders static HTML documentation from the component
// manifest: one index grouped by layer plus one detail page per record.
// It is a read-only consumer of the manifest and performs no
// validation.
package docs

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// DefaultOutDir is the project-relative documentation output directory.
const DefaultOutDir = "docs/registry"

// Generator writes documentation pages into an output directory.
type Generator struct {
	outDir string
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator creates a generator writing into outDir.
func NewGenerator(outDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{outDir: outDir, logger: logger, now: time.Now}
}

type layerSection struct {
	Layer   registry.Layer
	Records []registry.ComponentRecord
}

type indexData struct {
	Generated time.Time
	Total     int
	Sections  []layerSection
}

type dependencyLink struct {
	Name string
	// Href is the detail page of the component this dependency resolves
	// to, or "" when it is not a registered component.
	Href string
}

type detailData struct {
	Record       registry.ComponentRecord
	UsageSnippet string
	Dependencies []dependencyLink
}

// Generate writes index.html plus one page per record. Existing files
// are overwritten; stale pages for removed records are not cleaned up.
func (g *Generator) Generate(store *registry.Store) error {
	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}

	records := store.List()

	index := indexData{Generated: g.now(), Total: len(records)}
	for _, layer := range registry.AllLayers() {
		index.Sections = append(index.Sections, layerSection{
			Layer:   layer,
			Records: store.ListByLayer(layer),
		})
	}
	if err := g.render("index.html", indexTmpl, index); err != nil {
		return err
	}

	for _, rec := range records {
		data := detailData{
			Record:       rec,
			UsageSnippet: UsageSnippet(rec),
			Dependencies: dependencyLinks(store, rec),
		}
		if err := g.render(rec.Name+".html", detailTmpl, data); err != nil {
			return err
		}
	}

	g.logger.Info("documentation generated", "dir", g.outDir, "pages", len(records)+1)
	return nil
}

func (g *Generator) render(name string, tmpl *template.Template, data any) error {
	f, err := os.Create(filepath.Join(g.outDir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// dependencyLinks resolves each dependency file to a registered
// component's page where possible.
func dependencyLinks(store *registry.Store, rec registry.ComponentRecord) []dependencyLink {
	links := make([]dependencyLink, 0, len(rec.Dependencies))
	for _, dep := range rec.Dependencies {
		link := dependencyLink{Name: dep}
		base := strings.TrimSuffix(filepath.Base(dep), filepath.Ext(dep))
		if _, ok := store.Get(base); ok {
			link.Href = base + ".html"
		}
		links = append(links, link)
	}
	return links
}

// UsageSnippet synthesizes a sample markup string for a record by
// wrapping its tag name and props.
func UsageSnippet(rec registry.ComponentRecord) string {
	var b strings.Builder
	b.WriteString("<" + rec.Name)
	for _, prop := range rec.Props {
		b.WriteString(fmt.Sprintf(" %s=%q", prop, "..."))
	}
	b.WriteString("></" + rec.Name + ">")
	return b.String()
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Component Registry</title>
</head>
<body>
  <h1>Component Registry</h1>
  <p>{{.Total}} components · generated {{.Generated.Format "2006-01-02 15:04"}}</p>
{{- range .Sections}}
  <h2>{{.Layer}} ({{len .Records}})</h2>
  <ul>
{{- range .Records}}
    <li><a href="{{.Name}}.html">{{.Name}}</a>{{with .Description}} — {{.}}{{end}}</li>
{{- end}}
  </ul>
{{- end}}
</body>
</html>
`))

var detailTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Record.Name}}</title>
</head>
<body>
  <p><a href="index.html">← registry</a></p>
  <h1>{{.Record.Name}}</h1>
  <p>{{.Record.Description}}</p>
  <dl>
    <dt>Layer</dt><dd>{{.Record.Layer}}</dd>
    <dt>Path</dt><dd>{{.Record.Path}}</dd>
    <dt>Version</dt><dd>{{.Record.Version}}</dd>
  </dl>

  <h2>Usage</h2>
  <pre><code>{{.UsageSnippet}}</code></pre>

  <h2>Properties</h2>
{{- if .Record.Props}}
  <table>
    <tr><th>Name</th></tr>
{{- range .Record.Props}}
    <tr><td>{{.}}</td></tr>
{{- end}}
  </table>
{{- else}}
  <p>None.</p>
{{- end}}

  <h2>BEM Classes</h2>
{{- if .Record.BEMClasses}}
  <ul>
{{- range .Record.BEMClasses}}
    <li><code>{{.}}</code></li>
{{- end}}
  </ul>
{{- else}}
  <p>None.</p>
{{- end}}

  <h2>Dependencies</h2>
{{- if .Dependencies}}
  <ul>
{{- range .Dependencies}}
    <li>{{if .Href}}<a href="{{.Href}}">{{.Name}}</a>{{else}}{{.Name}}{{end}}</li>
{{- end}}
  </ul>
{{- else}}
  <p>None.</p>
{{- end}}
</body>
</html>
`))
