package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
)

type scaffoldCmd struct {
	Code            string   `required:"" help:"Fully-qualified widget code (e.g. acme.widget.stats)."`
	Name            string   `required:"" help:"Display name for the widget."`
	Description     string   `required:"" help:"One-line description used in manifests."`
	Category        string   `default:"custom" help:"Widget category (analytics, stats, etc.)."`
	ManifestPath    string   `required:"" name:"manifest" type:"path" help:"Widget manifest YAML file to create or update."`
	SchemaPath      string   `name:"schema" type:"path" help:"Optional JSON schema file for the widget configuration."`
	Tag             []string `help:"Tags to include in the manifest (repeatable)."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Capabilities    []string `help:"Provider capability labels (html,json,table,select,...)."`
	DocsURL         string   `help:"Link to provider documentation."`
	Channel         string   `help:"Distribution channel label (community, partner, internal)."`
	ProviderPackage string   `default:"github.com/goliatone/go-admin-dashboard/components/dashboard" help:"Go package where the provider factory lives."`
	ProviderEntry   string   `help:"Factory identifier recorded in the manifest (defaults to New<Widget>Provider)."`
	ProviderOut     string   `type:"path" help:"Provider stub path (defaults to components/dashboard/provider_<code>.go)."`
	Overwrite       bool     `help:"Replace an existing manifest entry or provider stub."`
	SkipProvider    bool     `name:"skip-provider" help:"Only update the manifest."`
}

func (cmd *scaffoldCmd) Run(out io.Writer) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("dashboardctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("dashboardctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := loadSchema(cmd.SchemaPath)
	if err != nil {
		return err
	}

	providerType := providerTypeName(cmd.Code)
	entry := cmd.entry(schema, providerType)
	if err := upsertWidget(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	if cmd.SkipProvider {
		fmt.Fprintf(out, "added %s to %s (provider entry %s)\n", cmd.Code, manifestPath, entry.Provider.Entry)
		return nil
	}

	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "dashboard", "provider_"+fileSlug(cmd.Code)+".go")
	}
	if err := writeProviderStub(providerPath, providerType, cmd.Code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s to %s and generated %s\n", cmd.Code, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) entry(schema map[string]any, providerType string) dashboard.ManifestWidget {
	providerEntry := cmd.ProviderEntry
	if providerEntry == "" {
		providerEntry = fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType)
	}
	return dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Provider: dashboard.ManifestProvider{
			Name:         cmd.Name + " Provider",
			Summary:      cmd.Description,
			Entry:        providerEntry,
			Package:      cmd.ProviderPackage,
			DocsURL:      cmd.DocsURL,
			Capabilities: cmd.Capabilities,
			Channel:      cmd.Channel,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
}

// upsertWidget adds entry to doc, replacing a widget with the same code only
// when overwrite is set. Widgets stay sorted by code.
func upsertWidget(doc *dashboard.WidgetManifestDocument, entry dashboard.ManifestWidget, overwrite bool) error {
	replaced := false
	for i := range doc.Widgets {
		if doc.Widgets[i].Definition.Code != entry.Definition.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("dashboardctl: manifest already defines widget %s (use --overwrite to replace)", entry.Definition.Code)
		}
		doc.Widgets[i] = entry
		replaced = true
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	return nil
}

func loadSchema(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboardctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("dashboardctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("dashboardctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashboardctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	out := *doc
	out.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashboardctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodeManifest(file, &out)
}

var providerStub = template.Must(template.New("provider").Parse(`package dashboard

import "context"

// {{.Type}} fetches data for {{.Code}} widgets.
type {{.Type}} struct{}

// New{{.Type}} builds the provider for registry wiring.
func New{{.Type}}() Provider {
	return &{{.Type}}{}
}

// Fetch returns the widget payload.
func (p *{{.Type}}) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return WidgetData{
		"title":   meta.Instance.Configuration["title"],
		"message": "replace with real data",
	}, nil
}
`))

func writeProviderStub(path, providerType, code string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("dashboardctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashboardctl: mkdir provider dir: %w", err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashboardctl: create provider stub: %w", err)
	}
	defer file.Close()
	if err := providerStub.Execute(file, map[string]string{"Type": providerType, "Code": code}); err != nil {
		return fmt.Errorf("dashboardctl: write provider stub: %w", err)
	}
	return nil
}

// providerTypeName derives the provider type from the last code segment,
// e.g. acme.widget.sales_stats becomes SalesStatsProvider.
func providerTypeName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToGoPascal(slug) + "Provider"
}

func fileSlug(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
