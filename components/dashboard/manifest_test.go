package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: fulfillment-pack
widgets:
  - definition:
      code: fulfillment.widget.backlog
      name: Fulfillment Backlog
      description: Orders waiting to ship, grouped by warehouse.
      category: orders
      schema:
        type: object
        properties:
          warehouse:
            type: string
    provider:
      name: Backlog Provider
      summary: Reads the warehouse backlog API.
      entry: github.com/example/fulfillment.NewBacklogProvider
      package: github.com/example/fulfillment
      docs_url: https://example.com/widgets/backlog
      capabilities: ["html","json"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, "fulfillment.widget.backlog", widget.Definition.Code)
	assert.Equal(t, "Fulfillment Backlog", widget.Definition.Name)
	assert.Equal(t, "Backlog Provider", widget.Provider.Name)
	assert.Equal(t, "github.com/example/fulfillment.NewBacklogProvider", widget.Provider.Entry)
	assert.Equal(t, "orders", widget.Definition.Category)
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: manifestVersionV1,
		Widgets: []ManifestWidget{
			{
				Definition: WidgetDefinition{
					Code: "acme.widget.stock_levels",
					Name: "Stock Levels",
				},
				Provider: ManifestProvider{
					Name:    "Stock Provider",
					Summary: "Fetches stock per product",
					Entry:   "github.com/acme/widgets.NewStockProvider",
				},
			},
		},
	}
	reg := NewRegistry()

	err := reg.LoadManifestDocument(doc)
	require.NoError(t, err)

	def, ok := reg.Definition("acme.widget.stock_levels")
	require.True(t, ok)
	assert.Equal(t, "Stock Levels", def.Name)

	meta, ok := reg.ProviderMetadata("acme.widget.stock_levels")
	require.True(t, ok)
	assert.Equal(t, "Stock Provider", meta.Name)
	assert.Equal(t, "github.com/acme/widgets.NewStockProvider", meta.Entry)
}

func TestManifestDuplicateCodes(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: dup.widget
      name: First
  - definition:
      code: dup.widget
      name: Second
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates widget code")
}

func TestBuiltinManifestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, BuiltinManifest()))

	doc, err := DecodeManifest(&buf)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, len(DefaultWidgetDefinitions()))
	for _, widget := range doc.Widgets {
		assert.NotEmptyf(t, widget.Provider.Entry, "%s has no provider entry", widget.Definition.Code)
	}
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	codes := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadManifest(path)
		require.NoErrorf(t, err, "manifest %s should parse", path)
		for _, widget := range doc.Widgets {
			if prev, exists := codes[widget.Definition.Code]; exists {
				t.Fatalf("widget code %s defined in both %s and %s", widget.Definition.Code, prev, path)
			}
			codes[widget.Definition.Code] = path
		}
	}
	for _, def := range DefaultWidgetDefinitions() {
		_, clash := codes[def.Code]
		assert.Falsef(t, clash, "%s shadows a built-in widget", def.Code)
	}
}
