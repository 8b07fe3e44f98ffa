package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/internal/config"
	"github.com/goliatone/go-admin-dashboard/pkg/analytics"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var app cli
	var out bytes.Buffer
	parser, err := kong.New(&app,
		kong.Name("dashboardctl"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.Bind(&app.Globals),
		kong.BindTo(io.Writer(&out), (*io.Writer)(nil)),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	err = kctx.Run()
	return out.String(), err
}

func TestManifestPrint(t *testing.T) {
	out, err := runCLI(t, "manifest", "print")
	require.NoError(t, err)
	assert.Contains(t, out, core.OrderListCode)
	assert.Contains(t, out, core.ProductPickerCode)
}

func TestScaffoldWritesManifestAndStub(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "widgets.yaml")
	stub := filepath.Join(dir, "provider_sales.go")
	args := []string{
		"scaffold",
		"--code", "acme.widget.sales_stats",
		"--name", "Sales Stats",
		"--description", "Weekly sales numbers",
		"--manifest", manifest,
		"--provider-out", stub,
		"--tag", "sales",
	}

	out, err := runCLI(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "acme.widget.sales_stats")

	doc, err := core.ReadManifest(manifest)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "Sales Stats", doc.Widgets[0].Definition.Name)
	assert.Equal(t, []string{"sales"}, doc.Widgets[0].Tags)

	source, err := os.ReadFile(stub)
	require.NoError(t, err)
	assert.Contains(t, string(source), "type SalesStatsProvider struct{}")
	assert.Contains(t, string(source), "func NewSalesStatsProvider() Provider")

	_, err = runCLI(t, args...)
	require.Error(t, err, "second scaffold without --overwrite must fail")

	_, err = runCLI(t, append(args, "--overwrite")...)
	require.NoError(t, err)

	out, err = runCLI(t, "manifest", "validate", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "1 widgets ok")
}

func TestScaffoldRejectsFlatCode(t *testing.T) {
	_, err := runCLI(t, "scaffold",
		"--code", "stats",
		"--name", "Stats",
		"--description", "d",
		"--manifest", filepath.Join(t.TempDir(), "m.yaml"),
		"--skip-provider",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain")
}

func TestManifestValidateRejectsBrokenSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	body := `version: "1"
widgets:
  - definition:
      code: acme.widget.broken
      name: Broken
      schema:
        type: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := runCLI(t, "manifest", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme.widget.broken")
}

func TestProviderTypeName(t *testing.T) {
	assert.Equal(t, "SalesStatsProvider", providerTypeName("acme.widget.sales_stats"))
}

func TestBuildRuntimeWiresCatalogAndTelemetry(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Catalog.DSN = ":memory:"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt, err := buildRuntime(ctx, cfg, logger)
	require.NoError(t, err)
	defer rt.Close()

	viewer := core.ViewerContext{UserID: "ada"}
	orders, err := rt.app.FindWidget(ctx, viewer, core.OrderListCode)
	require.NoError(t, err)

	view, err := rt.app.Tables.Apply(ctx, viewer, orders, core.TableAction{Action: core.TableActionSearch, Term: "drew"})
	require.NoError(t, err)
	assert.Equal(t, 10, view.Total)
	assert.Equal(t, 2, view.Matched)
	assert.Equal(t, int64(1), rt.metrics.Count("dashboard.table.action"))
}

func TestAnalyticsClientSelection(t *testing.T) {
	client, err := analyticsClient(config.AnalyticsConfig{Mode: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &analytics.MockClient{}, client)

	client, err = analyticsClient(config.AnalyticsConfig{Mode: "http", BaseURL: "https://bi.example.com"})
	require.NoError(t, err)
	assert.IsType(t, &analytics.HTTPClient{}, client)

	_, err = analyticsClient(config.AnalyticsConfig{Mode: "http"})
	require.Error(t, err)
}
