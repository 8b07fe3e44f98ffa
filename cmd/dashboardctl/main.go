package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-admin-dashboard/internal/config"
)

type cli struct {
	Globals

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard over HTTP."`
	TUI      tuiCmd      `cmd:"" name:"tui" help:"Browse the order list and product picker in the terminal."`
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a widget definition, provider stub, and manifest entry."`
	Manifest manifestCmd `cmd:"" help:"Print or validate widget manifests."`
}

// Globals are shared by every command.
type Globals struct {
	Config   string `short:"c" type:"path" help:"YAML configuration file. DASHBOARD_* variables override it."`
	LogLevel string `name:"log-level" help:"Override log.level (debug, info, warn, error)."`
}

// load reads the configuration and applies flag overrides.
func (g *Globals) load() (config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return config.Config{}, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app cli
	parser := kong.Parse(&app,
		kong.Name("dashboardctl"),
		kong.Description("Admin dashboard server, terminal client and widget tooling."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&app.Globals),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)
	err := parser.Run()
	parser.FatalIfErrorf(err)
}
