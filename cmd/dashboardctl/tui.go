package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	core "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/terminal"
	"github.com/goliatone/go-admin-dashboard/internal/config"
)

type tuiCmd struct {
	User    string `help:"Viewer user id. Overrides viewer.user_id."`
	LogFile string `name:"log-file" type:"path" help:"Write logs to this file instead of discarding them."`
}

func (cmd *tuiCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if cmd.User != "" {
		cfg.Viewer.UserID = cmd.User
	}

	// The terminal belongs to the program, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cmd.LogFile != "" {
		f, err := os.OpenFile(cmd.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
		if err != nil {
			return fmt.Errorf("dashboardctl: open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(cfg.Log, logOut)
	slog.SetDefault(logger)

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	viewer := core.ViewerContext{
		UserID: cfg.Viewer.UserID,
		Roles:  cfg.Viewer.Roles,
		Locale: cfg.Server.Locale,
	}
	tableID, err := rt.app.FindWidget(ctx, viewer, core.OrderListCode)
	if err != nil {
		return err
	}
	selectID, err := rt.app.FindWidget(ctx, viewer, core.ProductPickerCode)
	if err != nil {
		return err
	}

	model := terminal.NewModel(ctx, terminal.Options{
		Viewer:   viewer,
		Tables:   rt.app.Tables,
		Selects:  rt.app.Selects,
		Events:   rt.app.Broadcast,
		TableID:  tableID,
		SelectID: selectID,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboardctl: terminal: %w", err)
	}
	return nil
}
