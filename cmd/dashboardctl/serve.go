package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-admin-dashboard/internal/config"
	"github.com/goliatone/go-admin-dashboard/pkg/dashboard"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	Addr      string `help:"Listen address. Overrides server.addr."`
	Transport string `help:"http (net/http) or fiber (go-router). Overrides server.transport."`
}

func (cmd *serveCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("serving dashboard",
		"addr", cfg.Server.Addr,
		"transport", cfg.Server.Transport,
		"path", cfg.Server.BasePath+"/dashboard",
	)
	if cfg.Server.Transport == "fiber" {
		return serveFiber(ctx, rt.app, cfg.Server, logger)
	}
	return serveHTTP(ctx, rt.app, cfg.Server, logger)
}

func serveHTTP(ctx context.Context, app *dashboard.App, cfg config.ServerConfig, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.HTTPHandler(cfg.BasePath),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboardctl: serve: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func serveFiber(ctx context.Context, app *dashboard.App, cfg config.ServerConfig, logger *slog.Logger) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: app.Controller,
		API:        app.Executor,
		Broadcast:  app.Broadcast,
		BasePath:   cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("dashboardctl: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cfg.Addr)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashboardctl: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
