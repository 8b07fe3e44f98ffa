// Package goadmin mounts the dashboard into go-admin style shells: it builds
// the dashboard app, seeds its layout and registers the navigation entry.
package goadmin

import (
	"context"
	"errors"
	"net/http"

	dashboardpkg "github.com/goliatone/go-admin-dashboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the dashboard and feature flags into an admin shell. When App
// is nil one is built from Dashboard.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	App             *dashboardpkg.App
	Dashboard       dashboardpkg.Config
	DefaultMenuItem MenuItem
	// SeedLayout places the default widgets in empty areas on Bootstrap.
	SeedLayout bool
	// BasePath prefixes the dashboard routes served by Handler.
	BasePath string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
	app *dashboardpkg.App
}

// New creates an Admin helper. A disabled dashboard builds nothing.
func New(cfg Config) (*Admin, error) {
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.dashboard"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "home"
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin"
	}
	admin := &Admin{cfg: cfg}
	if !cfg.EnableDashboard {
		return admin, nil
	}
	admin.app = cfg.App
	if admin.app == nil {
		app, err := dashboardpkg.New(cfg.Dashboard)
		if err != nil {
			return nil, err
		}
		admin.app = app
	}
	return admin, nil
}

// Dashboard exposes the dashboard app when enabled.
func (a *Admin) Dashboard() *dashboardpkg.App {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.app
}

// Bootstrap registers the dashboard areas and definitions, optionally seeds
// the default layout, and adds the menu entry.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard {
		return nil
	}
	if a.app == nil {
		return errors.New("goadmin: dashboard app is not configured")
	}
	if err := a.app.Bootstrap(ctx, a.cfg.SeedLayout); err != nil {
		return err
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}

// Handler serves the dashboard routes, or 404 when the dashboard is disabled.
func (a *Admin) Handler() http.Handler {
	if !a.cfg.EnableDashboard || a.app == nil {
		return http.NotFoundHandler()
	}
	return a.app.HTTPHandler(a.cfg.BasePath)
}
