package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterAreas ensures the dashboard areas exist in the store.
func RegisterAreas(ctx context.Context, store WidgetStore) error {
	if store == nil {
		return errMissingWidgetStore
	}
	for _, area := range DefaultAreaDefinitions() {
		if _, err := store.EnsureArea(ctx, area); err != nil {
			return fmt.Errorf("dashboard: register area %s: %w", area.Code, err)
		}
	}
	return nil
}

// RegisterDefinitions stores the built-in widget definitions and mirrors them
// into the registry when one is given.
func RegisterDefinitions(ctx context.Context, store WidgetStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingWidgetStore
	}
	for _, def := range DefaultWidgetDefinitions() {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("dashboard: register definition %s: %w", def.Code, err)
		}
		if registry != nil {
			if err := registry.RegisterDefinition(def); err != nil {
				return fmt.Errorf("dashboard: register definition in registry %s: %w", def.Code, err)
			}
		}
	}
	return nil
}

// SeedLayout places the starter widgets. Areas that already hold widgets are
// left alone, so seeding twice does not duplicate the layout.
func SeedLayout(ctx context.Context, service *Service) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed layout")
	}
	populated := map[string]bool{}
	var seedErr error
	for _, req := range DefaultSeedWidgets() {
		if _, checked := populated[req.AreaCode]; !checked {
			resolved, err := service.ResolveArea(ctx, ViewerContext{}, req.AreaCode)
			if err != nil {
				return err
			}
			populated[req.AreaCode] = len(resolved.Widgets) > 0
		}
		if populated[req.AreaCode] {
			continue
		}
		if err := service.AddWidget(ctx, req); err != nil {
			seedErr = errors.Join(seedErr, err)
		}
	}
	return seedErr
}
