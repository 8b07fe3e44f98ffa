package commands

import (
	"context"
	"fmt"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/datatable"
	gocommand "github.com/goliatone/go-command"
)

// SaveLayoutPreferencesInput carries a viewer's layout edits. TableSorts is
// optional; when omitted the sorts stored by table sessions are kept.
type SaveLayoutPreferencesInput struct {
	Viewer        dashboard.ViewerContext          `json:"viewer"`
	AreaOrder     map[string][]string              `json:"area_order"`
	AreaRows      map[string][]dashboard.LayoutRow `json:"area_rows,omitempty"`
	HiddenWidgets []string                         `json:"hidden_widget_ids"`
	TableSorts    map[string]datatable.SortState   `json:"table_sorts,omitempty"`
}

// Validate rejects anonymous viewers and malformed sorts.
func (in SaveLayoutPreferencesInput) Validate() error {
	if in.Viewer.UserID == "" {
		return fmt.Errorf("%w: viewer user id required", ErrInvalidInput)
	}
	for widgetID, sort := range in.TableSorts {
		if sort.Key == "" {
			return fmt.Errorf("%w: sort for %s has no column", ErrInvalidInput, widgetID)
		}
		if sort.Direction != datatable.Ascending && sort.Direction != datatable.Descending {
			return fmt.Errorf("%w: sort for %s has direction %q", ErrInvalidInput, widgetID, sort.Direction)
		}
	}
	return nil
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error
}

// SaveLayoutPreferencesCommand persists per-user layout overrides.
type SaveLayoutPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSaveLayoutPreferencesCommand creates the command.
func NewSaveLayoutPreferencesCommand(service preferenceService, telemetry Telemetry) *SaveLayoutPreferencesCommand {
	return &SaveLayoutPreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutPreferencesInput] = (*SaveLayoutPreferencesCommand)(nil)

func (c *SaveLayoutPreferencesCommand) Execute(ctx context.Context, msg SaveLayoutPreferencesInput) error {
	if c.service == nil {
		return fmt.Errorf("preferences command requires service")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	overrides := dashboard.LayoutOverrides{
		Locale:        msg.Viewer.Locale,
		AreaOrder:     msg.AreaOrder,
		AreaRows:      msg.AreaRows,
		HiddenWidgets: make(map[string]bool, len(msg.HiddenWidgets)),
		TableSorts:    msg.TableSorts,
	}
	for _, id := range msg.HiddenWidgets {
		overrides.HiddenWidgets[id] = true
	}
	if err := c.service.SavePreferences(ctx, msg.Viewer, overrides); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.preferences.save", map[string]any{
		"user_id": msg.Viewer.UserID,
		"areas":   len(msg.AreaOrder),
		"hidden":  len(msg.HiddenWidgets),
		"sorts":   len(msg.TableSorts),
	})
	return nil
}
