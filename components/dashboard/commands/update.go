package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// UpdateWidgetInput changes the configuration or metadata of a placed
// widget, e.g. the page size of the order list.
type UpdateWidgetInput struct {
	WidgetID      string         `json:"widget_id"`
	Configuration map[string]any `json:"configuration"`
	Metadata      map[string]any `json:"metadata"`
	ActorID       string         `json:"actor_id"`
	UserID        string         `json:"user_id"`
	TenantID      string         `json:"tenant_id"`
}

type updateService interface {
	UpdateWidget(ctx context.Context, widgetID string, req dashboard.UpdateWidgetRequest) error
}

// UpdateWidgetCommand wraps Service.UpdateWidget. Open sessions were built
// from the old configuration, so a successful update drops them.
type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
	sessions  []SessionForgetter
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(service updateService, telemetry Telemetry, sessions ...SessionForgetter) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry), sessions: sessions}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return fmt.Errorf("update command requires service")
	}
	widgetID := strings.TrimSpace(msg.WidgetID)
	if widgetID == "" {
		return fmt.Errorf("%w: widget id required", ErrInvalidInput)
	}
	ctx = dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	err := c.service.UpdateWidget(ctx, widgetID, dashboard.UpdateWidgetRequest{
		Configuration: msg.Configuration,
		Metadata:      msg.Metadata,
		ActorID:       msg.ActorID,
		UserID:        msg.UserID,
		TenantID:      msg.TenantID,
	})
	if err != nil {
		return err
	}
	dropped := 0
	if msg.Configuration != nil {
		for _, sessions := range c.sessions {
			dropped += sessions.Forget(widgetID)
		}
	}
	c.telemetry.Record(ctx, "dashboard.widget.update", map[string]any{
		"widget_id":        widgetID,
		"keys":             slices.Sorted(maps.Keys(msg.Configuration)),
		"sessions_dropped": dropped,
	})
	return nil
}
