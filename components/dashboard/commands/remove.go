package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// RemoveWidgetInput identifies the widget instance to remove.
type RemoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
	ActorID  string `json:"actor_id"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, widgetID string) error
}

// SessionForgetter releases per-viewer state held for a widget.
// dashboard.TableSessions and dashboard.SelectSessions implement it.
type SessionForgetter interface {
	Forget(widgetID string) int
}

// RemoveWidgetCommand removes a widget instance and drops the table and
// select sessions viewers hold for it.
type RemoveWidgetCommand struct {
	service   removeService
	sessions  []SessionForgetter
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds a command instance.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry, sessions ...SessionForgetter) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget. Sessions are only dropped once the store
// delete succeeded.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	ctx = dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	if err := c.service.RemoveWidget(ctx, msg.WidgetID); err != nil {
		return err
	}
	dropped := 0
	for _, sessions := range c.sessions {
		if sessions != nil {
			dropped += sessions.Forget(msg.WidgetID)
		}
	}
	c.telemetry.Record(ctx, "dashboard.widget.remove", map[string]any{
		"widget_id":        msg.WidgetID,
		"sessions_dropped": dropped,
	})
	return nil
}
