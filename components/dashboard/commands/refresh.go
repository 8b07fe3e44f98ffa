package commands

import (
	"context"
	"fmt"
	"strings"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// RefreshWidgetInput announces that the data behind a widget changed, e.g.
// a new order landed in the order list.
type RefreshWidgetInput struct {
	WidgetID string         `json:"widget_id"`
	AreaCode string         `json:"area_code,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

type refreshNotifier interface {
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

// SessionReloader reloads the rows of open sessions without resetting the
// viewers' page, sort or search.
type SessionReloader interface {
	ReloadWidget(ctx context.Context, widgetID string) (int, error)
}

// RefreshWidgetCommand reloads open table sessions and then notifies the
// refresh hooks so transports can push the new view.
type RefreshWidgetCommand struct {
	service   refreshNotifier
	telemetry Telemetry
	sessions  []SessionReloader
}

// NewRefreshWidgetCommand creates the command.
func NewRefreshWidgetCommand(service refreshNotifier, telemetry Telemetry, sessions ...SessionReloader) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry), sessions: sessions}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return fmt.Errorf("refresh command requires service")
	}
	widgetID := strings.TrimSpace(msg.WidgetID)
	if widgetID == "" {
		return fmt.Errorf("%w: widget id required", ErrInvalidInput)
	}
	reloaded := 0
	for _, sessions := range c.sessions {
		n, err := sessions.ReloadWidget(ctx, widgetID)
		if err != nil {
			return err
		}
		reloaded += n
	}
	reason := msg.Reason
	if reason == "" {
		reason = "refresh"
	}
	event := dashboard.WidgetEvent{
		AreaCode: msg.AreaCode,
		Instance: dashboard.WidgetInstance{ID: widgetID, AreaCode: msg.AreaCode},
		Reason:   reason,
		Payload:  msg.Payload,
	}
	if err := c.service.NotifyWidgetUpdated(ctx, event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.refresh", map[string]any{
		"area_code":         msg.AreaCode,
		"widget_id":         widgetID,
		"sessions_reloaded": reloaded,
	})
	return nil
}
