package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gocommand "github.com/goliatone/go-command"
)

// ErrInvalidInput marks command payloads rejected before reaching the service.
var ErrInvalidInput = errors.New("commands: invalid input")

// ReorderWidgetsInput lists an area's widget ids in their new order.
type ReorderWidgetsInput struct {
	AreaCode  string   `json:"area_code"`
	WidgetIDs []string `json:"widget_ids"`
}

// Validate rejects an empty area and blank or repeated widget ids.
func (in ReorderWidgetsInput) Validate() error {
	if strings.TrimSpace(in.AreaCode) == "" {
		return fmt.Errorf("%w: area code required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(in.WidgetIDs))
	for _, id := range in.WidgetIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: blank widget id", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: widget %s listed twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

type reorderService interface {
	ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error
}

// ReorderWidgetsCommand wraps Service.ReorderWidgets.
type ReorderWidgetsCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderWidgetsCommand builds the command.
func NewReorderWidgetsCommand(service reorderService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

// Execute validates the payload and applies the new ordering.
func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := c.service.ReorderWidgets(ctx, msg.AreaCode, msg.WidgetIDs); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.reorder", map[string]any{
		"area_code": msg.AreaCode,
		"count":     len(msg.WidgetIDs),
	})
	return nil
}
