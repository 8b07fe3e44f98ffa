package commands

import (
	"context"
	"fmt"
	"strings"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

type assignService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) error
}

// AssignWidgetCommand places a new widget, such as a second order list or a
// product picker, into a dashboard area.
type AssignWidgetCommand struct {
	service   assignService
	telemetry Telemetry
}

// NewAssignWidgetCommand creates the command.
func NewAssignWidgetCommand(service assignService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.AddWidgetRequest] = (*AssignWidgetCommand)(nil)

// Execute trims the codes, rejects blank ones and delegates to the service.
func (c *AssignWidgetCommand) Execute(ctx context.Context, msg dashboard.AddWidgetRequest) error {
	if c.service == nil {
		return fmt.Errorf("assign command requires service")
	}
	msg.DefinitionID = strings.TrimSpace(msg.DefinitionID)
	msg.AreaCode = strings.TrimSpace(msg.AreaCode)
	switch {
	case msg.DefinitionID == "":
		return fmt.Errorf("%w: definition code required", ErrInvalidInput)
	case msg.AreaCode == "":
		return fmt.Errorf("%w: area code required", ErrInvalidInput)
	case msg.StartAt != nil && msg.EndAt != nil && msg.EndAt.Before(*msg.StartAt):
		return fmt.Errorf("%w: visibility window ends before it starts", ErrInvalidInput)
	}
	if err := c.service.AddWidget(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.assign", map[string]any{
		"definition_id": msg.DefinitionID,
		"area_code":     msg.AreaCode,
		"roles":         len(msg.Roles),
	})
	return nil
}
