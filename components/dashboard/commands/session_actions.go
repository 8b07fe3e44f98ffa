package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// TableActionInput applies a viewer interaction to a table widget.
type TableActionInput struct {
	Viewer   dashboard.ViewerContext
	WidgetID string
	Action   dashboard.TableAction
}

type tableApplier interface {
	Apply(ctx context.Context, viewer dashboard.ViewerContext, widgetID string, action dashboard.TableAction) (dashboard.TableView, error)
}

// TableActionCommand drives table sessions (sort, page, search, row click).
type TableActionCommand struct {
	sessions  tableApplier
	telemetry Telemetry
}

// NewTableActionCommand wires the table sessions.
func NewTableActionCommand(sessions tableApplier, telemetry Telemetry) *TableActionCommand {
	return &TableActionCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TableActionInput] = (*TableActionCommand)(nil)

// Execute applies the action. Callers read the resulting view through
// queries.TableViewQuery.
func (c *TableActionCommand) Execute(ctx context.Context, msg TableActionInput) error {
	if c.sessions == nil {
		return errors.New("table action command requires table sessions")
	}
	if msg.WidgetID == "" {
		return errors.New("widget id required")
	}
	if _, err := c.sessions.Apply(ctx, msg.Viewer, msg.WidgetID, msg.Action); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.table_action", map[string]any{
		"widget_id": msg.WidgetID,
		"action":    msg.Action.Action,
	})
	return nil
}

// SelectActionInput applies a viewer interaction to a select widget.
type SelectActionInput struct {
	Viewer   dashboard.ViewerContext
	WidgetID string
	Action   dashboard.SelectAction
}

type selectApplier interface {
	Apply(ctx context.Context, viewer dashboard.ViewerContext, widgetID string, action dashboard.SelectAction) (dashboard.SelectView, error)
}

// SelectActionCommand drives remote-search select sessions.
type SelectActionCommand struct {
	sessions  selectApplier
	telemetry Telemetry
}

// NewSelectActionCommand wires the select sessions.
func NewSelectActionCommand(sessions selectApplier, telemetry Telemetry) *SelectActionCommand {
	return &SelectActionCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectActionInput] = (*SelectActionCommand)(nil)

// Execute applies the action to the viewer's select session.
func (c *SelectActionCommand) Execute(ctx context.Context, msg SelectActionInput) error {
	if c.sessions == nil {
		return errors.New("select action command requires select sessions")
	}
	if msg.WidgetID == "" {
		return errors.New("widget id required")
	}
	if _, err := c.sessions.Apply(ctx, msg.Viewer, msg.WidgetID, msg.Action); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.select_action", map[string]any{
		"widget_id": msg.WidgetID,
		"action":    msg.Action.Action,
	})
	return nil
}
