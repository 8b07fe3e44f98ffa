package httpapi

import (
	"context"
	"errors"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/queries"
	gocommand "github.com/goliatone/go-command"
)

var errNotConfigured = errors.New("httpapi: operation not configured")

// Executor is the transport-neutral surface used by router adapters.
type Executor interface {
	Assign(ctx context.Context, req dashboard.AddWidgetRequest) error
	Update(ctx context.Context, input commands.UpdateWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
	Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error
	TableView(ctx context.Context, input queries.SessionViewInput) (dashboard.TableView, error)
	TableAction(ctx context.Context, input commands.TableActionInput) (dashboard.TableView, error)
	SelectView(ctx context.Context, input queries.SessionViewInput) (dashboard.SelectView, error)
	SelectAction(ctx context.Context, input commands.SelectActionInput) (dashboard.SelectView, error)
}

// CommandExecutor implements Executor over go-command commanders and queriers.
// Unset operations return an error.
type CommandExecutor struct {
	AssignCommand       gocommand.Commander[dashboard.AddWidgetRequest]
	UpdateCommand       gocommand.Commander[commands.UpdateWidgetInput]
	RemoveCommand       gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommand      gocommand.Commander[commands.ReorderWidgetsInput]
	RefreshCommand      gocommand.Commander[commands.RefreshWidgetInput]
	PreferencesCommand  gocommand.Commander[commands.SaveLayoutPreferencesInput]
	TableActionCommand  gocommand.Commander[commands.TableActionInput]
	TableViewQuery      gocommand.Querier[queries.SessionViewInput, dashboard.TableView]
	SelectActionCommand gocommand.Commander[commands.SelectActionInput]
	SelectViewQuery     gocommand.Querier[queries.SessionViewInput, dashboard.SelectView]
}

var _ Executor = (*CommandExecutor)(nil)

// NewExecutor adapts net/http Handlers into an Executor so both transports
// share the same commands.
func NewExecutor(h *Handlers) *CommandExecutor {
	return &CommandExecutor{
		AssignCommand:       h.Assign,
		UpdateCommand:       h.Update,
		RemoveCommand:       h.Remove,
		ReorderCommand:      h.Reorder,
		RefreshCommand:      h.Refresh,
		PreferencesCommand:  h.Preferences,
		TableActionCommand:  h.TableAction,
		TableViewQuery:      h.TableView,
		SelectActionCommand: h.SelectAction,
		SelectViewQuery:     h.SelectView,
	}
}

func (e *CommandExecutor) Assign(ctx context.Context, req dashboard.AddWidgetRequest) error {
	return execute(ctx, e.AssignCommand, req)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateWidgetInput) error {
	return execute(ctx, e.UpdateCommand, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.RemoveCommand, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return execute(ctx, e.ReorderCommand, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return execute(ctx, e.RefreshCommand, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error {
	return execute(ctx, e.PreferencesCommand, input)
}

func (e *CommandExecutor) TableView(ctx context.Context, input queries.SessionViewInput) (dashboard.TableView, error) {
	return query(ctx, e.TableViewQuery, input)
}

// TableAction executes the action and reads back the resulting view.
func (e *CommandExecutor) TableAction(ctx context.Context, input commands.TableActionInput) (dashboard.TableView, error) {
	if err := execute(ctx, e.TableActionCommand, input); err != nil {
		return dashboard.TableView{}, err
	}
	return query(ctx, e.TableViewQuery, queries.SessionViewInput{Viewer: input.Viewer, WidgetID: input.WidgetID})
}

func (e *CommandExecutor) SelectView(ctx context.Context, input queries.SessionViewInput) (dashboard.SelectView, error) {
	return query(ctx, e.SelectViewQuery, input)
}

// SelectAction executes the action and reads back the resulting view.
func (e *CommandExecutor) SelectAction(ctx context.Context, input commands.SelectActionInput) (dashboard.SelectView, error) {
	if err := execute(ctx, e.SelectActionCommand, input); err != nil {
		return dashboard.SelectView{}, err
	}
	return query(ctx, e.SelectViewQuery, queries.SessionViewInput{Viewer: input.Viewer, WidgetID: input.WidgetID})
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

func query[T, R any](ctx context.Context, q gocommand.Querier[T, R], msg T) (R, error) {
	if q == nil {
		var zero R
		return zero, errNotConfigured
	}
	return q.Query(ctx, msg)
}
