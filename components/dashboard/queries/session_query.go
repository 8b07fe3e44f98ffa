package queries

import (
	"context"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SessionViewInput identifies a viewer's session for one widget.
type SessionViewInput struct {
	Viewer   dashboard.ViewerContext
	WidgetID string
}

type tableViewer interface {
	View(ctx context.Context, viewer dashboard.ViewerContext, widgetID string) (dashboard.TableView, error)
}

// TableViewQuery returns the current state of a viewer's table widget.
type TableViewQuery struct {
	sessions tableViewer
}

// NewTableViewQuery builds the query.
func NewTableViewQuery(sessions tableViewer) *TableViewQuery {
	return &TableViewQuery{sessions: sessions}
}

var _ gocommand.Querier[SessionViewInput, dashboard.TableView] = (*TableViewQuery)(nil)

// Query loads or creates the session and returns its view.
func (q *TableViewQuery) Query(ctx context.Context, input SessionViewInput) (dashboard.TableView, error) {
	return q.sessions.View(ctx, input.Viewer, input.WidgetID)
}

type selectViewer interface {
	View(ctx context.Context, viewer dashboard.ViewerContext, widgetID string) (dashboard.SelectView, error)
}

// SelectViewQuery returns the current state of a viewer's select widget.
type SelectViewQuery struct {
	sessions selectViewer
}

// NewSelectViewQuery builds the query.
func NewSelectViewQuery(sessions selectViewer) *SelectViewQuery {
	return &SelectViewQuery{sessions: sessions}
}

var _ gocommand.Querier[SessionViewInput, dashboard.SelectView] = (*SelectViewQuery)(nil)

// Query returns the select view.
func (q *SelectViewQuery) Query(ctx context.Context, input SessionViewInput) (dashboard.SelectView, error) {
	return q.sessions.View(ctx, input.Viewer, input.WidgetID)
}
