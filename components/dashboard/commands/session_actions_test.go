package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
)

type stubTableSessions struct {
	widgetID string
	action   dashboard.TableAction
	err      error
}

func (s *stubTableSessions) Apply(_ context.Context, _ dashboard.ViewerContext, widgetID string, action dashboard.TableAction) (dashboard.TableView, error) {
	s.widgetID = widgetID
	s.action = action
	return dashboard.TableView{WidgetID: widgetID}, s.err
}

type stubSelectSessions struct {
	action dashboard.SelectAction
	err    error
}

func (s *stubSelectSessions) Apply(_ context.Context, _ dashboard.ViewerContext, widgetID string, action dashboard.SelectAction) (dashboard.SelectView, error) {
	s.action = action
	return dashboard.SelectView{WidgetID: widgetID}, s.err
}

func TestTableActionCommand(t *testing.T) {
	sessions := &stubTableSessions{}
	telemetry := &stubTelemetry{}
	cmd := NewTableActionCommand(sessions, telemetry)
	err := cmd.Execute(context.Background(), TableActionInput{
		Viewer:   dashboard.ViewerContext{UserID: "u1"},
		WidgetID: "orders",
		Action:   dashboard.TableAction{Action: dashboard.TableActionSort, Key: "amount"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if sessions.widgetID != "orders" || sessions.action.Key != "amount" {
		t.Fatalf("unexpected apply call %+v", sessions)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestTableActionCommandErrors(t *testing.T) {
	if err := NewTableActionCommand(&stubTableSessions{}, nil).Execute(context.Background(), TableActionInput{}); err == nil {
		t.Fatalf("expected missing widget id error")
	}
	boom := errors.New("boom")
	telemetry := &stubTelemetry{}
	cmd := NewTableActionCommand(&stubTableSessions{err: boom}, telemetry)
	if err := cmd.Execute(context.Background(), TableActionInput{WidgetID: "orders"}); !errors.Is(err, boom) {
		t.Fatalf("expected session error, got %v", err)
	}
	if telemetry.calls != 0 {
		t.Fatalf("failed actions should not record telemetry")
	}
}

func TestSelectActionCommand(t *testing.T) {
	sessions := &stubSelectSessions{}
	cmd := NewSelectActionCommand(sessions, nil)
	err := cmd.Execute(context.Background(), SelectActionInput{
		WidgetID: "picker",
		Action:   dashboard.SelectAction{Action: dashboard.SelectActionType, Term: "shirt"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if sessions.action.Term != "shirt" {
		t.Fatalf("expected search term to reach the session, got %+v", sessions.action)
	}
	if err := NewSelectActionCommand(nil, nil).Execute(context.Background(), SelectActionInput{WidgetID: "picker"}); err == nil {
		t.Fatalf("expected error without sessions")
	}
}
