package dashboard

import (
	"context"
	"errors"
	"slices"
)

// NotificationsClient publishes dashboard events to an external service such
// as go-notifications.
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, channel string, event WidgetEvent) error
}

// NotificationsHook forwards widget events to a notifications client. Viewer
// scoped session events (table paging, option loads) stay local unless their
// reason is listed in Reasons.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
	Reasons []string
}

// WidgetUpdated publishes shared events and any explicitly listed reason.
func (h *NotificationsHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if eventViewer(event) != "" && !slices.Contains(h.Reasons, event.Reason) {
		return nil
	}
	channel := h.Channel
	if channel == "" {
		channel = "dashboard"
	}
	return h.Client.PublishDashboardEvent(ctx, channel, event)
}

// RefreshHooks calls every hook in order and joins their errors.
type RefreshHooks []RefreshHook

// WidgetUpdated implements RefreshHook.
func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
