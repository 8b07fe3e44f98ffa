package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

// ActivityItem represents a recent activity entry displayed by the widget.
type ActivityItem struct {
	User    string        `json:"user"`
	Action  string        `json:"action"`
	Details string        `json:"details"`
	Ago     time.Duration `json:"ago"`
}

// ActivityFeed fetches recent activity entries for the current viewer.
type ActivityFeed interface {
	Recent(ctx context.Context, viewer ViewerContext, limit int) ([]ActivityItem, error)
}

// StaticActivityFeed returns fixed entries useful for demos/tests.
type StaticActivityFeed struct {
	Items []ActivityItem
}

// Recent returns up to limit items from the static list.
func (f StaticActivityFeed) Recent(_ context.Context, _ ViewerContext, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit >= len(f.Items) {
		return append([]ActivityItem{}, f.Items...), nil
	}
	return append([]ActivityItem{}, f.Items[:limit]...), nil
}

// CapturedActivityFeed lists the events held by an activity.CaptureHook,
// newest first. Viewers only see events scoped to their tenant.
type CapturedActivityFeed struct {
	Hook  *activity.CaptureHook
	Clock clock.Clock
}

// Recent returns up to limit captured events.
func (f CapturedActivityFeed) Recent(_ context.Context, viewer ViewerContext, limit int) ([]ActivityItem, error) {
	if f.Hook == nil {
		return nil, nil
	}
	now := time.Now()
	if f.Clock != nil {
		now = f.Clock.Now()
	}
	events := f.Hook.Snapshot()
	items := make([]ActivityItem, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		evt := events[i]
		if viewer.TenantID != "" && evt.TenantID != "" && evt.TenantID != viewer.TenantID {
			continue
		}
		items = append(items, ActivityItem{
			User:    firstNonEmpty(evt.ActorID, evt.UserID, "system"),
			Action:  describeVerb(evt.Verb),
			Details: strings.TrimSpace(evt.ObjectType + " " + evt.ObjectID),
			Ago:     now.Sub(evt.OccurredAt),
		})
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

// describeVerb turns "dashboard.table.row_click" into "table row click".
func describeVerb(verb string) string {
	verb = strings.TrimPrefix(verb, activity.DefaultChannel+".")
	return strings.NewReplacer(".", " ", "_", " ").Replace(verb)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DefaultActivityFeed provides placeholder entries for the demo widget.
func DefaultActivityFeed() ActivityFeed {
	return StaticActivityFeed{
		Items: []ActivityItem{
			{User: "Natalie Craig", Action: "placed order CMB801", Details: "Landing Page", Ago: 2 * time.Minute},
			{User: "Kate Morrison", Action: "completed order CMB802", Details: "CRM Admin pages", Ago: 14 * time.Minute},
			{User: "Drew Cano", Action: "updated the shipping address", Details: "Bogwell Avenue Cocoa", Ago: time.Hour},
			{User: "Orlando Diggs", Action: "approved order CMB804", Details: "Admin Dashboard", Ago: 20 * time.Hour},
			{User: "Andi Lane", Action: "rejected order CMB805", Details: "App Landing Page", Ago: 48 * time.Hour},
		},
	}
}
