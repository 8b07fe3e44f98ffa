// Package usersink records dashboard activity through a go-users activity sink.
package usersink

import (
	"context"
	"fmt"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

// Sink is the subset of the go-users activity sink used by the hook.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook maps activity events into go-users ActivityRecords.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify logs evt. Events without a verb are skipped.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	evt = activity.NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	record := types.ActivityRecord{
		UserID:     parseID(evt.UserID),
		ActorID:    parseID(evt.ActorID),
		TenantID:   parseID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       recordData(evt),
		OccurredAt: evt.OccurredAt,
	}
	if err := h.Sink.Log(ctx, record); err != nil {
		return fmt.Errorf("usersink: log %s: %w", evt.Verb, err)
	}
	return nil
}

func recordData(evt activity.Event) map[string]any {
	data := make(map[string]any, len(evt.Metadata)+2)
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	return data
}

// parseID returns uuid.Nil for identifiers that are not UUIDs, such as the
// e-mail style ids used by demo viewers.
func parseID(value string) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
