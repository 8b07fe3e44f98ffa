package usersink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookRecordsRowClick(t *testing.T) {
	sink := &recordingSink{}
	clicked := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	userID := uuid.New()
	tenantID := uuid.New()

	err := Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:           " dashboard.table.row_click ",
		UserID:         userID.String(),
		ActorID:        "ada@example.com",
		TenantID:       tenantID.String(),
		ObjectType:     "order",
		ObjectID:       "CMB803",
		Channel:        "dashboard",
		DefinitionCode: "admin.widget.order_list",
		Recipients:     []string{"ops@example.com"},
		Metadata:       map[string]any{"widget_id": "orders-1"},
		OccurredAt:     clicked,
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, "dashboard.table.row_click", record.Verb)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, uuid.Nil, record.ActorID, "non uuid viewer ids map to nil")
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, "order", record.ObjectType)
	assert.Equal(t, "CMB803", record.ObjectID)
	assert.Equal(t, clicked, record.OccurredAt)
	assert.Equal(t, map[string]any{
		"widget_id":       "orders-1",
		"definition_code": "admin.widget.order_list",
		"recipients":      []string{"ops@example.com"},
	}, record.Data)
}

func TestHookStampsMissingTime(t *testing.T) {
	sink := &recordingSink{}
	require.NoError(t, Hook{Sink: sink}.Notify(context.Background(), activity.Event{Verb: "dashboard.select.choose"}))
	require.Len(t, sink.records, 1)
	assert.False(t, sink.records[0].OccurredAt.IsZero())
	assert.Empty(t, sink.records[0].Data)
}

func TestHookSkipsAndWraps(t *testing.T) {
	sink := &recordingSink{}
	require.NoError(t, Hook{Sink: sink}.Notify(context.Background(), activity.Event{Verb: "  "}))
	assert.Empty(t, sink.records, "blank verbs are skipped")

	require.NoError(t, Hook{}.Notify(context.Background(), activity.Event{Verb: "dashboard.widget.remove"}))

	sink.err = errors.New("users db offline")
	err := Hook{Sink: sink}.Notify(context.Background(), activity.Event{Verb: "dashboard.widget.remove"})
	require.ErrorIs(t, err, sink.err)
	assert.Contains(t, err.Error(), "dashboard.widget.remove")
}
