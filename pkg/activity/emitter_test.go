package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterStampsDefaultChannel(t *testing.T) {
	hook := &CaptureHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true})
	require.True(t, em.Enabled())

	err := em.Emit(context.Background(), Event{
		Verb:           "dashboard.table.row_click",
		ObjectType:     "widget",
		ObjectID:       "orders-1",
		DefinitionCode: "admin.widget.order_list",
		Metadata:       map[string]any{"row_id": "CMB803"},
	})
	require.NoError(t, err)

	events := hook.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, DefaultChannel, events[0].Channel)
	assert.Equal(t, "CMB803", events[0].Metadata["row_id"])
}

func TestEmitterKeepsExplicitChannel(t *testing.T) {
	hook := &CaptureHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true, Channel: "ops"})

	require.NoError(t, em.Emit(context.Background(), Event{Verb: "dashboard.select.choose"}))
	require.NoError(t, em.Emit(context.Background(), Event{Verb: "dashboard.select.choose", Channel: "audit"}))

	events := hook.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "ops", events[0].Channel)
	assert.Equal(t, "audit", events[1].Channel)
}

func TestEmitterDisabled(t *testing.T) {
	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter disabled without hooks")
	}
	hook := &CaptureHook{}
	em := NewEmitter(Hooks{hook}, Config{})
	require.NoError(t, em.Emit(context.Background(), Event{Verb: "dashboard.widget.remove"}))
	assert.Empty(t, hook.Snapshot())

	var nilEmitter *Emitter
	assert.False(t, nilEmitter.Enabled())
}

func TestEmitterJoinsHookErrors(t *testing.T) {
	boom := errors.New("sink down")
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{
		HookFunc(func(context.Context, Event) error { return boom }),
		capture,
	}, Config{Enabled: true})

	err := em.Emit(context.Background(), Event{Verb: "dashboard.table.row_click"})
	require.ErrorIs(t, err, boom)
	assert.Len(t, capture.Snapshot(), 1, "later hooks still run")
}
