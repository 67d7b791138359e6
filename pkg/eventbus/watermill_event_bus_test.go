package eventbus_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/hirelane/hirelane/pkg/channels/gochannel"
	"github.com/hirelane/hirelane/pkg/eventbus"
	"github.com/hirelane/hirelane/pkg/events"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	pub, sub := gochannel.CreateChannel(watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(pub, sub, logger)

	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_DeliversTypedEvent(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	received := make(chan *events.WorkflowTriggered, 1)

	require.NoError(t, bus.Handle(events.WorkflowTriggeredEvent, func(_ context.Context, event any) error {
		triggered, ok := event.(*events.WorkflowTriggered)
		assert.True(t, ok)
		received <- triggered

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "wf-1", events.WorkflowTriggered{
		BaseEvent:   events.NewBaseEvent(events.WorkflowTriggeredEvent, "org-1", "wf-1"),
		TriggerType: models.TriggerApplicationReceived,
		Context:     models.WorkflowContext{OrganizationID: "org-1"},
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "wf-1", event.WorkflowID)
		assert.Equal(t, models.TriggerApplicationReceived, event.TriggerType)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_IgnoresUnhandledTypes(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	received := make(chan struct{}, 1)

	require.NoError(t, bus.Handle(events.WorkflowExecutionFailedEvent, func(context.Context, any) error {
		received <- struct{}{}

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "wf-1", events.WorkflowExecutionCompleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowExecutionCompletedEvent, "org-1", "wf-1"),
	}))

	select {
	case <-received:
		t.Fatal("handler for another event type was called")
	case <-time.After(100 * time.Millisecond):
	}
}
