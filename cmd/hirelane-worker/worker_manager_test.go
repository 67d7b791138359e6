package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/events"
	"github.com/hirelane/hirelane/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []any
	err    error
}

func (h *recordingHandler) HandleTriggered(_ context.Context, event any) error {
	h.events = append(h.events, event)

	return h.err
}

type fakeSchedule struct {
	started, stopped bool
	err              error
}

func (s *fakeSchedule) Start(context.Context) error {
	s.started = true

	return s.err
}

func (s *fakeSchedule) Stop() { s.stopped = true }

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerManager_HandleWorkflowTriggered(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{err: errors.New("load failed")}
	wm := NewWorkerManager("w-1", &mocks.MockEventBus{}, handler, nil, newLogger())

	require.NoError(t, wm.handleWorkflowTriggered(context.Background(), "invalid-event"))
	assert.Empty(t, handler.events)

	event := &events.WorkflowTriggered{
		BaseEvent: events.NewBaseEvent(events.WorkflowTriggeredEvent, "org-1", "wf-1"),
	}

	err := wm.handleWorkflowTriggered(context.Background(), event)
	require.EqualError(t, err, "load failed")
	assert.Equal(t, []any{event}, handler.events)
}

func TestWorkerManager_StartRunsUntilCancelled(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("Handle", events.WorkflowTriggeredEvent, mock.Anything).Return(nil)
	bus.On("Subscribe", mock.Anything).Return(nil)

	schedule := &fakeSchedule{}
	wm := NewWorkerManager("w-1", bus, &recordingHandler{}, schedule, newLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, wm.Start(ctx))
	assert.True(t, schedule.started)
	assert.True(t, schedule.stopped)
	bus.AssertExpectations(t)
}

func TestWorkerManager_StartFailsWhenSubscribeFails(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("Handle", events.WorkflowTriggeredEvent, mock.Anything).Return(nil)
	bus.On("Subscribe", mock.Anything).Return(errors.New("broker down"))

	schedule := &fakeSchedule{}
	wm := NewWorkerManager("w-1", bus, &recordingHandler{}, schedule, newLogger())

	require.EqualError(t, wm.Start(context.Background()), "broker down")
	assert.False(t, schedule.started)
}
