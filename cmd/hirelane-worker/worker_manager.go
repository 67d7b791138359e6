package main

import (
	"context"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/eventbus"
	"github.com/hirelane/hirelane/pkg/events"
)

// TriggerHandler executes the workflow named by a WorkflowTriggered event.
type TriggerHandler interface {
	HandleTriggered(ctx context.Context, event any) error
}

// Schedule fires time based workflows.
type Schedule interface {
	Start(ctx context.Context) error
	Stop()
}

type WorkerManager struct {
	id        string
	logger    *slog.Logger
	eventBus  eventbus.EventBus
	handler   TriggerHandler
	scheduler Schedule
}

// NewWorkerManager wires a worker. scheduler may be nil when another process owns the schedules.
func NewWorkerManager(
	id string,
	eventBus eventbus.EventBus,
	handler TriggerHandler,
	scheduler Schedule,
	logger *slog.Logger,
) *WorkerManager {
	return &WorkerManager{
		id:        id,
		logger:    logger.With("module", "hirelane-worker", "worker_id", id),
		eventBus:  eventBus,
		handler:   handler,
		scheduler: scheduler,
	}
}

// Start consumes triggered workflows until ctx is done.
func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager")

	err := w.eventBus.Handle(events.WorkflowTriggeredEvent, w.handleWorkflowTriggered)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	if w.scheduler != nil {
		err = w.scheduler.Start(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to start scheduler", "error", err)

			return err
		}

		defer w.scheduler.Stop()
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	<-ctx.Done()
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *WorkerManager) handleWorkflowTriggered(ctx context.Context, event any) error {
	triggered, ok := event.(*events.WorkflowTriggered)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for WorkflowTriggered")

		return nil
	}

	w.logger.DebugContext(ctx, "Processing workflow triggered event",
		"workflow_id", triggered.WorkflowID,
		"event_id", triggered.ID,
	)

	return w.handler.HandleTriggered(ctx, triggered)
}
