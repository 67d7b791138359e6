package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/eventbus"
	"github.com/hirelane/hirelane/pkg/events"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// BusDispatcher publishes a workflow.triggered event per workflow; a worker executes it.
type BusDispatcher struct {
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewBusDispatcher(publisher eventbus.EventPublisher, logger *slog.Logger) *BusDispatcher {
	return &BusDispatcher{
		publisher: publisher,
		logger:    logger.With("module", "workflow_bus_dispatcher"),
	}
}

func (d *BusDispatcher) Dispatch(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext) {
	event := events.WorkflowTriggered{
		BaseEvent:   events.NewBaseEvent(events.WorkflowTriggeredEvent, wf.OrganizationID, wf.ID),
		TriggerType: wf.TriggerType,
		Context:     wctx,
	}

	err := d.publisher.Publish(context.WithoutCancel(ctx), wf.ID, event)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to publish workflow trigger",
			"workflow_id", wf.ID,
			"organization_id", wf.OrganizationID,
			"error", err,
		)
	}
}

// HandleTriggered executes the workflow named by a workflow.triggered event.
// Execution failures are recorded on the execution row and acknowledged; only
// failures to load the workflow are returned so the message is redelivered.
func (e *Engine) HandleTriggered(ctx context.Context, event any) error {
	triggered, ok := event.(*events.WorkflowTriggered)
	if !ok {
		e.logger.ErrorContext(ctx, "invalid event type for workflow.triggered", "event", fmt.Sprintf("%T", event))

		return nil
	}

	logger := e.logger.With("workflow_id", triggered.WorkflowID, "organization_id", triggered.OrganizationID, "event_id", triggered.ID)

	wf, err := e.workflows.GetByID(ctx, triggered.OrganizationID, triggered.WorkflowID)
	if err != nil {
		if errors.Is(err, persistence.ErrWorkflowNotFound) {
			logger.WarnContext(ctx, "triggered workflow no longer exists")

			return nil
		}

		return fmt.Errorf("failed to load workflow %s: %w", triggered.WorkflowID, err)
	}

	if !wf.IsActive {
		logger.InfoContext(ctx, "triggered workflow was deactivated, ignoring")

		return nil
	}

	result := e.ExecuteWorkflow(ctx, wf, triggered.Context)
	if !result.Success {
		logger.WarnContext(ctx, "workflow run failed", "execution_id", result.ExecutionID, "error", result.Error)
	}

	return nil
}
