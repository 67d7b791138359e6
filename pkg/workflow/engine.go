// Package workflow runs the automation rules of an organization when a domain event occurs.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirelane/hirelane/pkg/eventbus"
	"github.com/hirelane/hirelane/pkg/events"
	"github.com/hirelane/hirelane/pkg/locker"
	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/otelhelper"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is the outcome of one ExecuteWorkflow call.
type Result struct {
	Success     bool   `json:"success"`
	Skipped     bool   `json:"skipped,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
}

// Dispatcher hands one matched workflow over for execution without waiting for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext)
}

// Engine loads the workflows matching an event and executes their actions.
type Engine struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	registry   *registry.Registry
	logger     *slog.Logger

	dispatcher Dispatcher
	locker     locker.Locker
	publisher  eventbus.EventPublisher
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

type Option func(*Engine)

// WithDispatcher replaces the in-process Runner, for example with a BusDispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) { e.dispatcher = d }
}

// WithLocker serializes the actions of executions touching the same application.
func WithLocker(l locker.Locker) Option {
	return func(e *Engine) { e.locker = l }
}

// WithPublisher publishes an outcome event after every execution.
func WithPublisher(p eventbus.EventPublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	reg *registry.Registry,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		workflows:  workflows,
		executions: executions,
		registry:   reg,
		logger:     logger.With("module", "workflow_engine"),
		locker:     locker.NewMemoryLocker(),
		tracer:     otelhelper.NoopTracer(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.dispatcher == nil {
		e.dispatcher = NewRunner(e, logger)
	}

	return e
}

// TriggerWorkflows dispatches every active workflow of wctx.OrganizationID listening for triggerType.
// It returns once the workflows are handed over and never reports their outcome.
func (e *Engine) TriggerWorkflows(ctx context.Context, triggerType models.TriggerType, wctx models.WorkflowContext) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.trigger",
		attribute.String(otelhelper.OrganizationIDKey, wctx.OrganizationID),
		attribute.String(otelhelper.TriggerTypeKey, string(triggerType)),
	)
	defer span.End()

	logger := e.logger.With("organization_id", wctx.OrganizationID, "trigger_type", triggerType)

	workflows, err := e.workflows.ListActiveByTrigger(ctx, wctx.OrganizationID, triggerType)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "failed to load workflows, treating as none configured", "error", err)

		return
	}

	logger.DebugContext(ctx, "dispatching workflows", "count", len(workflows))

	for _, wf := range workflows {
		if wf.OrganizationID != wctx.OrganizationID || wf.TriggerType != triggerType || !wf.IsActive {
			logger.WarnContext(ctx, "ignoring workflow outside the trigger scope", "workflow_id", wf.ID)

			continue
		}

		e.dispatcher.Dispatch(ctx, wf, wctx)
	}
}

// Dispatch hands a single workflow to the configured dispatcher.
func (e *Engine) Dispatch(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext) {
	e.dispatcher.Dispatch(ctx, wf, wctx)
}

// Wait blocks until every workflow dispatched in-process has finished.
func (e *Engine) Wait() {
	if w, ok := e.dispatcher.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// ExecuteWorkflow records an execution, checks the trigger conditions and runs the actions in order.
func (e *Engine) ExecuteWorkflow(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext) Result {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.OrganizationIDKey, wf.OrganizationID),
		attribute.String(otelhelper.WorkflowIDKey, wf.ID),
		attribute.String(otelhelper.WorkflowNameKey, wf.Name),
		attribute.String(otelhelper.TriggerTypeKey, string(wf.TriggerType)),
	)
	defer span.End()

	logger := e.logger.With("workflow_id", wf.ID, "organization_id", wf.OrganizationID)
	started := e.now().UTC()

	execution := &models.WorkflowExecution{
		WorkflowID:     wf.ID,
		OrganizationID: wf.OrganizationID,
		TriggerType:    wf.TriggerType,
		TriggerData:    wctx,
		Status:         models.ExecutionStatusRunning,
		StartedAt:      started,
	}

	err := e.executions.Create(ctx, execution)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "failed to record execution, actions not run", "error", err)
		e.metrics.ExecutionFinished("not_recorded")

		return Result{Success: false, Error: fmt.Sprintf("failed to record execution: %v", err)}
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))
	logger = logger.With("execution_id", execution.ID)

	holds, reason := CheckTriggerConditions(wf, wctx)
	if !holds {
		logger.InfoContext(ctx, "trigger conditions not met, skipping", "reason", reason)
		e.finish(ctx, logger, execution, models.ExecutionStatusCompleted, map[string]any{"skipped": true, "reason": reason}, "")
		e.metrics.ExecutionFinished("skipped")
		e.publish(ctx, logger, events.WorkflowExecutionSkipped{
			BaseEvent:   events.NewBaseEvent(events.WorkflowExecutionSkippedEvent, wf.OrganizationID, wf.ID),
			ExecutionID: execution.ID,
			Reason:      reason,
		})

		return Result{Success: true, Skipped: true, Reason: reason, ExecutionID: execution.ID}
	}

	actionResults, err := e.runActions(ctx, logger, wf, wctx)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "workflow execution failed", "error", err)
		e.finish(ctx, logger, execution, models.ExecutionStatusFailed, map[string]any{"actions": actionResults}, err.Error())
		e.metrics.ExecutionFinished(string(models.ExecutionStatusFailed))
		e.publish(ctx, logger, events.WorkflowExecutionFailed{
			BaseEvent:   events.NewBaseEvent(events.WorkflowExecutionFailedEvent, wf.OrganizationID, wf.ID),
			ExecutionID: execution.ID,
			Error:       err.Error(),
			Duration:    e.now().Sub(started),
		})

		return Result{Success: false, Error: err.Error(), ExecutionID: execution.ID}
	}

	logger.InfoContext(ctx, "workflow execution completed", "actions", len(wf.Actions))
	e.finish(ctx, logger, execution, models.ExecutionStatusCompleted, map[string]any{"actions": actionResults}, "")
	e.metrics.ExecutionFinished(string(models.ExecutionStatusCompleted))
	e.publish(ctx, logger, events.WorkflowExecutionCompleted{
		BaseEvent:   events.NewBaseEvent(events.WorkflowExecutionCompletedEvent, wf.OrganizationID, wf.ID),
		ExecutionID: execution.ID,
		Duration:    e.now().Sub(started),
	})

	return Result{Success: true, ExecutionID: execution.ID}
}

// runActions executes the declared actions in order and stops at the first failure.
func (e *Engine) runActions(
	ctx context.Context,
	logger *slog.Logger,
	wf *models.Workflow,
	wctx models.WorkflowContext,
) ([]map[string]any, error) {
	results := make([]map[string]any, 0, len(wf.Actions))

	if len(wf.Actions) == 0 {
		return results, nil
	}

	if applicationID := wctx.ApplicationID(); applicationID != "" {
		release, err := e.locker.Lock(ctx, "application:"+wctx.OrganizationID+":"+applicationID)
		if err != nil {
			return results, fmt.Errorf("failed to lock application %s: %w", applicationID, err)
		}

		defer func() {
			err := release(ctx)
			if err != nil {
				logger.WarnContext(ctx, "failed to release application lock", "application_id", applicationID, "error", err)
			}
		}()
	}

	for index, item := range wf.Actions {
		entry := map[string]any{"index": index, "type": string(item.Type)}

		action, err := e.registry.CreateAction(item.Type, item.Config)
		if errors.Is(err, registry.ErrUnknownActionType) {
			logger.WarnContext(ctx, "unknown action type, skipping", "action_type", item.Type, "action_index", index)
			e.metrics.ActionFinished(string(item.Type), "unknown")

			entry["skipped"] = "unknown action type"
			results = append(results, entry)

			continue
		}

		if err != nil {
			e.metrics.ActionFinished(string(item.Type), "failed")
			entry["error"] = err.Error()
			results = append(results, entry)

			return results, fmt.Errorf("action %d (%s): %w", index, item.Type, err)
		}

		output, err := e.executeAction(ctx, action, item.Type, index, wctx)
		if err != nil {
			e.metrics.ActionFinished(string(item.Type), "failed")
			entry["error"] = err.Error()
			results = append(results, entry)

			return results, fmt.Errorf("action %d (%s): %w", index, item.Type, err)
		}

		e.metrics.ActionFinished(string(item.Type), "succeeded")
		logger.DebugContext(ctx, "action completed", "action_type", item.Type, "action_index", index)

		entry["output"] = output
		results = append(results, entry)
	}

	return results, nil
}

func (e *Engine) executeAction(
	ctx context.Context,
	action registry.Action,
	actionType models.ActionType,
	index int,
	wctx models.WorkflowContext,
) (output map[string]any, err error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.action",
		attribute.String(otelhelper.ActionTypeKey, string(actionType)),
		attribute.Int(otelhelper.ActionIndexKey, index),
		attribute.String(otelhelper.ApplicationIDKey, wctx.ApplicationID()),
	)
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("action panicked: %v", recovered)
		}

		if err != nil {
			otelhelper.SetError(span, err)
		}
	}()

	return action.Execute(ctx, wctx)
}

func (e *Engine) finish(
	ctx context.Context,
	logger *slog.Logger,
	execution *models.WorkflowExecution,
	status models.ExecutionStatus,
	result map[string]any,
	errorMessage string,
) {
	if !execution.Status.CanTransitionTo(status) {
		logger.ErrorContext(ctx, "illegal execution transition", "from", execution.Status, "to", status)

		return
	}

	completed := e.now().UTC()
	execution.Status = status
	execution.Result = result
	execution.ErrorMessage = errorMessage
	execution.CompletedAt = &completed

	err := e.executions.Update(ctx, execution)
	if err != nil {
		logger.ErrorContext(ctx, "failed to record execution outcome", "status", status, "error", err)
	}
}

func (e *Engine) publish(ctx context.Context, logger *slog.Logger, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, string(event.GetType()), event)
	if err != nil {
		logger.WarnContext(ctx, "failed to publish execution outcome", "event_type", event.GetType(), "error", err)
	}
}
