package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hirelane/hirelane/pkg/models"
)

// Executor runs one workflow to completion.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext) Result
}

// ErrRunnerClosed is reported for dispatches that arrive after Wait started.
var ErrRunnerClosed = errors.New("workflow runner is closed")

// ErrorSink receives the failures of detached workflow runs.
type ErrorSink func(ctx context.Context, wf *models.Workflow, err error)

// Runner executes each dispatched workflow in its own goroutine, detached from the caller's cancellation.
type Runner struct {
	executor Executor
	sink     ErrorSink
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewRunner(executor Executor, logger *slog.Logger) *Runner {
	logger = logger.With("module", "workflow_runner")

	return &Runner{
		executor: executor,
		sink: func(ctx context.Context, wf *models.Workflow, err error) {
			logger.ErrorContext(ctx, "workflow run failed",
				"workflow_id", wf.ID,
				"organization_id", wf.OrganizationID,
				"error", err,
			)
		},
	}
}

// WithErrorSink replaces the default logging sink.
func (r *Runner) WithErrorSink(sink ErrorSink) *Runner {
	r.sink = sink

	return r
}

func (r *Runner) Dispatch(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext) {
	detached := context.WithoutCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.sink(detached, wf, ErrRunnerClosed)

		return
	}

	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		defer func() {
			if recovered := recover(); recovered != nil {
				r.sink(detached, wf, fmt.Errorf("workflow run panicked: %v", recovered))
			}
		}()

		result := r.executor.ExecuteWorkflow(detached, wf, wctx)
		if !result.Success {
			r.sink(detached, wf, errors.New(result.Error))
		}
	}()
}

// Wait stops accepting dispatches and blocks until every dispatched run has returned.
func (r *Runner) Wait() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
}
