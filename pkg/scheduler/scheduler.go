// Package scheduler fires time based workflows on their cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/robfig/cron/v3"
)

const DefaultReloadInterval = time.Minute

// Dispatcher starts one workflow run without waiting for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, wf *models.Workflow, wctx models.WorkflowContext)
}

type entry struct {
	spec     string
	id       cron.EntryID
	workflow *models.Workflow
}

type Scheduler struct {
	workflows  persistence.WorkflowRepository
	dispatcher Dispatcher
	logger     *slog.Logger
	cron       *cron.Cron
	interval   time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*Scheduler)

// WithReloadInterval sets how often the active time based workflows are reloaded.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *Scheduler) { s.interval = interval }
}

func New(workflows persistence.WorkflowRepository, dispatcher Dispatcher, logger *slog.Logger, opts ...Option) *Scheduler {
	logger = logger.With("module", "scheduler")

	s := &Scheduler{
		workflows:  workflows,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   DefaultReloadInterval,
		entries:    make(map[string]entry),
	}

	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)

	return s
}

// Start loads the schedules, starts the cron loop and keeps reloading until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	err := s.Reload(ctx)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "scheduler started", "workflows", s.Len(), "reload_interval", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := s.Reload(ctx)
				if err != nil {
					s.logger.ErrorContext(ctx, "failed to reload schedules", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop halts the cron loop and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Reload syncs the cron entries with the active time based workflows of every organization.
func (s *Scheduler) Reload(ctx context.Context) error {
	workflows, err := s.workflows.ListActiveByTriggerType(ctx, models.TriggerTimeBased)
	if err != nil {
		return fmt.Errorf("failed to list time based workflows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(workflows))

	for _, wf := range workflows {
		seen[wf.ID] = struct{}{}

		trigger, ok := wf.Trigger.(models.TimeBasedTrigger)
		if !ok {
			s.logger.WarnContext(ctx, "time based workflow without schedule", "workflow_id", wf.ID)
			s.remove(wf.ID)

			continue
		}

		spec, err := CronSpec(trigger)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping workflow with invalid schedule", "workflow_id", wf.ID, "error", err)
			s.remove(wf.ID)

			continue
		}

		if current, ok := s.entries[wf.ID]; ok {
			if current.spec == spec {
				current.workflow = wf
				s.entries[wf.ID] = current

				continue
			}

			s.remove(wf.ID)
		}

		id, err := s.cron.AddJob(spec, s.job(wf.ID))
		if err != nil {
			s.logger.WarnContext(ctx, "failed to schedule workflow", "workflow_id", wf.ID, "error", err)

			continue
		}

		s.entries[wf.ID] = entry{spec: spec, id: id, workflow: wf}
		s.logger.DebugContext(ctx, "workflow scheduled", "workflow_id", wf.ID, "cron", spec)
	}

	for workflowID := range s.entries {
		if _, ok := seen[workflowID]; !ok {
			s.remove(workflowID)
		}
	}

	return nil
}

// remove drops the entry of workflowID. Callers hold s.mu.
func (s *Scheduler) remove(workflowID string) {
	current, ok := s.entries[workflowID]
	if !ok {
		return
	}

	s.cron.Remove(current.id)
	delete(s.entries, workflowID)
}

// Len returns the number of scheduled workflows.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Spec returns the cron expression a workflow is scheduled with.
func (s *Scheduler) Spec(workflowID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[workflowID]

	return current.spec, ok
}

// job loads the workflow at fire time so edits and deactivations take effect without rescheduling.
func (s *Scheduler) job(workflowID string) cron.Job {
	return cron.FuncJob(func() { s.fire(context.Background(), workflowID) })
}

func (s *Scheduler) fire(ctx context.Context, workflowID string) {
	s.mu.Lock()
	current, ok := s.entries[workflowID]
	s.mu.Unlock()

	if !ok {
		return
	}

	wf, err := s.workflows.GetByID(ctx, current.workflow.OrganizationID, workflowID)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			s.logger.InfoContext(ctx, "scheduled workflow was deleted", "workflow_id", workflowID)
			s.drop(workflowID)

			return
		}

		s.logger.ErrorContext(ctx, "failed to load scheduled workflow", "workflow_id", workflowID, "error", err)

		return
	}

	if !wf.IsActive || wf.TriggerType != models.TriggerTimeBased {
		s.logger.InfoContext(ctx, "scheduled workflow is no longer active", "workflow_id", workflowID)
		s.drop(workflowID)

		return
	}

	s.logger.InfoContext(ctx, "schedule fired", "workflow_id", wf.ID, "organization_id", wf.OrganizationID)

	s.dispatcher.Dispatch(ctx, wf, models.WorkflowContext{
		OrganizationID: wf.OrganizationID,
		TriggeredBy:    "scheduler",
	})
}

func (s *Scheduler) drop(workflowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(workflowID)
}
