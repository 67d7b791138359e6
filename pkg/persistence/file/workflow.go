package file

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// WorkflowRepository handles workflow-related file operations.
type WorkflowRepository struct {
	workflows collection[models.Workflow]
}

// Save saves a workflow to the file system.
func (r *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	if workflow.Actions == nil {
		workflow.Actions = []models.ActionItem{}
	}

	err := r.workflows.put(recordKey(workflow.ID), workflow)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.OrganizationID, workflow.ID, err)
	}

	return nil
}

// GetByID retrieves a workflow scoped to its organization.
func (r *WorkflowRepository) GetByID(_ context.Context, organizationID, id string) (*models.Workflow, error) {
	workflow, err := r.workflows.get(recordKey(id))
	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", organizationID, id, err)
	}

	if workflow == nil || workflow.OrganizationID != organizationID {
		return nil, persistence.NewWorkflowError("GetByID", organizationID, id, persistence.ErrWorkflowNotFound)
	}

	return workflow, nil
}

func (r *WorkflowRepository) ListByOrganization(_ context.Context, organizationID string) ([]*models.Workflow, error) {
	workflows, err := r.filter(func(w *models.Workflow) bool {
		return w.OrganizationID == organizationID
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(workflows)

	return workflows, nil
}

func (r *WorkflowRepository) ListActiveByTrigger(
	_ context.Context,
	organizationID string,
	triggerType models.TriggerType,
) ([]*models.Workflow, error) {
	return r.filter(func(w *models.Workflow) bool {
		return w.OrganizationID == organizationID && w.TriggerType == triggerType && w.IsActive
	})
}

func (r *WorkflowRepository) ListActiveByTriggerType(_ context.Context, triggerType models.TriggerType) ([]*models.Workflow, error) {
	return r.filter(func(w *models.Workflow) bool {
		return w.TriggerType == triggerType && w.IsActive
	})
}

// filter returns matching workflows ordered by creation time, then id.
func (r *WorkflowRepository) filter(match func(*models.Workflow) bool) ([]*models.Workflow, error) {
	all, err := r.workflows.all()
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(all))

	for _, workflow := range all {
		if match(workflow) {
			workflows = append(workflows, workflow)
		}
	}

	slices.SortFunc(workflows, func(a, b *models.Workflow) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return workflows, nil
}

// ExecutionRepository stores execution audit rows as JSON files.
type ExecutionRepository struct {
	executions collection[models.WorkflowExecution]
}

func (r *ExecutionRepository) Create(_ context.Context, execution *models.WorkflowExecution) error {
	if execution.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate execution ID: %w", err)
		}

		execution.ID = id.String()
	}

	return r.executions.put(recordKey(execution.ID), execution)
}

func (r *ExecutionRepository) Update(_ context.Context, execution *models.WorkflowExecution) error {
	found := false

	err := r.executions.update(recordKey(execution.ID), func(current *models.WorkflowExecution) *models.WorkflowExecution {
		if current == nil {
			return nil
		}

		found = true
		next := *current
		next.Status = execution.Status
		next.Result = execution.Result
		next.ErrorMessage = execution.ErrorMessage
		next.CompletedAt = execution.CompletedAt

		return &next
	})
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("execution %s: %w", execution.ID, persistence.ErrExecutionNotFound)
	}

	return nil
}

func (r *ExecutionRepository) GetByID(_ context.Context, id string) (*models.WorkflowExecution, error) {
	execution, err := r.executions.get(recordKey(id))
	if err != nil {
		return nil, err
	}

	if execution == nil {
		return nil, fmt.Errorf("execution %s: %w", id, persistence.ErrExecutionNotFound)
	}

	return execution, nil
}

// ListByWorkflow returns the executions of a workflow, most recent first.
func (r *ExecutionRepository) ListByWorkflow(_ context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	all, err := r.executions.all()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	executions := make([]*models.WorkflowExecution, 0)

	for _, execution := range all {
		if execution.WorkflowID == workflowID {
			executions = append(executions, execution)
		}
	}

	slices.SortFunc(executions, func(a, b *models.WorkflowExecution) int {
		return b.StartedAt.Compare(a.StartedAt)
	})

	return executions, nil
}
