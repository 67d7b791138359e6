package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
	"github.com/hirelane/hirelane/pkg/scheduler"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: persistence,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateWorkflowRequest is the body accepted when an admin defines a workflow.
type CreateWorkflowRequest struct {
	Name          string              `json:"name"           validate:"required,min=3,max=255"`
	Description   string              `json:"description"    validate:"max=2000"`
	TriggerType   models.TriggerType  `json:"trigger_type"   validate:"required"`
	TriggerConfig json.RawMessage     `json:"trigger_config"`
	Actions       []models.ActionItem `json:"actions"        validate:"max=50"`
	IsActive      bool                `json:"is_active"`
}

// Create validates req and stores it as a workflow of organizationID.
func (w *Workflow) Create(ctx context.Context, organizationID string, req CreateWorkflowRequest) (*models.Workflow, error) {
	if organizationID == "" {
		return nil, ErrOrganizationRequired
	}

	err := w.validate.Struct(req)
	if err != nil {
		return nil, NewValidationError("Create", "INVALID_REQUEST", err.Error(), ErrInvalidRequest)
	}

	trigger, err := w.validateTrigger(req.TriggerType, req.TriggerConfig)
	if err != nil {
		return nil, err
	}

	err = w.validateActions(req.Actions)
	if err != nil {
		return nil, err
	}

	actions := req.Actions
	if actions == nil {
		actions = []models.ActionItem{}
	}

	workflow := &models.Workflow{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		TriggerType:    req.TriggerType,
		Trigger:        trigger,
		Actions:        actions,
		IsActive:       req.IsActive,
	}

	err = w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

func (w *Workflow) validateTrigger(triggerType models.TriggerType, raw json.RawMessage) (models.TriggerConfig, error) {
	if !triggerType.Valid() {
		return nil, NewValidationError("Create", "INVALID_TRIGGER_TYPE",
			fmt.Sprintf("unsupported trigger type %q", triggerType), ErrInvalidTriggerType)
	}

	trigger, err := models.DecodeTriggerConfig(triggerType, raw)
	if err != nil {
		return nil, NewValidationError("Create", "INVALID_TRIGGER_CONFIG", err.Error(), ErrInvalidTriggerConfig)
	}

	switch t := trigger.(type) {
	case models.ScoreThresholdTrigger:
		if t.ScoreThreshold == nil {
			return nil, NewValidationError("Create", "INVALID_TRIGGER_CONFIG",
				"scoreThreshold is required", ErrInvalidTriggerConfig)
		}

		if t.ScoreComparison != models.ScoreAbove && t.ScoreComparison != models.ScoreBelow {
			return nil, NewValidationError("Create", "INVALID_TRIGGER_CONFIG",
				fmt.Sprintf("scoreComparison must be %q or %q", models.ScoreAbove, models.ScoreBelow), ErrInvalidTriggerConfig)
		}
	case models.TimeBasedTrigger:
		_, err := scheduler.CronSpec(t)
		if err != nil {
			return nil, NewValidationError("Create", "INVALID_TRIGGER_CONFIG", err.Error(), ErrInvalidTriggerConfig)
		}
	}

	return trigger, nil
}

func (w *Workflow) validateActions(actions []models.ActionItem) error {
	for index, item := range actions {
		err := w.registry.ValidateConfig(item.Type, item.Config)
		if err == nil {
			_, err = w.registry.CreateAction(item.Type, item.Config)
		}

		if err != nil {
			code := "INVALID_ACTION_CONFIG"
			if errors.Is(err, registry.ErrUnknownActionType) {
				code = "UNKNOWN_ACTION_TYPE"
			}

			return NewValidationError("Create", code, fmt.Sprintf("action %d: %v", index, err), ErrInvalidAction)
		}
	}

	return nil
}

// List returns the workflows of an organization, newest first.
func (w *Workflow) List(ctx context.Context, organizationID string) ([]*models.Workflow, error) {
	if organizationID == "" {
		return nil, ErrOrganizationRequired
	}

	workflows, err := w.persistence.WorkflowRepository().ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow of organizationID.
func (w *Workflow) FetchByID(ctx context.Context, organizationID, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// SetActive activates or deactivates a workflow.
func (w *Workflow) SetActive(ctx context.Context, organizationID, id string, active bool) (*models.Workflow, error) {
	workflow, err := w.FetchByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if workflow.IsActive == active {
		return workflow, nil
	}

	workflow.IsActive = active

	err = w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// ListExecutions returns the execution audit log of a workflow, newest first.
func (w *Workflow) ListExecutions(ctx context.Context, organizationID, id string) ([]*models.WorkflowExecution, error) {
	_, err := w.FetchByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	executions, err := w.persistence.ExecutionRepository().ListByWorkflow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return executions, nil
}
