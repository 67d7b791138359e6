package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowSelect = `
		SELECT
			id
		  , organization_id
		  , name
		  , description
		  , trigger_type
		  , trigger_config
		  , actions
		  , is_active
		  , created_at
		  , updated_at
		FROM workflows
`

// Save inserts or updates a workflow, assigning an id and timestamps when missing.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
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

	triggerConfig := []byte("{}")

	if workflow.Trigger != nil {
		encoded, err := json.Marshal(workflow.Trigger)
		if err != nil {
			return persistence.NewWorkflowError("Save", workflow.OrganizationID, workflow.ID, err)
		}

		triggerConfig = encoded
	}

	actions := workflow.Actions
	if actions == nil {
		actions = []models.ActionItem{}
	}

	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.OrganizationID, workflow.ID, err)
	}

	query := `
		INSERT INTO workflows (
			id, organization_id, name, description, trigger_type, trigger_config, actions, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			trigger_type = EXCLUDED.trigger_type,
			trigger_config = EXCLUDED.trigger_config,
			actions = EXCLUDED.actions,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		WHERE workflows.organization_id = EXCLUDED.organization_id
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.OrganizationID,
		workflow.Name,
		workflow.Description,
		string(workflow.TriggerType),
		triggerConfig,
		actionsJSON,
		workflow.IsActive,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.OrganizationID, workflow.ID, err)
	}

	return nil
}

// GetByID returns a workflow scoped to its organization.
func (r *WorkflowRepository) GetByID(ctx context.Context, organizationID, id string) (*models.Workflow, error) {
	row := r.db.QueryRowContext(ctx, workflowSelect+` WHERE organization_id = $1 AND id = $2`, organizationID, id)

	workflow, err := r.scanWorkflow(ctx, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("GetByID", organizationID, id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("GetByID", organizationID, id, err)
	}

	return workflow, nil
}

// ListByOrganization returns every workflow of an organization, newest first.
func (r *WorkflowRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Workflow, error) {
	return r.list(ctx, workflowSelect+` WHERE organization_id = $1 ORDER BY created_at DESC`, organizationID)
}

// ListActiveByTrigger returns the active workflows of one organization for a trigger type.
func (r *WorkflowRepository) ListActiveByTrigger(
	ctx context.Context,
	organizationID string,
	triggerType models.TriggerType,
) ([]*models.Workflow, error) {
	query := workflowSelect + `
		WHERE organization_id = $1 AND trigger_type = $2 AND is_active = true
		ORDER BY created_at, id
	`

	return r.list(ctx, query, organizationID, string(triggerType))
}

// ListActiveByTriggerType returns active workflows across organizations for a trigger type.
func (r *WorkflowRepository) ListActiveByTriggerType(ctx context.Context, triggerType models.TriggerType) ([]*models.Workflow, error) {
	query := workflowSelect + `
		WHERE trigger_type = $1 AND is_active = true
		ORDER BY organization_id, created_at, id
	`

	return r.list(ctx, query, string(triggerType))
}

func (r *WorkflowRepository) list(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := r.scanWorkflow(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

func (r *WorkflowRepository) scanWorkflow(ctx context.Context, row rowScanner) (*models.Workflow, error) {
	var (
		workflow      models.Workflow
		triggerType   string
		triggerConfig []byte
		actions       []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.OrganizationID,
		&workflow.Name,
		&workflow.Description,
		&triggerType,
		&triggerConfig,
		&actions,
		&workflow.IsActive,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	workflow.TriggerType = models.TriggerType(triggerType)

	trigger, err := models.DecodeTriggerConfig(workflow.TriggerType, triggerConfig)
	if err != nil {
		// Rows written by other writers may carry unknown types; keep them listable.
		r.logger.WarnContext(ctx, "failed to decode trigger config",
			"workflow_id", workflow.ID,
			"trigger_type", triggerType,
			"error", err,
		)
	} else {
		workflow.Trigger = trigger
	}

	if len(actions) > 0 {
		err = json.Unmarshal(actions, &workflow.Actions)
		if err != nil {
			return nil, fmt.Errorf("failed to decode actions of workflow %s: %w", workflow.ID, err)
		}
	}

	if workflow.Actions == nil {
		workflow.Actions = []models.ActionItem{}
	}

	return &workflow, nil
}
