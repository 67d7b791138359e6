package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// ExecutionRepository handles workflow execution audit rows.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionSelect = `
		SELECT
			id
		  , workflow_id
		  , organization_id
		  , trigger_type
		  , trigger_data
		  , status
		  , result
		  , COALESCE(error_message, '')
		  , started_at
		  , completed_at
		FROM workflow_executions
`

// Create inserts a new execution row, assigning an id when missing.
func (r *ExecutionRepository) Create(ctx context.Context, execution *models.WorkflowExecution) error {
	if execution.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate execution ID: %w", err)
		}

		execution.ID = id.String()
	}

	triggerData, err := json.Marshal(execution.TriggerData)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	result, err := marshalResult(execution.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, organization_id, trigger_type, trigger_data, status, result, error_message, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.OrganizationID,
		string(execution.TriggerType),
		triggerData,
		string(execution.Status),
		result,
		nullString(execution.ErrorMessage),
		execution.StartedAt,
		execution.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow execution: %w", err)
	}

	return nil
}

// Update writes the mutable fields of an execution.
func (r *ExecutionRepository) Update(ctx context.Context, execution *models.WorkflowExecution) error {
	result, err := marshalResult(execution.Result)
	if err != nil {
		return err
	}

	query := `
		UPDATE workflow_executions
		SET status = $2, result = $3, error_message = $4, completed_at = $5
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		execution.ID,
		string(execution.Status),
		result,
		nullString(execution.ErrorMessage),
		execution.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow execution: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("execution %s: %w", execution.ID, persistence.ErrExecutionNotFound)
	}

	return nil
}

// GetByID returns one execution.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	execution, err := scanExecution(r.db.QueryRowContext(ctx, executionSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("execution %s: %w", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to query workflow execution: %w", err)
	}

	return execution, nil
}

// ListByWorkflow returns the executions of a workflow, most recent first.
func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	rows, err := r.db.QueryContext(ctx, executionSelect+` WHERE workflow_id = $1 ORDER BY started_at DESC`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow executions: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	executions := make([]*models.WorkflowExecution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflow executions: %w", err)
	}

	return executions, nil
}

func marshalResult(result map[string]any) ([]byte, error) {
	if result == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execution result: %w", err)
	}

	return encoded, nil
}

func scanExecution(row rowScanner) (*models.WorkflowExecution, error) {
	var (
		execution   models.WorkflowExecution
		triggerType string
		status      string
		triggerData []byte
		result      []byte
		completedAt sql.NullTime
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.OrganizationID,
		&triggerType,
		&triggerData,
		&status,
		&result,
		&execution.ErrorMessage,
		&execution.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	execution.TriggerType = models.TriggerType(triggerType)
	execution.Status = models.ExecutionStatus(status)

	if len(triggerData) > 0 {
		err = json.Unmarshal(triggerData, &execution.TriggerData)
		if err != nil {
			return nil, fmt.Errorf("failed to decode trigger data: %w", err)
		}
	}

	if len(result) > 0 {
		err = json.Unmarshal(result, &execution.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to decode execution result: %w", err)
		}
	}

	if completedAt.Valid {
		completed := completedAt.Time
		execution.CompletedAt = &completed
	}

	return &execution, nil
}
