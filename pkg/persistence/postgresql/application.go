package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ApplicationRepository applies workflow actions to application rows.
// Updates that match no row are not an error.
type ApplicationRepository struct {
	db *sql.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// UpdateStatus sets the application status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, organizationID, applicationID, status string, at time.Time) error {
	return r.update(ctx, "status", organizationID, applicationID, status, at)
}

// UpdateStage moves the application to a pipeline stage.
func (r *ApplicationRepository) UpdateStage(ctx context.Context, organizationID, applicationID, stage string, at time.Time) error {
	return r.update(ctx, "pipeline_stage", organizationID, applicationID, stage, at)
}

// Assign sets the user the application is assigned to.
func (r *ApplicationRepository) Assign(ctx context.Context, organizationID, applicationID, userID string, at time.Time) error {
	return r.update(ctx, "assigned_to", organizationID, applicationID, userID, at)
}

// column is always one of the literals above.
func (r *ApplicationRepository) update(
	ctx context.Context,
	column, organizationID, applicationID, value string,
	at time.Time,
) error {
	query := `UPDATE applications SET ` + column + ` = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`

	_, err := r.db.ExecContext(ctx, query, value, at, applicationID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", column, err)
	}

	return nil
}
