package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// OrganizationRepository handles organization-related database operations.
type OrganizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetByID returns the organization with its billing fields.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	query := `
		SELECT
			id
		  , name
		  , subscription_status
		  , subscription_end_date
		  , created_at
		FROM organizations
		WHERE id = $1
	`

	var (
		org     models.Organization
		status  sql.NullString
		endDate sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &status, &endDate, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrOrganizationNotFound
		}

		return nil, fmt.Errorf("failed to query organization: %w", err)
	}

	org.SubscriptionStatus = models.SubscriptionStatus(status.String)

	if endDate.Valid {
		end := endDate.Time.UTC()
		org.SubscriptionEndDate = &end
	}

	return &org, nil
}

// Save upserts an organization.
func (r *OrganizationRepository) Save(ctx context.Context, org *models.Organization) error {
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO organizations (id, name, subscription_status, subscription_end_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			subscription_status = EXCLUDED.subscription_status,
			subscription_end_date = EXCLUDED.subscription_end_date
	`

	var endDate sql.NullTime
	if org.SubscriptionEndDate != nil {
		endDate = sql.NullTime{Time: *org.SubscriptionEndDate, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.Name,
		nullString(string(org.SubscriptionStatus)),
		endDate,
		org.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}

	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
