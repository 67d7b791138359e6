package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// EmailTemplateRepository resolves organization email templates.
type EmailTemplateRepository struct {
	db *sql.DB
}

// NewEmailTemplateRepository creates a new email template repository.
func NewEmailTemplateRepository(db *sql.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{db: db}
}

func (r *EmailTemplateRepository) GetBySlug(ctx context.Context, organizationID, slug string) (*models.EmailTemplate, error) {
	template := models.EmailTemplate{OrganizationID: organizationID, Slug: slug}

	err := r.db.QueryRowContext(ctx,
		`SELECT subject, body FROM email_templates WHERE organization_id = $1 AND slug = $2`,
		organizationID, slug,
	).Scan(&template.Subject, &template.Body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", slug, persistence.ErrEmailTemplateNotFound)
		}

		return nil, fmt.Errorf("failed to query email template: %w", err)
	}

	return &template, nil
}

func (r *EmailTemplateRepository) Save(ctx context.Context, template *models.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (organization_id, slug, subject, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, slug) DO UPDATE SET
			subject = EXCLUDED.subject,
			body = EXCLUDED.body
	`

	_, err := r.db.ExecContext(ctx, query, template.OrganizationID, template.Slug, template.Subject, template.Body)
	if err != nil {
		return fmt.Errorf("failed to save email template: %w", err)
	}

	return nil
}
