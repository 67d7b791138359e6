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

// NotificationRepository stores notifications, their per-event settings and email delivery data.
type NotificationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// InsertNotifications inserts all rows in one transaction.
func (r *NotificationRepository) InsertNotifications(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rbErr := tx.Rollback()
			if rbErr != nil {
				r.logger.ErrorContext(ctx, "failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	query := `
		INSERT INTO notifications (id, organization_id, user_id, event_code, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, notification := range notifications {
		if notification.ID == "" {
			var id uuid.UUID

			id, err = uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate notification ID: %w", err)
			}

			notification.ID = id.String()
		}

		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, query,
			notification.ID,
			notification.OrganizationID,
			notification.UserID,
			nullString(notification.EventCode),
			notification.Title,
			notification.Message,
			nullString(notification.Link),
			notification.Read,
			notification.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit notifications: %w", err)
	}

	return nil
}

// ListByUser returns the notifications of a user, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, organizationID, userID string) ([]*models.Notification, error) {
	query := `
		SELECT
			id
		  , organization_id
		  , user_id
		  , COALESCE(event_code, '')
		  , title
		  , message
		  , COALESCE(link, '')
		  , read
		  , created_at
		FROM notifications
		WHERE organization_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	notifications := make([]*models.Notification, 0)

	for rows.Next() {
		var n models.Notification

		err := rows.Scan(&n.ID, &n.OrganizationID, &n.UserID, &n.EventCode, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		notifications = append(notifications, &n)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// GetSetting returns the organization's setting for an event code.
func (r *NotificationRepository) GetSetting(ctx context.Context, organizationID, eventCode string) (*models.NotificationSetting, error) {
	query := `
		SELECT
			in_app_enabled
		  , email_enabled
		  , audience
		  , COALESCE(title_template, '')
		  , COALESCE(body_template, '')
		FROM notification_settings
		WHERE organization_id = $1 AND event_code = $2
	`

	setting := models.NotificationSetting{OrganizationID: organizationID, EventCode: eventCode}

	var audience []byte

	err := r.db.QueryRowContext(ctx, query, organizationID, eventCode).Scan(
		&setting.InAppEnabled,
		&setting.EmailEnabled,
		&audience,
		&setting.TitleTemplate,
		&setting.BodyTemplate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", eventCode, persistence.ErrNotificationSettingNotFound)
		}

		return nil, fmt.Errorf("failed to query notification setting: %w", err)
	}

	if len(audience) > 0 {
		err = json.Unmarshal(audience, &setting.Audience)
		if err != nil {
			return nil, fmt.Errorf("failed to decode notification audience: %w", err)
		}
	}

	return &setting, nil
}

// SaveSetting upserts a notification setting.
func (r *NotificationRepository) SaveSetting(ctx context.Context, setting *models.NotificationSetting) error {
	audience := setting.Audience
	if audience == nil {
		audience = []models.Role{}
	}

	audienceJSON, err := json.Marshal(audience)
	if err != nil {
		return fmt.Errorf("failed to marshal notification audience: %w", err)
	}

	query := `
		INSERT INTO notification_settings (
			organization_id, event_code, in_app_enabled, email_enabled, audience, title_template, body_template
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id, event_code) DO UPDATE SET
			in_app_enabled = EXCLUDED.in_app_enabled,
			email_enabled = EXCLUDED.email_enabled,
			audience = EXCLUDED.audience,
			title_template = EXCLUDED.title_template,
			body_template = EXCLUDED.body_template
	`

	_, err = r.db.ExecContext(ctx, query,
		setting.OrganizationID,
		setting.EventCode,
		setting.InAppEnabled,
		setting.EmailEnabled,
		audienceJSON,
		nullString(setting.TitleTemplate),
		nullString(setting.BodyTemplate),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification setting: %w", err)
	}

	return nil
}

// GetEmailProvider returns the email provider configured for an organization.
func (r *NotificationRepository) GetEmailProvider(ctx context.Context, organizationID string) (*models.EmailProvider, error) {
	provider := models.EmailProvider{OrganizationID: organizationID}

	err := r.db.QueryRowContext(ctx,
		`SELECT provider, from_address, COALESCE(from_name, ''), verified FROM email_providers WHERE organization_id = $1`,
		organizationID,
	).Scan(&provider.Provider, &provider.FromAddress, &provider.FromName, &provider.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrEmailProviderNotFound
		}

		return nil, fmt.Errorf("failed to query email provider: %w", err)
	}

	return &provider, nil
}

// SaveEmailProvider upserts the email provider of an organization.
func (r *NotificationRepository) SaveEmailProvider(ctx context.Context, provider *models.EmailProvider) error {
	query := `
		INSERT INTO email_providers (organization_id, provider, from_address, from_name, verified)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			from_address = EXCLUDED.from_address,
			from_name = EXCLUDED.from_name,
			verified = EXCLUDED.verified
	`

	_, err := r.db.ExecContext(ctx, query,
		provider.OrganizationID,
		provider.Provider,
		provider.FromAddress,
		nullString(provider.FromName),
		provider.Verified,
	)
	if err != nil {
		return fmt.Errorf("failed to save email provider: %w", err)
	}

	return nil
}

// InsertDeliveryLog records one email send attempt.
func (r *NotificationRepository) InsertDeliveryLog(ctx context.Context, log *models.EmailDeliveryLog) error {
	if log.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate delivery log ID: %w", err)
		}

		log.ID = id.String()
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO email_delivery_logs (id, organization_id, event_code, recipient, subject, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.OrganizationID,
		nullString(log.EventCode),
		log.Recipient,
		nullString(log.Subject),
		string(log.Status),
		nullString(log.Error),
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email delivery log: %w", err)
	}

	return nil
}
