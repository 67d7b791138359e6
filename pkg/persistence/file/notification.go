package file

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// EmailTemplateRepository stores email templates keyed by organization and slug.
type EmailTemplateRepository struct {
	templates collection[models.EmailTemplate]
}

func (r *EmailTemplateRepository) GetBySlug(_ context.Context, organizationID, slug string) (*models.EmailTemplate, error) {
	template, err := r.templates.get(recordKey(organizationID, slug))
	if err != nil {
		return nil, err
	}

	if template == nil {
		return nil, fmt.Errorf("template %s: %w", slug, persistence.ErrEmailTemplateNotFound)
	}

	return template, nil
}

func (r *EmailTemplateRepository) Save(_ context.Context, template *models.EmailTemplate) error {
	return r.templates.put(recordKey(template.OrganizationID, template.Slug), template)
}

// NotificationRepository stores notifications, settings, providers and delivery logs.
type NotificationRepository struct {
	notifications collection[models.Notification]
	settings      collection[models.NotificationSetting]
	providers     collection[models.EmailProvider]
	logs          collection[models.EmailDeliveryLog]
}

func (r *NotificationRepository) InsertNotifications(_ context.Context, notifications []*models.Notification) error {
	for _, notification := range notifications {
		if notification.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate notification ID: %w", err)
			}

			notification.ID = id.String()
		}

		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = time.Now().UTC()
		}

		err := r.notifications.put(recordKey(notification.ID), notification)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByUser returns the notifications of a user, newest first.
func (r *NotificationRepository) ListByUser(_ context.Context, organizationID, userID string) ([]*models.Notification, error) {
	all, err := r.notifications.all()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*models.Notification, 0)

	for _, notification := range all {
		if notification.OrganizationID == organizationID && notification.UserID == userID {
			notifications = append(notifications, notification)
		}
	}

	slices.SortFunc(notifications, func(a, b *models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return notifications, nil
}

func (r *NotificationRepository) GetSetting(_ context.Context, organizationID, eventCode string) (*models.NotificationSetting, error) {
	setting, err := r.settings.get(recordKey(organizationID, eventCode))
	if err != nil {
		return nil, err
	}

	if setting == nil {
		return nil, fmt.Errorf("event %s: %w", eventCode, persistence.ErrNotificationSettingNotFound)
	}

	return setting, nil
}

func (r *NotificationRepository) SaveSetting(_ context.Context, setting *models.NotificationSetting) error {
	return r.settings.put(recordKey(setting.OrganizationID, setting.EventCode), setting)
}

func (r *NotificationRepository) GetEmailProvider(_ context.Context, organizationID string) (*models.EmailProvider, error) {
	provider, err := r.providers.get(recordKey(organizationID))
	if err != nil {
		return nil, err
	}

	if provider == nil {
		return nil, persistence.ErrEmailProviderNotFound
	}

	return provider, nil
}

func (r *NotificationRepository) SaveEmailProvider(_ context.Context, provider *models.EmailProvider) error {
	return r.providers.put(recordKey(provider.OrganizationID), provider)
}

func (r *NotificationRepository) InsertDeliveryLog(_ context.Context, log *models.EmailDeliveryLog) error {
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

	return r.logs.put(recordKey(log.ID), log)
}

// DeliveryLogs returns every recorded email delivery attempt of an organization.
func (r *NotificationRepository) DeliveryLogs(_ context.Context, organizationID string) ([]*models.EmailDeliveryLog, error) {
	all, err := r.logs.all()
	if err != nil {
		return nil, err
	}

	logs := make([]*models.EmailDeliveryLog, 0)

	for _, log := range all {
		if log.OrganizationID == organizationID {
			logs = append(logs, log)
		}
	}

	return logs, nil
}
