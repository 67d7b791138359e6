// Package persistence provides the data storage abstraction layer for tenants, workflows and notifications.
package persistence

import (
	"context"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
)

// Persistence groups every repository used by the core.
type Persistence interface {
	OrganizationRepository() OrganizationRepository
	MembershipRepository() MembershipRepository
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	ApplicationRepository() ApplicationRepository
	EmailTemplateRepository() EmailTemplateRepository
	NotificationRepository() NotificationRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// OrganizationRepository reads tenant billing fields.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	Save(ctx context.Context, org *models.Organization) error
}

// MembershipRepository resolves user_roles rows.
type MembershipRepository interface {
	// GetByUser returns the single membership of a user.
	GetByUser(ctx context.Context, userID string) (*models.Membership, error)
	// RoleInOrganization returns the role the user holds inside organizationID.
	RoleInOrganization(ctx context.Context, userID, organizationID string) (models.Role, error)
	// ListByRoles returns the members of an organization holding any of roles, ordered by user id.
	ListByRoles(ctx context.Context, organizationID string, roles []models.Role) ([]*models.Membership, error)
	Save(ctx context.Context, membership *models.Membership) error
}

// WorkflowRepository stores automation rules.
type WorkflowRepository interface {
	Save(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, organizationID, id string) (*models.Workflow, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Workflow, error)
	// ListActiveByTrigger returns the active workflows of one organization for a trigger type.
	ListActiveByTrigger(ctx context.Context, organizationID string, triggerType models.TriggerType) ([]*models.Workflow, error)
	// ListActiveByTriggerType returns active workflows of every organization for a trigger type.
	ListActiveByTriggerType(ctx context.Context, triggerType models.TriggerType) ([]*models.Workflow, error)
}

// ExecutionRepository stores workflow execution audit rows.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.WorkflowExecution) error
	Update(ctx context.Context, execution *models.WorkflowExecution) error
	GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error)
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error)
}

// ApplicationRepository mutates the triggering application. Writes are
// last-write-wins and scoped by organization.
type ApplicationRepository interface {
	UpdateStatus(ctx context.Context, organizationID, applicationID, status string, at time.Time) error
	UpdateStage(ctx context.Context, organizationID, applicationID, stage string, at time.Time) error
	Assign(ctx context.Context, organizationID, applicationID, userID string, at time.Time) error
}

// EmailTemplateRepository resolves organization email templates.
type EmailTemplateRepository interface {
	GetBySlug(ctx context.Context, organizationID, slug string) (*models.EmailTemplate, error)
	Save(ctx context.Context, template *models.EmailTemplate) error
}

// NotificationRepository stores in-app notifications, channel settings and email delivery logs.
type NotificationRepository interface {
	InsertNotifications(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, organizationID, userID string) ([]*models.Notification, error)
	GetSetting(ctx context.Context, organizationID, eventCode string) (*models.NotificationSetting, error)
	SaveSetting(ctx context.Context, setting *models.NotificationSetting) error
	GetEmailProvider(ctx context.Context, organizationID string) (*models.EmailProvider, error)
	SaveEmailProvider(ctx context.Context, provider *models.EmailProvider) error
	InsertDeliveryLog(ctx context.Context, log *models.EmailDeliveryLog) error
}
