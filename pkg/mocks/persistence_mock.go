package mocks

import (
	"context"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockOrganizationRepository is a mock implementation of persistence.OrganizationRepository interface.
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)

	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of persistence.MembershipRepository interface.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByUser(ctx context.Context, userID string) (*models.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipRepository) RoleInOrganization(ctx context.Context, userID, organizationID string) (models.Role, error) {
	args := m.Called(ctx, userID, organizationID)

	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockMembershipRepository) ListByRoles(
	ctx context.Context,
	organizationID string,
	roles []models.Role,
) ([]*models.Membership, error) {
	args := m.Called(ctx, organizationID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Save(ctx context.Context, membership *models.Membership) error {
	args := m.Called(ctx, membership)

	return args.Error(0)
}

// MockWorkflowRepository is a mock implementation of persistence.WorkflowRepository interface.
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	args := m.Called(ctx, workflow)

	return args.Error(0)
}

func (m *MockWorkflowRepository) GetByID(ctx context.Context, organizationID, id string) (*models.Workflow, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Workflow, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) ListActiveByTrigger(
	ctx context.Context,
	organizationID string,
	triggerType models.TriggerType,
) ([]*models.Workflow, error) {
	args := m.Called(ctx, organizationID, triggerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) ListActiveByTriggerType(ctx context.Context, triggerType models.TriggerType) ([]*models.Workflow, error) {
	args := m.Called(ctx, triggerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Workflow), args.Error(1)
}

// MockExecutionRepository is a mock implementation of persistence.ExecutionRepository interface.
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, execution *models.WorkflowExecution) error {
	args := m.Called(ctx, execution)

	return args.Error(0)
}

func (m *MockExecutionRepository) Update(ctx context.Context, execution *models.WorkflowExecution) error {
	args := m.Called(ctx, execution)

	return args.Error(0)
}

func (m *MockExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowExecution), args.Error(1)
}

func (m *MockExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkflowExecution), args.Error(1)
}

// MockApplicationRepository is a mock implementation of persistence.ApplicationRepository interface.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, organizationID, applicationID, status string, at time.Time) error {
	args := m.Called(ctx, organizationID, applicationID, status, at)

	return args.Error(0)
}

func (m *MockApplicationRepository) UpdateStage(ctx context.Context, organizationID, applicationID, stage string, at time.Time) error {
	args := m.Called(ctx, organizationID, applicationID, stage, at)

	return args.Error(0)
}

func (m *MockApplicationRepository) Assign(ctx context.Context, organizationID, applicationID, userID string, at time.Time) error {
	args := m.Called(ctx, organizationID, applicationID, userID, at)

	return args.Error(0)
}

// MockEmailTemplateRepository is a mock implementation of persistence.EmailTemplateRepository interface.
type MockEmailTemplateRepository struct {
	mock.Mock
}

func (m *MockEmailTemplateRepository) GetBySlug(ctx context.Context, organizationID, slug string) (*models.EmailTemplate, error) {
	args := m.Called(ctx, organizationID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) Save(ctx context.Context, template *models.EmailTemplate) error {
	args := m.Called(ctx, template)

	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of persistence.NotificationRepository interface.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) InsertNotifications(ctx context.Context, notifications []*models.Notification) error {
	args := m.Called(ctx, notifications)

	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, organizationID, userID string) ([]*models.Notification, error) {
	args := m.Called(ctx, organizationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetSetting(ctx context.Context, organizationID, eventCode string) (*models.NotificationSetting, error) {
	args := m.Called(ctx, organizationID, eventCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.NotificationSetting), args.Error(1)
}

func (m *MockNotificationRepository) SaveSetting(ctx context.Context, setting *models.NotificationSetting) error {
	args := m.Called(ctx, setting)

	return args.Error(0)
}

func (m *MockNotificationRepository) GetEmailProvider(ctx context.Context, organizationID string) (*models.EmailProvider, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.EmailProvider), args.Error(1)
}

func (m *MockNotificationRepository) SaveEmailProvider(ctx context.Context, provider *models.EmailProvider) error {
	args := m.Called(ctx, provider)

	return args.Error(0)
}

func (m *MockNotificationRepository) InsertDeliveryLog(ctx context.Context, log *models.EmailDeliveryLog) error {
	args := m.Called(ctx, log)

	return args.Error(0)
}

// Compile-time interface checks.
var (
	_ persistence.OrganizationRepository  = (*MockOrganizationRepository)(nil)
	_ persistence.MembershipRepository    = (*MockMembershipRepository)(nil)
	_ persistence.WorkflowRepository      = (*MockWorkflowRepository)(nil)
	_ persistence.ExecutionRepository     = (*MockExecutionRepository)(nil)
	_ persistence.ApplicationRepository   = (*MockApplicationRepository)(nil)
	_ persistence.EmailTemplateRepository = (*MockEmailTemplateRepository)(nil)
	_ persistence.NotificationRepository  = (*MockNotificationRepository)(nil)
)
