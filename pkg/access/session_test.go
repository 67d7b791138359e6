package access_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/access"
	"github.com/hirelane/hirelane/pkg/mocks"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSession_LoadingNeverDenies(t *testing.T) {
	t.Parallel()

	session := access.NewSession(&mocks.MockMembershipRepository{}, &mocks.MockOrganizationRepository{}, newLogger())

	assert.True(t, session.Snapshot().IsLoading)
	assert.True(t, session.TriggerRestriction())
	assert.False(t, session.Snapshot().ShowRestrictionModal)
}

func TestSession_InactiveRecruiterSeesAdminContact(t *testing.T) {
	t.Parallel()

	memberships := &mocks.MockMembershipRepository{}
	orgs := &mocks.MockOrganizationRepository{}

	memberships.On("GetByUser", mock.Anything, "user-1").
		Return(&models.Membership{UserID: "user-1", OrganizationID: "org-1", Role: models.RoleRecruiter}, nil)
	orgs.On("GetByID", mock.Anything, "org-1").Return(expiredOrg(), nil)
	memberships.On("ListByRoles", mock.Anything, "org-1", []models.Role{models.RoleOrgAdmin}).
		Return([]*models.Membership{{UserID: "admin", Email: "admin@acme.test", FullName: "Ada Admin"}}, nil)

	session := access.NewSession(memberships, orgs, newLogger(), access.WithClock(clock))
	session.Load(context.Background(), "user-1")

	state := session.Snapshot()
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsOrgAdmin)
	require.NotNil(t, state.Subscription)
	assert.False(t, state.Subscription.IsActive)
	require.NotNil(t, state.AdminContact)
	assert.Equal(t, "admin@acme.test", state.AdminContact.Email)

	assert.False(t, session.TriggerRestriction())
	assert.True(t, session.Snapshot().ShowRestrictionModal)

	session.DismissRestriction()
	assert.False(t, session.Snapshot().ShowRestrictionModal)
}

func TestSession_OrgAdminSkipsContactAndIsNeverRestricted(t *testing.T) {
	t.Parallel()

	memberships := &mocks.MockMembershipRepository{}
	orgs := &mocks.MockOrganizationRepository{}

	memberships.On("GetByUser", mock.Anything, "admin").
		Return(&models.Membership{UserID: "admin", OrganizationID: "org-1", Role: models.RoleOrgAdmin}, nil)
	orgs.On("GetByID", mock.Anything, "org-1").Return(expiredOrg(), nil)

	session := access.NewSession(memberships, orgs, newLogger(), access.WithClock(clock))
	session.Load(context.Background(), "admin")

	state := session.Snapshot()
	assert.True(t, state.IsOrgAdmin)
	assert.Nil(t, state.AdminContact)
	assert.True(t, session.TriggerRestriction())
	memberships.AssertNotCalled(t, "ListByRoles", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_ActiveSubscriptionAllows(t *testing.T) {
	t.Parallel()

	memberships := &mocks.MockMembershipRepository{}
	orgs := &mocks.MockOrganizationRepository{}

	memberships.On("GetByUser", mock.Anything, "user-1").
		Return(&models.Membership{UserID: "user-1", OrganizationID: "org-1", Role: models.RoleInterviewer}, nil)
	orgs.On("GetByID", mock.Anything, "org-1").
		Return(&models.Organization{ID: "org-1", CreatedAt: now.Add(-2 * 24 * time.Hour)}, nil)

	session := access.NewSession(memberships, orgs, newLogger(), access.WithClock(clock))
	session.Load(context.Background(), "user-1")

	assert.True(t, session.TriggerRestriction())
	assert.Equal(t, 12, session.Snapshot().Subscription.TrialDaysRemaining)
}

func TestSession_LookupFailureFailsOpen(t *testing.T) {
	t.Parallel()

	memberships := &mocks.MockMembershipRepository{}
	orgs := &mocks.MockOrganizationRepository{}

	memberships.On("GetByUser", mock.Anything, "user-1").Return(nil, errors.New("timeout"))

	session := access.NewSession(memberships, orgs, newLogger())
	session.Load(context.Background(), "user-1")

	state := session.Snapshot()
	assert.False(t, state.IsLoading)
	assert.Nil(t, state.Subscription)
	assert.True(t, session.TriggerRestriction())
}
