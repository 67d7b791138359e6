package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())

		_ = db.Close()
	})

	return db, mock
}

var workflowColumns = []string{
	"id", "organization_id", "name", "description", "trigger_type",
	"trigger_config", "actions", "is_active", "created_at", "updated_at",
}

func TestWorkflowRepository_ListActiveByTriggerDecodesVariants(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewWorkflowRepository(db, newLogger())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM workflows").
		WithArgs("org-1", "score_threshold").
		WillReturnRows(sqlmock.NewRows(workflowColumns).
			AddRow("wf-1", "org-1", "High scorers", "", "score_threshold",
				[]byte(`{"scoreThreshold":80,"scoreComparison":"above"}`),
				[]byte(`[{"type":"change_status","config":{"status":"shortlisted"}}]`),
				true, now, now).
			AddRow("wf-2", "org-1", "No config", "", "score_threshold",
				[]byte(`{}`), []byte(`[]`), true, now, now))

	workflows, err := repo.ListActiveByTrigger(context.Background(), "org-1", models.TriggerScoreThreshold)
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	trigger, ok := workflows[0].Trigger.(models.ScoreThresholdTrigger)
	require.True(t, ok)
	require.NotNil(t, trigger.ScoreThreshold)
	assert.InDelta(t, 80.0, *trigger.ScoreThreshold, 0.0001)
	assert.Equal(t, models.ScoreAbove, trigger.ScoreComparison)
	require.Len(t, workflows[0].Actions, 1)
	assert.Equal(t, models.ActionChangeStatus, workflows[0].Actions[0].Type)

	empty, ok := workflows[1].Trigger.(models.ScoreThresholdTrigger)
	require.True(t, ok)
	assert.Nil(t, empty.ScoreThreshold)
	assert.Empty(t, workflows[1].Actions)
}

func TestWorkflowRepository_UnknownTriggerTypeStaysListable(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewWorkflowRepository(db, newLogger())
	now := time.Now().UTC()

	mock.ExpectQuery("FROM workflows").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows(workflowColumns).
			AddRow("wf-1", "org-1", "Legacy", "", "offer_accepted", []byte(`{}`), []byte(`[]`), false, now, now))

	workflows, err := repo.ListByOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Nil(t, workflows[0].Trigger)
	assert.Equal(t, models.TriggerType("offer_accepted"), workflows[0].TriggerType)
}

func TestWorkflowRepository_GetByIDNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewWorkflowRepository(db, newLogger())

	mock.ExpectQuery("FROM workflows").
		WithArgs("org-1", "missing").
		WillReturnRows(sqlmock.NewRows(workflowColumns))

	workflow, err := repo.GetByID(context.Background(), "org-1", "missing")
	require.Error(t, err)
	assert.Nil(t, workflow)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_SaveAssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewWorkflowRepository(db, newLogger())

	mock.ExpectExec("INSERT INTO workflows").
		WithArgs(
			sqlmock.AnyArg(), "org-1", "Welcome", "", "application_received",
			[]byte(`{}`), []byte(`[]`), true, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	workflow := &models.Workflow{
		OrganizationID: "org-1",
		Name:           "Welcome",
		TriggerType:    models.TriggerApplicationReceived,
		Trigger:        models.ApplicationReceivedTrigger{},
		IsActive:       true,
	}

	require.NoError(t, repo.Save(context.Background(), workflow))
	assert.NotEmpty(t, workflow.ID)
	assert.False(t, workflow.CreatedAt.IsZero())
	assert.Equal(t, workflow.CreatedAt, workflow.UpdatedAt)
}

func TestOrganizationRepository_GetByID(t *testing.T) {
	t.Parallel()

	columns := []string{"id", "name", "subscription_status", "subscription_end_date", "created_at"}
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("null billing columns", func(t *testing.T) {
		t.Parallel()

		db, mock := newMock(t)
		repo := postgresql.NewOrganizationRepository(db)

		mock.ExpectQuery("FROM organizations").
			WithArgs("org-1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("org-1", "Acme", nil, nil, created))

		org, err := repo.GetByID(context.Background(), "org-1")
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusNone, org.SubscriptionStatus)
		assert.Nil(t, org.SubscriptionEndDate)
		assert.Equal(t, created, org.CreatedAt)
	})

	t.Run("active with end date", func(t *testing.T) {
		t.Parallel()

		db, mock := newMock(t)
		repo := postgresql.NewOrganizationRepository(db)

		mock.ExpectQuery("FROM organizations").
			WithArgs("org-2").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("org-2", "Globex", "active", end, created))

		org, err := repo.GetByID(context.Background(), "org-2")
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusActive, org.SubscriptionStatus)
		require.NotNil(t, org.SubscriptionEndDate)
		assert.True(t, end.Equal(*org.SubscriptionEndDate))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		db, mock := newMock(t)
		repo := postgresql.NewOrganizationRepository(db)

		mock.ExpectQuery("FROM organizations").WithArgs("nope").WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(context.Background(), "nope")
		assert.True(t, persistence.IsOrganizationNotFound(err))
	})
}

func TestMembershipRepository_RoleInOrganization(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewMembershipRepository(db, newLogger())

	mock.ExpectQuery("SELECT role FROM user_roles").
		WithArgs("user-1", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("recruiter"))
	mock.ExpectQuery("SELECT role FROM user_roles").
		WithArgs("user-1", "org-2").
		WillReturnError(sql.ErrNoRows)

	role, err := repo.RoleInOrganization(context.Background(), "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, role)

	_, err = repo.RoleInOrganization(context.Background(), "user-1", "org-2")
	assert.True(t, persistence.IsMembershipNotFound(err))
}

func TestMembershipRepository_ListByRolesEmpty(t *testing.T) {
	t.Parallel()

	db, _ := newMock(t)
	repo := postgresql.NewMembershipRepository(db, newLogger())

	memberships, err := repo.ListByRoles(context.Background(), "org-1", nil)
	require.NoError(t, err)
	assert.Empty(t, memberships)
}

func TestMembershipRepository_ListByRoles(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewMembershipRepository(db, newLogger())

	mock.ExpectQuery("FROM user_roles").
		WithArgs("org-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "organization_id", "role", "email", "full_name"}).
			AddRow("user-1", "org-1", "org_admin", "admin@acme.test", "Ada Admin").
			AddRow("user-2", "org-1", "hr_manager", "", ""))

	memberships, err := repo.ListByRoles(context.Background(), "org-1", []models.Role{models.RoleOrgAdmin, models.RoleHRManager})
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	assert.Equal(t, models.RoleOrgAdmin, memberships[0].Role)
	assert.Equal(t, "admin@acme.test", memberships[0].Email)
	assert.Equal(t, "user-2", memberships[1].UserID)
}

func TestApplicationRepository_ZeroRowsIsNotAnError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewApplicationRepository(db)
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("shortlisted", at, "app-1", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE applications SET pipeline_stage").
		WithArgs("interview", at, "app-1", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE applications SET assigned_to").
		WithArgs("user-9", at, "app-1", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "org-1", "app-1", "shortlisted", at))
	require.NoError(t, repo.UpdateStage(context.Background(), "org-1", "app-1", "interview", at))
	require.NoError(t, repo.Assign(context.Background(), "org-1", "app-1", "user-9", at))
}

func TestExecutionRepository_UpdateMissingRow(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewExecutionRepository(db, newLogger())
	completed := time.Now().UTC()

	mock.ExpectExec("UPDATE workflow_executions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.WorkflowExecution{
		ID:          "exec-1",
		Status:      models.ExecutionStatusCompleted,
		Result:      map[string]any{"actions_executed": 1},
		CompletedAt: &completed,
	})
	require.ErrorIs(t, err, persistence.ErrExecutionNotFound)
}

func TestNotificationRepository_InsertNotificationsRollsBack(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewNotificationRepository(db, newLogger())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notifications").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.InsertNotifications(context.Background(), []*models.Notification{
		{OrganizationID: "org-1", UserID: "user-1", Title: "a", Message: "b"},
		{OrganizationID: "org-1", UserID: "user-2", Title: "a", Message: "b"},
	})
	require.Error(t, err)
}

func TestNotificationRepository_GetSettingDecodesAudience(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := postgresql.NewNotificationRepository(db, newLogger())

	mock.ExpectQuery("FROM notification_settings").
		WithArgs("org-1", "application.received").
		WillReturnRows(sqlmock.NewRows([]string{"in_app_enabled", "email_enabled", "audience", "title_template", "body_template"}).
			AddRow(true, false, []byte(`["org_admin","recruiter"]`), "New application", ""))

	setting, err := repo.GetSetting(context.Background(), "org-1", "application.received")
	require.NoError(t, err)
	assert.True(t, setting.InAppEnabled)
	assert.False(t, setting.EmailEnabled)
	assert.Equal(t, []models.Role{models.RoleOrgAdmin, models.RoleRecruiter}, setting.Audience)
	assert.Equal(t, "New application", setting.TitleTemplate)
}
