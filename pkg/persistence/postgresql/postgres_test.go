package postgresql_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/persistence/postgresql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Children first, parents last
	for _, table := range []string{
		"email_delivery_logs", "email_providers", "notification_settings", "notifications", "email_templates",
		"workflow_executions", "workflows", "applications", "user_roles", "organizations", "schema_migrations",
	} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("hirelane_test"),
			postgres.WithUsername("hirelane"),
			postgres.WithPassword("hirelane"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	p, err := postgresql.NewPersistence(ctx, newLogger(), databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		require.NoError(t, p.Close(ctx))

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	require.NoError(t, p.HealthCheck(ctx))
}

func TestRepositoryIntegration_WorkflowLifecycle(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	end := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Microsecond)
	org := &models.Organization{
		ID:                  "org-1",
		Name:                "Acme",
		SubscriptionStatus:  models.SubscriptionStatusActive,
		SubscriptionEndDate: &end,
	}
	require.NoError(t, p.OrganizationRepository().Save(ctx, org))

	loaded, err := p.OrganizationRepository().GetByID(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, loaded.SubscriptionStatus)
	require.NotNil(t, loaded.SubscriptionEndDate)
	assert.True(t, end.Equal(*loaded.SubscriptionEndDate))

	require.NoError(t, p.MembershipRepository().Save(ctx, &models.Membership{
		UserID: "user-1", OrganizationID: "org-1", Role: models.RoleOrgAdmin, Email: "admin@acme.test",
	}))

	admins, err := p.MembershipRepository().ListByRoles(ctx, "org-1", []models.Role{models.RoleOrgAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@acme.test", admins[0].Email)

	threshold := 75.0
	workflow := &models.Workflow{
		OrganizationID: "org-1",
		Name:           "Shortlist strong candidates",
		TriggerType:    models.TriggerScoreThreshold,
		Trigger:        models.ScoreThresholdTrigger{ScoreThreshold: &threshold, ScoreComparison: models.ScoreAbove},
		Actions: []models.ActionItem{
			{Type: models.ActionChangeStatus, Config: []byte(`{"status":"shortlisted"}`)},
		},
		IsActive: true,
	}
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	active, err := p.WorkflowRepository().ListActiveByTrigger(ctx, "org-1", models.TriggerScoreThreshold)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, workflow.Trigger, active[0].Trigger)

	none, err := p.WorkflowRepository().ListActiveByTrigger(ctx, "org-2", models.TriggerScoreThreshold)
	require.NoError(t, err)
	assert.Empty(t, none)

	execution := &models.WorkflowExecution{
		WorkflowID:     workflow.ID,
		OrganizationID: "org-1",
		TriggerType:    models.TriggerScoreThreshold,
		TriggerData:    models.WorkflowContext{OrganizationID: "org-1"},
		Status:         models.ExecutionStatusRunning,
		StartedAt:      time.Now().UTC(),
	}
	require.NoError(t, p.ExecutionRepository().Create(ctx, execution))

	completed := time.Now().UTC()
	execution.Status = models.ExecutionStatusCompleted
	execution.CompletedAt = &completed
	execution.Result = map[string]any{"actions_executed": 1}
	require.NoError(t, p.ExecutionRepository().Update(ctx, execution))

	executions, err := p.ExecutionRepository().ListByWorkflow(ctx, workflow.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionStatusCompleted, executions[0].Status)
	assert.NotNil(t, executions[0].CompletedAt)

	_, err = p.EmailTemplateRepository().GetBySlug(ctx, "org-1", "welcome")
	assert.True(t, persistence.IsNotFound(err))
}
