// Package postgresql provides PostgreSQL persistence implementation for the ATS core.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger

	organizationRepo  *OrganizationRepository
	membershipRepo    *MembershipRepository
	workflowRepo      *WorkflowRepository
	executionRepo     *ExecutionRepository
	applicationRepo   *ApplicationRepository
	emailTemplateRepo *EmailTemplateRepository
	notificationRepo  *NotificationRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs pending migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewPersistenceWithDB(database, logger), nil
}

// NewPersistenceWithDB wraps an already opened and migrated database handle.
func NewPersistenceWithDB(database *sql.DB, logger *slog.Logger) *Persistence {
	return &Persistence{
		db:                database,
		logger:            logger,
		organizationRepo:  NewOrganizationRepository(database),
		membershipRepo:    NewMembershipRepository(database, logger),
		workflowRepo:      NewWorkflowRepository(database, logger),
		executionRepo:     NewExecutionRepository(database, logger),
		applicationRepo:   NewApplicationRepository(database),
		emailTemplateRepo: NewEmailTemplateRepository(database),
		notificationRepo:  NewNotificationRepository(database, logger),
	}
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) OrganizationRepository() persistence.OrganizationRepository {
	return p.organizationRepo
}

func (p *Persistence) MembershipRepository() persistence.MembershipRepository {
	return p.membershipRepo
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executionRepo
}

func (p *Persistence) ApplicationRepository() persistence.ApplicationRepository {
	return p.applicationRepo
}

func (p *Persistence) EmailTemplateRepository() persistence.EmailTemplateRepository {
	return p.emailTemplateRepo
}

func (p *Persistence) NotificationRepository() persistence.NotificationRepository {
	return p.notificationRepo
}

// closeRows closes a row set and logs a failure to do so.
func closeRows(ctx context.Context, logger *slog.Logger, rows *sql.Rows) {
	err := rows.Close()
	if err != nil {
		logger.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}
