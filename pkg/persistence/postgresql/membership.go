package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/lib/pq"
)

// MembershipRepository handles user_roles lookups.
type MembershipRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *sql.DB, logger *slog.Logger) *MembershipRepository {
	return &MembershipRepository{db: db, logger: logger}
}

const membershipColumns = `
			user_id
		  , organization_id
		  , role
		  , COALESCE(email, '')
		  , COALESCE(full_name, '')
`

// GetByUser returns the membership of a user.
func (r *MembershipRepository) GetByUser(ctx context.Context, userID string) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM user_roles WHERE user_id = $1`

	membership, err := scanMembership(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrMembershipNotFound
		}

		return nil, fmt.Errorf("failed to query membership: %w", err)
	}

	return membership, nil
}

// RoleInOrganization returns the role userID holds inside organizationID.
func (r *MembershipRepository) RoleInOrganization(ctx context.Context, userID, organizationID string) (models.Role, error) {
	var role string

	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 AND organization_id = $2`,
		userID, organizationID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", persistence.ErrMembershipNotFound
		}

		return "", fmt.Errorf("failed to query role: %w", err)
	}

	return models.Role(role), nil
}

// ListByRoles returns the members of organizationID holding any of roles.
func (r *MembershipRepository) ListByRoles(ctx context.Context, organizationID string, roles []models.Role) ([]*models.Membership, error) {
	if len(roles) == 0 {
		return []*models.Membership{}, nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	query := `SELECT ` + membershipColumns + `
		FROM user_roles
		WHERE organization_id = $1 AND role = ANY($2)
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	memberships := make([]*models.Membership, 0)

	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}

		memberships = append(memberships, membership)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

// Save upserts a membership. A user belongs to exactly one organization.
func (r *MembershipRepository) Save(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO user_roles (user_id, organization_id, role, email, full_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			role = EXCLUDED.role,
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name
	`

	_, err := r.db.ExecContext(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		string(membership.Role),
		nullString(membership.Email),
		nullString(membership.FullName),
	)
	if err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	var (
		membership models.Membership
		role       string
	)

	err := row.Scan(&membership.UserID, &membership.OrganizationID, &role, &membership.Email, &membership.FullName)
	if err != nil {
		return nil, err
	}

	membership.Role = models.Role(role)

	return &membership, nil
}
