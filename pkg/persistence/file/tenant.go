package file

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// OrganizationRepository stores organizations as JSON files.
type OrganizationRepository struct {
	orgs collection[models.Organization]
}

func (r *OrganizationRepository) GetByID(_ context.Context, id string) (*models.Organization, error) {
	org, err := r.orgs.get(recordKey(id))
	if err != nil {
		return nil, err
	}

	if org == nil {
		return nil, persistence.ErrOrganizationNotFound
	}

	return org, nil
}

func (r *OrganizationRepository) Save(_ context.Context, org *models.Organization) error {
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}

	return r.orgs.put(recordKey(org.ID), org)
}

// MembershipRepository stores user_roles rows as JSON files keyed by user.
type MembershipRepository struct {
	members collection[models.Membership]
}

func (r *MembershipRepository) GetByUser(_ context.Context, userID string) (*models.Membership, error) {
	membership, err := r.members.get(recordKey(userID))
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return nil, persistence.ErrMembershipNotFound
	}

	return membership, nil
}

func (r *MembershipRepository) RoleInOrganization(ctx context.Context, userID, organizationID string) (models.Role, error) {
	membership, err := r.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if membership.OrganizationID != organizationID {
		return "", persistence.ErrMembershipNotFound
	}

	return membership.Role, nil
}

func (r *MembershipRepository) ListByRoles(_ context.Context, organizationID string, roles []models.Role) ([]*models.Membership, error) {
	all, err := r.members.all()
	if err != nil {
		return nil, err
	}

	memberships := make([]*models.Membership, 0)

	for _, membership := range all {
		if membership.OrganizationID == organizationID && slices.Contains(roles, membership.Role) {
			memberships = append(memberships, membership)
		}
	}

	slices.SortFunc(memberships, func(a, b *models.Membership) int {
		return strings.Compare(a.UserID, b.UserID)
	})

	return memberships, nil
}

func (r *MembershipRepository) Save(_ context.Context, membership *models.Membership) error {
	return r.members.put(recordKey(membership.UserID), membership)
}
