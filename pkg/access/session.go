package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/subscription"
)

// AdminContact is the organization administrator shown in the restriction prompt.
type AdminContact struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// State is what a client renders. IsLoading stays true until Load returns,
// so callers can tell "not checked yet" apart from "checked and denied".
type State struct {
	IsLoading            bool                 `json:"is_loading"`
	Subscription         *subscription.Status `json:"subscription,omitempty"`
	Role                 models.Role          `json:"role,omitempty"`
	IsOrgAdmin           bool                 `json:"is_org_admin"`
	AdminContact         *AdminContact        `json:"admin_contact,omitempty"`
	ShowRestrictionModal bool                 `json:"show_restriction_modal"`
}

// Session is the client side guard. It never blocks on its own; callers ask
// TriggerRestriction before a gated action and show the modal when it returns false.
type Session struct {
	memberships persistence.MembershipRepository
	orgs        persistence.OrganizationRepository
	logger      *slog.Logger
	options

	mu    sync.Mutex
	state State
}

// NewSession creates a session in the loading state.
func NewSession(
	memberships persistence.MembershipRepository,
	orgs persistence.OrganizationRepository,
	logger *slog.Logger,
	opts ...Option,
) *Session {
	return &Session{
		memberships: memberships,
		orgs:        orgs,
		logger:      logger.With("module", "access_session"),
		options:     buildOptions(opts),
		state:       State{IsLoading: true},
	}
}

// Load resolves the user's organization, role and subscription. When the
// subscription is inactive and the user is not org_admin one org_admin contact
// is resolved as well. Failures are logged and leave the session loaded
// without a subscription, which never denies.
func (s *Session) Load(ctx context.Context, userID string) {
	s.mu.Lock()
	s.state = State{IsLoading: true}
	s.mu.Unlock()

	next := s.resolve(ctx, userID)
	next.IsLoading = false

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Session) resolve(ctx context.Context, userID string) State {
	membership, err := s.memberships.GetByUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve membership", "user_id", userID, "error", err)

		return State{}
	}

	state := State{
		Role:       membership.Role,
		IsOrgAdmin: membership.Role == models.RoleOrgAdmin,
	}

	org, err := s.orgs.GetByID(ctx, membership.OrganizationID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve organization",
			"organization_id", membership.OrganizationID,
			"error", err,
		)

		return state
	}

	status := subscription.Resolve(*org, s.now())
	state.Subscription = &status

	if status.IsActive || state.IsOrgAdmin {
		return state
	}

	admins, err := s.memberships.ListByRoles(ctx, org.ID, []models.Role{models.RoleOrgAdmin})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve admin contact", "organization_id", org.ID, "error", err)

		return state
	}

	if len(admins) > 0 {
		state.AdminContact = &AdminContact{Email: admins[0].Email, Name: admins[0].FullName}
	}

	return state
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// TriggerRestriction reports whether a gated action may proceed. It denies
// only once loaded, with an inactive subscription and a non privileged role,
// and then raises the restriction modal.
func (s *Session) TriggerRestriction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsLoading || s.state.Subscription == nil {
		return true
	}

	if s.state.Subscription.IsActive || s.state.Role.BypassesSubscription() {
		return true
	}

	s.state.ShowRestrictionModal = true
	s.metrics.AccessDecision(string(ReasonSubscriptionInactive))

	return false
}

// DismissRestriction hides the restriction modal.
func (s *Session) DismissRestriction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ShowRestrictionModal = false
}
