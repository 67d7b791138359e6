// Package access decides whether a user may proceed given the subscription
// state of their organization.
//
// Lookup failures fail open: when the role or the organization cannot be
// resolved the request is allowed and a warning is logged. Privileged roles
// (super_admin, org_admin) are allowed before any organization lookup.
package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/subscription"
)

// ErrSubscriptionInactive is returned for non privileged users of an organization
// whose subscription is expired or cancelled.
var ErrSubscriptionInactive = errors.New("subscription inactive")

// Code is the machine readable code of a restricted response.
const Code = "SUBSCRIPTION_INACTIVE"

// Reason explains a Decision.
type Reason string

const (
	ReasonPrivilegedRole       Reason = "privileged_role"
	ReasonSubscriptionActive   Reason = "subscription_active"
	ReasonSubscriptionInactive Reason = "subscription_inactive"
	ReasonLookupFailed         Reason = "lookup_failed_fail_open"
)

// Decision is the outcome of one guard check.
type Decision struct {
	Allowed      bool
	Reason       Reason
	Role         models.Role
	Subscription *subscription.Status
}

// Err returns ErrSubscriptionInactive for a denied decision and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	return ErrSubscriptionInactive
}

// Restricted is the body returned to a denied caller. It deliberately carries
// no billing detail.
type Restricted struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// RestrictedBody returns the access restricted body.
func RestrictedBody() Restricted {
	return Restricted{
		Error:   "Access restricted",
		Message: "Access to this feature is currently restricted for your organization. Please contact your organization administrator.",
		Code:    Code,
	}
}

// Option configures a Guard or a Session.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

// WithClock overrides the wall clock used to resolve subscription status.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records every decision.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Guard is the server side access check.
type Guard struct {
	memberships   persistence.MembershipRepository
	organizations persistence.OrganizationRepository
	logger        *slog.Logger
	options
}

// NewGuard creates a guard reading roles and organizations from the given repositories.
func NewGuard(
	memberships persistence.MembershipRepository,
	organizations persistence.OrganizationRepository,
	logger *slog.Logger,
	opts ...Option,
) *Guard {
	return &Guard{
		memberships:   memberships,
		organizations: organizations,
		logger:        logger.With("module", "access_guard"),
		options:       buildOptions(opts),
	}
}

// Check decides whether userID may proceed inside organizationID.
func (g *Guard) Check(ctx context.Context, userID, organizationID string) Decision {
	decision := g.check(ctx, userID, organizationID)
	g.metrics.AccessDecision(string(decision.Reason))

	return decision
}

func (g *Guard) check(ctx context.Context, userID, organizationID string) Decision {
	role, err := g.memberships.RoleInOrganization(ctx, userID, organizationID)
	if err != nil {
		g.logger.WarnContext(ctx, "role lookup failed, allowing request",
			"user_id", userID,
			"organization_id", organizationID,
			"error", err,
		)

		return Decision{Allowed: true, Reason: ReasonLookupFailed}
	}

	if role.BypassesSubscription() {
		return Decision{Allowed: true, Reason: ReasonPrivilegedRole, Role: role}
	}

	org, err := g.organizations.GetByID(ctx, organizationID)
	if err != nil {
		g.logger.WarnContext(ctx, "organization lookup failed, allowing request",
			"user_id", userID,
			"organization_id", organizationID,
			"error", err,
		)

		return Decision{Allowed: true, Reason: ReasonLookupFailed, Role: role}
	}

	status := subscription.Resolve(*org, g.now())

	if status.IsActive {
		return Decision{Allowed: true, Reason: ReasonSubscriptionActive, Role: role, Subscription: &status}
	}

	g.logger.InfoContext(ctx, "access restricted",
		"user_id", userID,
		"organization_id", organizationID,
		"role", role,
		"state", status.State,
	)

	return Decision{Allowed: false, Reason: ReasonSubscriptionInactive, Role: role, Subscription: &status}
}
