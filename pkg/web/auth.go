package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hirelane/hirelane/pkg/persistence"
)

const (
	userIDKey         = "user_id"
	organizationIDKey = "organization_id"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Claims are the bearer token claims. The subject is the user id; a token
// without organization_id is resolved through the user's membership.
type Claims struct {
	OrganizationID string `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret      []byte
	memberships persistence.MembershipRepository
	logger      *slog.Logger
}

func NewAuthenticator(secret string, memberships persistence.MembershipRepository, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		secret:      []byte(secret),
		memberships: memberships,
		logger:      logger.With("module", "web_auth"),
	}
}

// IssueToken signs a token for userID, valid for ttl.
func (a *Authenticator) IssueToken(userID, organizationID string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Authenticate resolves the caller of a raw bearer token.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (userID, organizationID string, err error) {
	claims := &Claims{}

	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return "", "", fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	if claims.OrganizationID != "" {
		return claims.Subject, claims.OrganizationID, nil
	}

	membership, err := a.memberships.GetByUser(ctx, claims.Subject)
	if err != nil {
		return "", "", fmt.Errorf("%w: no organization for user: %w", ErrUnauthenticated, err)
	}

	return claims.Subject, membership.OrganizationID, nil
}

// Middleware rejects requests without a valid bearer token and stores the caller in the request locals.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return unauthorized(c, "missing bearer token")
		}

		userID, organizationID, err := a.Authenticate(c.Context(), raw)
		if err != nil {
			a.logger.DebugContext(c.Context(), "rejected bearer token", "error", err)

			return unauthorized(c, "invalid bearer token")
		}

		c.Locals(userIDKey, userID)
		c.Locals(organizationIDKey, organizationID)

		return c.Next()
	}
}

// Identity returns the caller stored by Middleware.
func Identity(c fiber.Ctx) (userID, organizationID string, ok bool) {
	userID, _ = c.Locals(userIDKey).(string)
	organizationID, _ = c.Locals(organizationIDKey).(string)

	return userID, organizationID, userID != ""
}
