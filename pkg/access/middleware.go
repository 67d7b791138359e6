package access

import (
	"github.com/gofiber/fiber/v3"
)

const decisionKey = "access_decision"

// IdentityFunc extracts the caller from a request. ok is false for
// anonymous requests, which the guard lets through to the next handler.
type IdentityFunc func(c fiber.Ctx) (userID, organizationID string, ok bool)

// Middleware rejects non privileged callers of inactive organizations with 403
// and the Restricted body.
func Middleware(guard *Guard, identity IdentityFunc) fiber.Handler {
	return Wrap(guard, identity, func(c fiber.Ctx) error {
		return c.Next()
	})
}

// Wrap guards a single handler.
func Wrap(guard *Guard, identity IdentityFunc, handler fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, organizationID, ok := identity(c)
		if !ok {
			return handler(c)
		}

		decision := guard.Check(c.Context(), userID, organizationID)
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(RestrictedBody())
		}

		c.Locals(decisionKey, decision)

		return handler(c)
	}
}

// DecisionFrom returns the decision stored by Middleware or Wrap.
func DecisionFrom(c fiber.Ctx) (Decision, bool) {
	decision, ok := c.Locals(decisionKey).(Decision)

	return decision, ok
}
