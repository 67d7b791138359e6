package web

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/hirelane/hirelane/pkg/access"
	"github.com/hirelane/hirelane/pkg/models"
)

// Register mounts every route. /me routes are authenticated only; the rest also pass the subscription guard.
func (h *APIHandlers) Register(app *fiber.App, auth *Authenticator, guard *access.Guard, metrics http.Handler) {
	app.Get("/health", h.HealthCheck)

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	authenticated := auth.Middleware()
	guarded := access.Middleware(guard, Identity)

	me := app.Group("/me", authenticated)
	me.Get("/access", h.GetAccess)
	me.Get("/navigation", h.GetNavigation)
	me.Get("/subscription", h.GetSubscription)

	// fiber runs route level middleware after the handler argument, so every chain lives on a group.
	ev := app.Group("/events", authenticated, guarded, h.RequirePermission(models.PermApplicationsWrite))
	ev.Post("/", h.TriggerEvent)

	n := app.Group("/notifications", authenticated, guarded, h.RequirePermission(models.PermSettingsManage))
	n.Post("/", h.SendNotification)

	w := app.Group("/workflows", authenticated, guarded, h.RequirePermission(models.PermWorkflowsManage))
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Patch("/:id", h.UpdateWorkflow)
	w.Get("/:id/executions", h.GetWorkflowExecutions)
}
