// Package web provides HTTP handlers and REST API endpoints for the ATS core.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/hirelane/hirelane/pkg/access"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/navigation"
	"github.com/hirelane/hirelane/pkg/notification"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/rbac"
	"github.com/hirelane/hirelane/pkg/registry"
	"github.com/hirelane/hirelane/pkg/services"
	"github.com/hirelane/hirelane/pkg/subscription"
)

// Triggerer starts the workflows of an organization for a domain event.
type Triggerer interface {
	TriggerWorkflows(ctx context.Context, triggerType models.TriggerType, wctx models.WorkflowContext)
}

// Notifier delivers notifications for an event code.
type Notifier interface {
	Send(
		ctx context.Context,
		eventCode, organizationID string,
		recipients []models.Recipient,
		variables map[string]string,
		opts notification.Options,
	) notification.Result
}

type APIHandlers struct {
	workflowService *services.Workflow
	persistence     persistence.Persistence
	registry        *registry.Registry
	triggerer       Triggerer
	notifier        Notifier
	validator       *validator.Validate
	logger          *slog.Logger
	accessOptions   []access.Option
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	persistence persistence.Persistence,
	registry *registry.Registry,
	triggerer Triggerer,
	notifier Notifier,
	validator *validator.Validate,
	logger *slog.Logger,
	accessOptions ...access.Option,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		persistence:     persistence,
		registry:        registry,
		triggerer:       triggerer,
		notifier:        notifier,
		validator:       validator,
		logger:          logger.With("module", "web"),
		accessOptions:   accessOptions,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())
	actionTypes := h.registry.ActionTypes()

	status := "unhealthy"
	message := "Hirelane API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk && len(actionTypes) > 0 {
		status = "healthy"
		message = "Hirelane API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   actionTypes,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetAccess returns the client session snapshot of the caller.
func (h *APIHandlers) GetAccess(c fiber.Ctx) error {
	userID, _, _ := Identity(c)

	session := access.NewSession(
		h.persistence.MembershipRepository(),
		h.persistence.OrganizationRepository(),
		h.logger,
		h.accessOptions...,
	)
	session.Load(c.Context(), userID)

	return c.JSON(session.Snapshot())
}

func (h *APIHandlers) GetNavigation(c fiber.Ctx) error {
	userID, organizationID, _ := Identity(c)

	role, err := h.persistence.MembershipRepository().RoleInOrganization(c.Context(), userID, organizationID)
	if err != nil {
		if persistence.IsMembershipNotFound(err) {
			return c.JSON(NavigationResponse{Permissions: []models.Permission{}, Sections: []navigation.Section{}})
		}

		return internalError(c, err)
	}

	permissions := rbac.PermissionsFor(role)

	return c.JSON(NavigationResponse{
		Role:        role,
		Permissions: permissions,
		Sections:    navigation.FilterByPermissions(navigation.ForRole(role), permissions, []models.Role{role}),
	})
}

func (h *APIHandlers) GetSubscription(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	org, err := h.persistence.OrganizationRepository().GetByID(c.Context(), organizationID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(subscription.Resolve(*org, time.Now()))
}

// TriggerEvent starts the caller organization's workflows and returns before they run.
func (h *APIHandlers) TriggerEvent(c fiber.Ctx) error {
	userID, organizationID, _ := Identity(c)

	var req TriggerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if !req.TriggerType.Valid() {
		return badRequest(c, "unsupported trigger type "+string(req.TriggerType))
	}

	wctx := req.Context
	wctx.OrganizationID = organizationID
	wctx.TriggeredBy = userID

	h.triggerer.TriggerWorkflows(c.Context(), req.TriggerType, wctx)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"accepted":     true,
		"trigger_type": req.TriggerType,
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	workflows, err := h.workflowService.List(c.Context(), organizationID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	var req services.CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.workflowService.Create(c.Context(), organizationID, req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	workflow, err := h.workflowService.FetchByID(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.workflowService.SetActive(c.Context(), organizationID, c.Params("id"), *req.IsActive)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	executions, err := h.workflowService.ListExecutions(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executions)
}

func (h *APIHandlers) SendNotification(c fiber.Ctx) error {
	_, organizationID, _ := Identity(c)

	var req SendNotificationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result := h.notifier.Send(c.Context(), req.EventCode, organizationID, req.Recipients, req.Variables, req.Options)

	return c.JSON(result)
}

// RequirePermission rejects callers whose role lacks permission.
func (h *APIHandlers) RequirePermission(permission models.Permission) fiber.Handler {
	return func(c fiber.Ctx) error {
		role, err := h.callerRole(c)
		if err != nil {
			if persistence.IsMembershipNotFound(err) {
				return forbidden(c, "no role in organization")
			}

			return internalError(c, err)
		}

		if !rbac.Can(role, permission) {
			return forbidden(c, "missing permission "+string(permission))
		}

		return c.Next()
	}
}

func (h *APIHandlers) callerRole(c fiber.Ctx) (models.Role, error) {
	if decision, ok := access.DecisionFrom(c); ok && decision.Role != "" {
		return decision.Role, nil
	}

	userID, organizationID, ok := Identity(c)
	if !ok {
		return "", errors.New("request is not authenticated")
	}

	return h.persistence.MembershipRepository().RoleInOrganization(c.Context(), userID, organizationID)
}
