package web

import (
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/navigation"
	"github.com/hirelane/hirelane/pkg/notification"
)

// TriggerEventRequest reports a domain event. The organization is always the caller's.
type TriggerEventRequest struct {
	TriggerType models.TriggerType     `json:"trigger_type" validate:"required"`
	Context     models.WorkflowContext `json:"context"`
}

// UpdateWorkflowRequest toggles a workflow.
type UpdateWorkflowRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SendNotificationRequest is a direct dispatcher call.
type SendNotificationRequest struct {
	EventCode  string               `json:"event_code" validate:"required,max=100"`
	Recipients []models.Recipient   `json:"recipients"`
	Variables  map[string]string    `json:"variables"`
	Options    notification.Options `json:"options"`
}

// NavigationResponse is the caller's filtered navigation tree.
type NavigationResponse struct {
	Role        models.Role          `json:"role"`
	Permissions []models.Permission  `json:"permissions"`
	Sections    []navigation.Section `json:"sections"`
}
