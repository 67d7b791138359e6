package models

import "encoding/json"

// ActionType names one kind of workflow step. Unknown values are tolerated
// and skipped at execution time.
type ActionType string

const (
	ActionSendEmail        ActionType = "send_email"
	ActionSendNotification ActionType = "send_notification"
	ActionChangeStatus     ActionType = "change_status"
	ActionMoveToStage      ActionType = "move_to_stage"
	ActionAssignToUser     ActionType = "assign_to_user"
)

// ActionItem is one declared step of a workflow, as stored in the actions column.
// Config is decoded into a typed action by the action registry.
type ActionItem struct {
	Type   ActionType      `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

// SendEmailConfig configures a send_email step.
type SendEmailConfig struct {
	TemplateSlug string `json:"templateSlug,omitempty"`
}

// SendNotificationConfig configures a send_notification step.
// Message may reference {{candidate_name}}, {{job_title}} and {{status}}.
type SendNotificationConfig struct {
	UserIDs []string `json:"userIds,omitempty"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ChangeStatusConfig configures a change_status step.
type ChangeStatusConfig struct {
	Status string `json:"status" validate:"required"`
}

// MoveToStageConfig configures a move_to_stage step.
type MoveToStageConfig struct {
	Stage string `json:"stage" validate:"required"`
}

// AssignToUserConfig configures an assign_to_user step.
type AssignToUserConfig struct {
	UserID string `json:"userId" validate:"required"`
}
