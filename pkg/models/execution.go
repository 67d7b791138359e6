package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal transition:
// pending -> running -> completed | failed.
func (s ExecutionStatus) CanTransitionTo(next ExecutionStatus) bool {
	switch s {
	case ExecutionStatusPending:
		return next == ExecutionStatusRunning
	case ExecutionStatusRunning:
		return next == ExecutionStatusCompleted || next == ExecutionStatusFailed
	default:
		return false
	}
}

// WorkflowExecution is the append-only audit record of one engine run.
type WorkflowExecution struct {
	ID             string          `json:"id"`
	WorkflowID     string          `json:"workflow_id"`
	OrganizationID string          `json:"organization_id"`
	TriggerType    TriggerType     `json:"trigger_type"`
	TriggerData    WorkflowContext `json:"trigger_data"`
	Status         ExecutionStatus `json:"status"`
	Result         map[string]any  `json:"result,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}
