// Package events defines the messages exchanged between the API and the worker.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/hirelane/hirelane/pkg/models"
)

type EventType string

// Topic carries every hirelane event.
const Topic = "hirelane.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowTriggeredEvent EventType = "workflow.triggered"

	// Execution outcome events.
	WorkflowExecutionCompletedEvent EventType = "workflow.execution.completed"
	WorkflowExecutionFailedEvent    EventType = "workflow.execution.failed"
	WorkflowExecutionSkippedEvent   EventType = "workflow.execution.skipped"
)

type BaseEvent struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	OrganizationID string    `json:"organization_id"`
	WorkflowID     string    `json:"workflow_id"`
}

// NewBaseEvent stamps a new event with a time ordered id.
func NewBaseEvent(eventType EventType, organizationID, workflowID string) BaseEvent {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return BaseEvent{
		ID:             id.String(),
		Type:           eventType,
		Timestamp:      time.Now().UTC(),
		OrganizationID: organizationID,
		WorkflowID:     workflowID,
	}
}

// WorkflowTriggered asks a worker to execute one workflow for one domain event.
type WorkflowTriggered struct {
	BaseEvent

	TriggerType models.TriggerType     `json:"trigger_type"`
	Context     models.WorkflowContext `json:"context"`
}

func (WorkflowTriggered) GetType() EventType {
	return WorkflowTriggeredEvent
}

type WorkflowExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
}

func (WorkflowExecutionCompleted) GetType() EventType {
	return WorkflowExecutionCompletedEvent
}

type WorkflowExecutionFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Error       string        `json:"error"`
	Duration    time.Duration `json:"duration"`
}

func (WorkflowExecutionFailed) GetType() EventType {
	return WorkflowExecutionFailedEvent
}

type WorkflowExecutionSkipped struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	Reason      string `json:"reason"`
}

func (WorkflowExecutionSkipped) GetType() EventType {
	return WorkflowExecutionSkippedEvent
}

// New returns an empty event value for eventType, ready to be unmarshaled into.
func New(eventType EventType) (any, bool) {
	switch eventType {
	case WorkflowTriggeredEvent:
		return &WorkflowTriggered{}, true
	case WorkflowExecutionCompletedEvent:
		return &WorkflowExecutionCompleted{}, true
	case WorkflowExecutionFailedEvent:
		return &WorkflowExecutionFailed{}, true
	case WorkflowExecutionSkippedEvent:
		return &WorkflowExecutionSkipped{}, true
	default:
		return nil, false
	}
}
