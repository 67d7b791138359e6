package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TriggerType is the category of domain event a workflow listens for.
type TriggerType string

const (
	TriggerApplicationReceived TriggerType = "application_received"
	TriggerStatusChanged       TriggerType = "status_changed"
	TriggerInterviewCompleted  TriggerType = "interview_completed"
	TriggerScoreThreshold      TriggerType = "score_threshold"
	TriggerTimeBased           TriggerType = "time_based"
)

// TriggerTypes lists every supported trigger type.
var TriggerTypes = []TriggerType{
	TriggerApplicationReceived,
	TriggerStatusChanged,
	TriggerInterviewCompleted,
	TriggerScoreThreshold,
	TriggerTimeBased,
}

// ErrUnknownTriggerType is returned when a trigger type outside TriggerTypes is decoded.
var ErrUnknownTriggerType = errors.New("unknown trigger type")

// Valid reports whether t is a supported trigger type.
func (t TriggerType) Valid() bool {
	for _, known := range TriggerTypes {
		if t == known {
			return true
		}
	}

	return false
}

// Workflow is a persisted automation rule owned by one organization.
// The engine only reads workflows; it never mutates them.
type Workflow struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id" validate:"required"`
	Name           string        `json:"name"            validate:"required,min=3"`
	Description    string        `json:"description,omitempty"`
	TriggerType    TriggerType   `json:"trigger_type"    validate:"required"`
	Trigger        TriggerConfig `json:"-"`
	Actions        []ActionItem  `json:"actions"`
	IsActive       bool          `json:"is_active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type workflowAlias Workflow

type workflowJSON struct {
	workflowAlias

	TriggerConfig json.RawMessage `json:"trigger_config,omitempty"`
}

// MarshalJSON writes the trigger variant under the trigger_config key.
func (w Workflow) MarshalJSON() ([]byte, error) {
	out := workflowJSON{workflowAlias: workflowAlias(w)}

	if w.Trigger != nil {
		raw, err := json.Marshal(w.Trigger)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal trigger config: %w", err)
		}

		out.TriggerConfig = raw
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes trigger_config into the variant selected by trigger_type.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	var in workflowJSON

	err := json.Unmarshal(data, &in)
	if err != nil {
		return err
	}

	*w = Workflow(in.workflowAlias)

	if w.TriggerType == "" {
		return nil
	}

	trigger, err := DecodeTriggerConfig(w.TriggerType, in.TriggerConfig)
	if err != nil {
		return err
	}

	w.Trigger = trigger

	return nil
}
