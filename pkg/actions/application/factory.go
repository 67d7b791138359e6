// Package application implements the actions that mutate the triggering application.
package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
)

// ActionFactory builds change_status, move_to_stage and assign_to_user actions.
type ActionFactory struct {
	actionType   models.ActionType
	applications persistence.ApplicationRepository
	validate     *validator.Validate
	now          func() time.Time
}

func newFactory(actionType models.ActionType, applications persistence.ApplicationRepository) *ActionFactory {
	return &ActionFactory{
		actionType:   actionType,
		applications: applications,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		now:          time.Now,
	}
}

func NewChangeStatusFactory(applications persistence.ApplicationRepository) *ActionFactory {
	return newFactory(models.ActionChangeStatus, applications)
}

func NewMoveToStageFactory(applications persistence.ApplicationRepository) *ActionFactory {
	return newFactory(models.ActionMoveToStage, applications)
}

func NewAssignToUserFactory(applications persistence.ApplicationRepository) *ActionFactory {
	return newFactory(models.ActionAssignToUser, applications)
}

// WithClock overrides the updated_at source.
func (f *ActionFactory) WithClock(now func() time.Time) *ActionFactory {
	f.now = now

	return f
}

func (f *ActionFactory) ID() models.ActionType {
	return f.actionType
}

func (f *ActionFactory) Create(config json.RawMessage) (registry.Action, error) {
	action := &Action{actionType: f.actionType, now: f.now}

	switch f.actionType {
	case models.ActionChangeStatus:
		var cfg models.ChangeStatusConfig

		err := f.decode(config, &cfg)
		if err != nil {
			return nil, err
		}

		action.field, action.value = "status", cfg.Status
		action.apply = f.applications.UpdateStatus
	case models.ActionMoveToStage:
		var cfg models.MoveToStageConfig

		err := f.decode(config, &cfg)
		if err != nil {
			return nil, err
		}

		action.field, action.value = "stage", cfg.Stage
		action.apply = f.applications.UpdateStage
	case models.ActionAssignToUser:
		var cfg models.AssignToUserConfig

		err := f.decode(config, &cfg)
		if err != nil {
			return nil, err
		}

		action.field, action.value = "assigned_to", cfg.UserID
		action.apply = f.applications.Assign
	default:
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownActionType, f.actionType)
	}

	return action, nil
}

func (f *ActionFactory) decode(config json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(config)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		err := json.Unmarshal(trimmed, target)
		if err != nil {
			return fmt.Errorf("failed to decode config: %w", err)
		}
	}

	err := f.validate.Struct(target)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Schema returns the JSON schema for the action configuration.
func (f *ActionFactory) Schema() map[string]any {
	var property, description string

	switch f.actionType {
	case models.ActionMoveToStage:
		property, description = "stage", "Pipeline stage the application is moved to"
	case models.ActionAssignToUser:
		property, description = "userId", "User the application is assigned to"
	default:
		property, description = "status", "Status written to the application"
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			property: map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": description,
			},
		},
		"required": []string{property},
	}
}
