// Package notify implements the send_notification workflow action.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/registry"
)

// Notifier writes in-app notifications in bulk.
type Notifier interface {
	NotifyUsers(ctx context.Context, organizationID string, userIDs []string, title, message, link string) (int, error)
}

// ActionFactory is the factory for creating send_notification actions.
type ActionFactory struct {
	notifier Notifier
}

func NewActionFactory(notifier Notifier) *ActionFactory {
	return &ActionFactory{notifier: notifier}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionSendNotification
}

func (f *ActionFactory) Create(config json.RawMessage) (registry.Action, error) {
	var cfg models.SendNotificationConfig

	trimmed := bytes.TrimSpace(config)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		err := json.Unmarshal(trimmed, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	return &Action{config: cfg, notifier: f.notifier}, nil
}

// Schema returns the JSON schema for the action configuration.
func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userIds": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Users receiving the notification. Empty means the step does nothing.",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Notification title",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message body. Supports {{candidate_name}}, {{job_title}} and {{status}}.",
				"examples":    []string{"{{candidate_name}} moved to {{status}} for {{job_title}}"},
			},
		},
	}
}
