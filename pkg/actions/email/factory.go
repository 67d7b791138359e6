// Package email implements the send_email workflow action.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
)

// ActionFactory is the factory for creating send_email actions.
type ActionFactory struct {
	templates   persistence.EmailTemplateRepository
	providers   persistence.NotificationRepository
	sender      mail.Sender
	defaultFrom string
	logger      *slog.Logger
}

// NewActionFactory creates a send_email factory. defaultFrom is used when the
// organization has no email provider configured.
func NewActionFactory(
	templates persistence.EmailTemplateRepository,
	providers persistence.NotificationRepository,
	sender mail.Sender,
	defaultFrom string,
	logger *slog.Logger,
) *ActionFactory {
	return &ActionFactory{
		templates:   templates,
		providers:   providers,
		sender:      sender,
		defaultFrom: defaultFrom,
		logger:      logger.With("action_type", models.ActionSendEmail),
	}
}

func (*ActionFactory) ID() models.ActionType {
	return models.ActionSendEmail
}

func (f *ActionFactory) Create(config json.RawMessage) (registry.Action, error) {
	var cfg models.SendEmailConfig

	trimmed := bytes.TrimSpace(config)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		err := json.Unmarshal(trimmed, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	return &Action{config: cfg, factory: f}, nil
}

// Schema returns the JSON schema for the action configuration.
func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"templateSlug": map[string]any{
				"type":        "string",
				"description": "Slug of the organization email template. Without it the step does nothing.",
				"examples":    []string{"interview-invite", "rejection"},
			},
		},
	}
}
