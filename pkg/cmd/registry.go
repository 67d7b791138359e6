// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/hirelane/hirelane/pkg/actions/application"
	"github.com/hirelane/hirelane/pkg/actions/email"
	"github.com/hirelane/hirelane/pkg/actions/notify"
	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/registry"
)

func registerApplicationActions(reg *registry.Registry, p persistence.Persistence) {
	reg.RegisterAction(application.NewChangeStatusFactory(p.ApplicationRepository()))
	reg.RegisterAction(application.NewMoveToStageFactory(p.ApplicationRepository()))
	reg.RegisterAction(application.NewAssignToUserFactory(p.ApplicationRepository()))
}

func registerMessagingActions(
	reg *registry.Registry,
	p persistence.Persistence,
	sender mail.Sender,
	defaultFrom string,
	notifier notify.Notifier,
	log *slog.Logger,
) {
	reg.RegisterAction(email.NewActionFactory(p.EmailTemplateRepository(), p.NotificationRepository(), sender, defaultFrom, log))
	reg.RegisterAction(notify.NewActionFactory(notifier))
}

// NewRegistry registers every built-in workflow action.
func NewRegistry(
	log *slog.Logger,
	p persistence.Persistence,
	sender mail.Sender,
	defaultFrom string,
	notifier notify.Notifier,
) *registry.Registry {
	reg := registry.NewRegistry(log)

	registerApplicationActions(reg, p)
	registerMessagingActions(reg, p, sender, defaultFrom, notifier, log)

	return reg
}
