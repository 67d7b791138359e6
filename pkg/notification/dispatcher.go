// Package notification fans an event out to in-app notifications and email.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/otelhelper"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/template"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

// Options force a channel on regardless of the organization setting.
type Options struct {
	ForceInApp bool `json:"force_in_app,omitempty"`
	ForceEmail bool `json:"force_email,omitempty"`
}

// Result counts what was delivered. Errors holds one entry per failed delivery.
type Result struct {
	InAppSent int      `json:"in_app_sent"`
	EmailSent int      `json:"email_sent"`
	Errors    []string `json:"errors"`
}

func (r *Result) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Dispatcher resolves channels and audience for an event code and delivers it.
type Dispatcher struct {
	notifications persistence.NotificationRepository
	memberships   persistence.MembershipRepository
	sender        mail.Sender
	logger        *slog.Logger
	defaults      Defaults
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	now           func() time.Time
}

type Option func(*Dispatcher)

func WithDefaults(defaults Defaults) Option {
	return func(d *Dispatcher) { d.defaults = defaults }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = tracer }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(
	notifications persistence.NotificationRepository,
	memberships persistence.MembershipRepository,
	sender mail.Sender,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		notifications: notifications,
		memberships:   memberships,
		sender:        sender,
		logger:        logger.With("module", "notification_dispatcher"),
		defaults:      BuiltinDefaults(),
		tracer:        otelhelper.NoopTracer(),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Send delivers eventCode to recipients, or to the configured audience when recipients is empty.
// Failures are collected in the result and never abort the remaining deliveries.
func (d *Dispatcher) Send(
	ctx context.Context,
	eventCode, organizationID string,
	recipients []models.Recipient,
	variables map[string]string,
	opts Options,
) Result {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "notification.send",
		attribute.String(otelhelper.EventCodeKey, eventCode),
		attribute.String(otelhelper.OrganizationIDKey, organizationID),
	)
	defer span.End()

	result := Result{Errors: []string{}}
	logger := d.logger.With("event_code", eventCode, "organization_id", organizationID)

	setting := d.setting(ctx, logger, organizationID, eventCode)

	if len(recipients) == 0 {
		var err error

		recipients, err = d.audience(ctx, organizationID, setting.Audience)
		if err != nil {
			otelhelper.SetError(span, err)
			result.fail("resolve audience: %v", err)

			return result
		}
	}

	span.SetAttributes(attribute.Int(otelhelper.RecipientCountKey, len(recipients)))

	if len(recipients) == 0 {
		logger.DebugContext(ctx, "no recipients for event")

		return result
	}

	title := renderOr(setting.TitleTemplate, variables["title"], variables)
	body := renderOr(setting.BodyTemplate, variables["message"], variables)

	if setting.InAppEnabled || opts.ForceInApp {
		userIDs := make([]string, 0, len(recipients))
		for _, recipient := range recipients {
			userIDs = append(userIDs, recipient.UserID)
		}

		sent, err := d.insert(ctx, organizationID, eventCode, userIDs, title, body, variables["link"])
		if err != nil {
			otelhelper.SetError(span, err)
			logger.ErrorContext(ctx, "failed to insert in-app notifications", "error", err)
			result.fail("in-app: %v", err)
		}

		result.InAppSent = sent
	}

	if setting.EmailEnabled || opts.ForceEmail {
		d.email(ctx, logger, &result, organizationID, eventCode, recipients, title, body, variables)
	}

	return result
}

// NotifyUsers inserts one in-app notification per user id and returns how many were written.
func (d *Dispatcher) NotifyUsers(ctx context.Context, organizationID string, userIDs []string, title, message, link string) (int, error) {
	return d.insert(ctx, organizationID, "", userIDs, title, message, link)
}

func (d *Dispatcher) insert(ctx context.Context, organizationID, eventCode string, userIDs []string, title, message, link string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	createdAt := d.now().UTC()
	rows := make([]*models.Notification, 0, len(userIDs))

	for _, userID := range userIDs {
		rows = append(rows, &models.Notification{
			OrganizationID: organizationID,
			UserID:         userID,
			EventCode:      eventCode,
			Title:          title,
			Message:        message,
			Link:           link,
			CreatedAt:      createdAt,
		})
	}

	err := d.notifications.InsertNotifications(ctx, rows)
	if err != nil {
		d.metrics.NotificationDelivered(ChannelInApp, "failed")

		return 0, fmt.Errorf("failed to insert notifications: %w", err)
	}

	d.metrics.NotificationDelivered(ChannelInApp, "sent")

	return len(rows), nil
}

func (d *Dispatcher) setting(ctx context.Context, logger *slog.Logger, organizationID, eventCode string) models.NotificationSetting {
	setting, err := d.notifications.GetSetting(ctx, organizationID, eventCode)
	if err == nil {
		return *setting
	}

	if !errors.Is(err, persistence.ErrNotificationSettingNotFound) {
		logger.WarnContext(ctx, "failed to load notification setting, using defaults", "error", err)
	}

	fallback, ok := d.defaults[eventCode]
	if !ok {
		fallback = models.NotificationSetting{EventCode: eventCode, InAppEnabled: true}
	}

	fallback.OrganizationID = organizationID

	return fallback
}

func (d *Dispatcher) audience(ctx context.Context, organizationID string, roles []models.Role) ([]models.Recipient, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	members, err := d.memberships.ListByRoles(ctx, organizationID, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to list members by role: %w", err)
	}

	recipients := make([]models.Recipient, 0, len(members))
	for _, member := range members {
		recipients = append(recipients, models.Recipient{
			UserID: member.UserID,
			Email:  member.Email,
			Name:   member.FullName,
		})
	}

	return recipients, nil
}

func (d *Dispatcher) email(
	ctx context.Context,
	logger *slog.Logger,
	result *Result,
	organizationID, eventCode string,
	recipients []models.Recipient,
	subject, body string,
	variables map[string]string,
) {
	provider, err := d.notifications.GetEmailProvider(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, persistence.ErrEmailProviderNotFound) {
			logger.WarnContext(ctx, "failed to load email provider", "error", err)
			result.fail("email provider: %v", err)
		}

		return
	}

	if !provider.Verified {
		logger.DebugContext(ctx, "email provider not verified, skipping email channel", "provider", provider.Provider)

		return
	}

	for _, recipient := range recipients {
		if recipient.Email == "" {
			continue
		}

		vars := make(map[string]string, len(variables)+1)
		for k, v := range variables {
			vars[k] = v
		}

		vars["recipient_name"] = recipient.Name

		msg := mail.Message{
			OrganizationID: organizationID,
			Provider:       provider.Provider,
			From:           provider.FromAddress,
			FromName:       provider.FromName,
			To:             recipient.Email,
			Subject:        template.Render(subject, vars),
			Body:           template.Render(body, vars),
		}

		deliveryLog := &models.EmailDeliveryLog{
			OrganizationID: organizationID,
			EventCode:      eventCode,
			Recipient:      recipient.Email,
			Subject:        msg.Subject,
			Status:         models.DeliverySent,
			CreatedAt:      d.now().UTC(),
		}

		sendErr := d.sender.Send(ctx, msg)
		if sendErr != nil {
			deliveryLog.Status = models.DeliveryFailed
			deliveryLog.Error = sendErr.Error()
			result.fail("email to %s: %v", recipient.Email, sendErr)
			logger.WarnContext(ctx, "email delivery failed", "recipient", recipient.UserID, "error", sendErr)
			d.metrics.NotificationDelivered(ChannelEmail, "failed")
		} else {
			result.EmailSent++
			d.metrics.NotificationDelivered(ChannelEmail, "sent")
		}

		err = d.notifications.InsertDeliveryLog(ctx, deliveryLog)
		if err != nil {
			logger.ErrorContext(ctx, "failed to record email delivery", "recipient", recipient.UserID, "error", err)
		}
	}
}

func renderOr(tmpl, fallback string, variables map[string]string) string {
	if tmpl == "" {
		tmpl = fallback
	}

	return template.Render(tmpl, variables)
}
