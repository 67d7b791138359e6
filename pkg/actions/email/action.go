package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/hirelane/hirelane/pkg/template"
)

// Action renders an organization email template for the candidate and sends it.
type Action struct {
	config  models.SendEmailConfig
	factory *ActionFactory
}

// Variables returns the placeholders available to email templates.
func Variables(wctx models.WorkflowContext) map[string]string {
	vars := map[string]string{
		"job_title":          wctx.JobTitle(),
		"application_status": wctx.CurrentStatus(),
	}

	if wctx.Candidate != nil {
		vars["first_name"] = wctx.Candidate.FirstName
		vars["last_name"] = wctx.Candidate.LastName
		vars["full_name"] = wctx.Candidate.FullName()
	}

	return vars
}

func (a *Action) Execute(ctx context.Context, wctx models.WorkflowContext) (map[string]any, error) {
	logger := a.factory.logger.With("organization_id", wctx.OrganizationID)

	if a.config.TemplateSlug == "" {
		logger.DebugContext(ctx, "no template configured, skipping")

		return map[string]any{"skipped": "no template configured"}, nil
	}

	if wctx.Candidate == nil || wctx.Candidate.Email == "" {
		logger.DebugContext(ctx, "candidate has no email, skipping")

		return map[string]any{"skipped": "candidate email missing"}, nil
	}

	tmpl, err := a.factory.templates.GetBySlug(ctx, wctx.OrganizationID, a.config.TemplateSlug)
	if err != nil {
		if errors.Is(err, persistence.ErrEmailTemplateNotFound) {
			logger.WarnContext(ctx, "email template not found, skipping", "template_slug", a.config.TemplateSlug)

			return map[string]any{"skipped": "template not found"}, nil
		}

		return nil, fmt.Errorf("failed to load email template %s: %w", a.config.TemplateSlug, err)
	}

	from, fromName, provider := a.factory.defaultFrom, "", ""

	configured, err := a.factory.providers.GetEmailProvider(ctx, wctx.OrganizationID)

	switch {
	case err == nil:
		from, fromName, provider = configured.FromAddress, configured.FromName, configured.Provider
	case !errors.Is(err, persistence.ErrEmailProviderNotFound):
		logger.WarnContext(ctx, "failed to load email provider, using default sender", "error", err)
	}

	vars := Variables(wctx)
	msg := mail.Message{
		OrganizationID: wctx.OrganizationID,
		Provider:       provider,
		From:           from,
		FromName:       fromName,
		To:             wctx.Candidate.Email,
		Subject:        template.Render(tmpl.Subject, vars),
		Body:           template.Render(tmpl.Body, vars),
	}

	err = a.factory.sender.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s email: %w", a.config.TemplateSlug, err)
	}

	logger.InfoContext(ctx, "email sent", "template_slug", a.config.TemplateSlug, "candidate_id", wctx.Candidate.ID)

	return map[string]any{
		"template_slug": a.config.TemplateSlug,
		"recipient":     msg.To,
	}, nil
}
