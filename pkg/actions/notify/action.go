package notify

import (
	"context"
	"fmt"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/template"
)

const defaultTitle = "Workflow notification"

// Action sends one in-app notification to each configured user.
type Action struct {
	config   models.SendNotificationConfig
	notifier Notifier
}

func (a *Action) Execute(ctx context.Context, wctx models.WorkflowContext) (map[string]any, error) {
	if len(a.config.UserIDs) == 0 {
		return map[string]any{"skipped": "no recipients configured"}, nil
	}

	vars := map[string]string{
		"candidate_name": wctx.CandidateName(),
		"job_title":      wctx.JobTitle(),
		"status":         wctx.CurrentStatus(),
	}

	title := a.config.Title
	if title == "" {
		title = defaultTitle
	}

	link := ""
	if id := wctx.ApplicationID(); id != "" {
		link = "/applications/" + id
	}

	sent, err := a.notifier.NotifyUsers(
		ctx,
		wctx.OrganizationID,
		a.config.UserIDs,
		template.Render(title, vars),
		template.Render(a.config.Message, vars),
		link,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to notify users: %w", err)
	}

	return map[string]any{"notified": sent}, nil
}
