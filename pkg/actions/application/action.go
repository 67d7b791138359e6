package application

import (
	"context"
	"fmt"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
)

type updateFunc func(ctx context.Context, organizationID, applicationID, value string, at time.Time) error

// Action overwrites one field of the triggering application and touches updated_at.
type Action struct {
	actionType models.ActionType
	field      string
	value      string
	apply      updateFunc
	now        func() time.Time
}

func (a *Action) Execute(ctx context.Context, wctx models.WorkflowContext) (map[string]any, error) {
	applicationID := wctx.ApplicationID()
	if applicationID == "" {
		return map[string]any{"skipped": "no application in context"}, nil
	}

	err := a.apply(ctx, wctx.OrganizationID, applicationID, a.value, a.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s failed for application %s: %w", a.actionType, applicationID, err)
	}

	return map[string]any{
		"application_id": applicationID,
		a.field:          a.value,
	}, nil
}
