package workflow_test

import (
	"testing"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/workflow"
	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func TestCheckTriggerConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		trigger models.TriggerConfig
		wctx    models.WorkflowContext
		holds   bool
	}{
		{
			name:    "status changed matches both ends",
			trigger: models.StatusChangedTrigger{FromStatus: "screening", ToStatus: "interview"},
			wctx:    models.WorkflowContext{PreviousStatus: "screening", NewStatus: "interview"},
			holds:   true,
		},
		{
			name:    "status changed target mismatch",
			trigger: models.StatusChangedTrigger{ToStatus: "offer"},
			wctx:    models.WorkflowContext{PreviousStatus: "screening", NewStatus: "interview"},
			holds:   false,
		},
		{
			name:    "status changed source mismatch",
			trigger: models.StatusChangedTrigger{FromStatus: "applied", ToStatus: "interview"},
			wctx:    models.WorkflowContext{PreviousStatus: "screening", NewStatus: "interview"},
			holds:   false,
		},
		{
			name:    "status changed without constraints",
			trigger: models.StatusChangedTrigger{},
			wctx:    models.WorkflowContext{NewStatus: "rejected"},
			holds:   true,
		},
		{
			name:    "score above at threshold",
			trigger: models.ScoreThresholdTrigger{ScoreThreshold: score(80), ScoreComparison: models.ScoreAbove},
			wctx:    models.WorkflowContext{Application: &models.ApplicationSnapshot{ID: "a", AIScore: score(80)}},
			holds:   true,
		},
		{
			name:    "score above not reached",
			trigger: models.ScoreThresholdTrigger{ScoreThreshold: score(80), ScoreComparison: models.ScoreAbove},
			wctx:    models.WorkflowContext{Application: &models.ApplicationSnapshot{ID: "a", AIScore: score(79.5)}},
			holds:   false,
		},
		{
			name:    "score below",
			trigger: models.ScoreThresholdTrigger{ScoreThreshold: score(40), ScoreComparison: models.ScoreBelow},
			wctx:    models.WorkflowContext{Application: &models.ApplicationSnapshot{ID: "a", AIScore: score(12)}},
			holds:   true,
		},
		{
			name:    "missing score",
			trigger: models.ScoreThresholdTrigger{ScoreThreshold: score(40), ScoreComparison: models.ScoreBelow},
			wctx:    models.WorkflowContext{Application: &models.ApplicationSnapshot{ID: "a"}},
			holds:   false,
		},
		{
			name:    "missing threshold",
			trigger: models.ScoreThresholdTrigger{ScoreComparison: models.ScoreAbove},
			wctx:    models.WorkflowContext{Application: &models.ApplicationSnapshot{ID: "a", AIScore: score(99)}},
			holds:   false,
		},
		{
			name:    "application received always holds",
			trigger: models.ApplicationReceivedTrigger{},
			holds:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wf := &models.Workflow{TriggerType: tt.trigger.TriggerType(), Trigger: tt.trigger}

			holds, reason := workflow.CheckTriggerConditions(wf, tt.wctx)
			assert.Equal(t, tt.holds, holds)

			if tt.holds {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestCheckTriggerConditions_NilTriggerUsesZeroVariant(t *testing.T) {
	t.Parallel()

	holds, _ := workflow.CheckTriggerConditions(
		&models.Workflow{TriggerType: models.TriggerStatusChanged},
		models.WorkflowContext{NewStatus: "hired"},
	)
	assert.True(t, holds)
}
