package workflow

import (
	"fmt"

	"github.com/hirelane/hirelane/pkg/models"
)

// CheckTriggerConditions reports whether wctx satisfies the trigger config of wf.
// When it does not, reason says why. Trigger types without configuration always hold.
func CheckTriggerConditions(wf *models.Workflow, wctx models.WorkflowContext) (bool, string) {
	trigger := wf.Trigger
	if trigger == nil {
		decoded, err := models.DecodeTriggerConfig(wf.TriggerType, nil)
		if err != nil {
			return false, err.Error()
		}

		trigger = decoded
	}

	switch t := trigger.(type) {
	case models.StatusChangedTrigger:
		if t.FromStatus != "" && wctx.PreviousStatus != t.FromStatus {
			return false, fmt.Sprintf("previous status %q does not match %q", wctx.PreviousStatus, t.FromStatus)
		}

		if t.ToStatus != "" && wctx.NewStatus != t.ToStatus {
			return false, fmt.Sprintf("new status %q does not match %q", wctx.NewStatus, t.ToStatus)
		}

		return true, ""
	case models.ScoreThresholdTrigger:
		score, ok := wctx.AIScore()
		if !ok {
			return false, "application has no AI score"
		}

		if t.ScoreThreshold == nil {
			return false, "score threshold not configured"
		}

		threshold := *t.ScoreThreshold

		if t.ScoreComparison == models.ScoreAbove {
			if score >= threshold {
				return true, ""
			}

			return false, fmt.Sprintf("score %.2f is below threshold %.2f", score, threshold)
		}

		if score <= threshold {
			return true, ""
		}

		return false, fmt.Sprintf("score %.2f is above threshold %.2f", score, threshold)
	default:
		return true, ""
	}
}
