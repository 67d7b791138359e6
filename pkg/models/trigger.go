package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TriggerConfig is the per-trigger-type configuration of a workflow.
// Each trigger type has exactly one concrete variant, so fields such as
// ScoreThreshold are only reachable when the score_threshold variant is selected.
type TriggerConfig interface {
	TriggerType() TriggerType
}

// ApplicationReceivedTrigger carries no configuration.
type ApplicationReceivedTrigger struct{}

func (ApplicationReceivedTrigger) TriggerType() TriggerType { return TriggerApplicationReceived }

// InterviewCompletedTrigger carries no configuration.
type InterviewCompletedTrigger struct{}

func (InterviewCompletedTrigger) TriggerType() TriggerType { return TriggerInterviewCompleted }

// StatusChangedTrigger optionally constrains the previous and the new status.
// An empty field means "any".
type StatusChangedTrigger struct {
	FromStatus string `json:"fromStatus,omitempty"`
	ToStatus   string `json:"toStatus,omitempty"`
}

func (StatusChangedTrigger) TriggerType() TriggerType { return TriggerStatusChanged }

// ScoreComparison selects how an AI score is compared against the threshold.
type ScoreComparison string

const (
	ScoreAbove ScoreComparison = "above"
	ScoreBelow ScoreComparison = "below"
)

// ScoreThresholdTrigger fires when the application AI score crosses ScoreThreshold.
type ScoreThresholdTrigger struct {
	ScoreThreshold  *float64        `json:"scoreThreshold,omitempty"`
	ScoreComparison ScoreComparison `json:"scoreComparison,omitempty"`
}

func (ScoreThresholdTrigger) TriggerType() TriggerType { return TriggerScoreThreshold }

// ScheduleType is the recurrence of a time based workflow.
type ScheduleType string

const (
	ScheduleDaily   ScheduleType = "daily"
	ScheduleWeekly  ScheduleType = "weekly"
	ScheduleMonthly ScheduleType = "monthly"
)

// TimeBasedTrigger runs a workflow on a schedule.
// ScheduleDays holds weekdays (0 = Sunday) for weekly schedules and days of
// the month for monthly schedules. ScheduleTime is "HH:MM" in UTC.
type TimeBasedTrigger struct {
	ScheduleType ScheduleType `json:"scheduleType,omitempty"`
	ScheduleDays []int        `json:"scheduleDays,omitempty"`
	ScheduleTime string       `json:"scheduleTime,omitempty"`
}

func (TimeBasedTrigger) TriggerType() TriggerType { return TriggerTimeBased }

// DecodeTriggerConfig decodes the raw trigger_config column into the variant for triggerType.
// A missing or null column yields the zero value of the variant.
func DecodeTriggerConfig(triggerType TriggerType, raw json.RawMessage) (TriggerConfig, error) {
	var target TriggerConfig

	switch triggerType {
	case TriggerApplicationReceived:
		return ApplicationReceivedTrigger{}, nil
	case TriggerInterviewCompleted:
		return InterviewCompletedTrigger{}, nil
	case TriggerStatusChanged:
		target = &StatusChangedTrigger{}
	case TriggerScoreThreshold:
		target = &ScoreThresholdTrigger{}
	case TriggerTimeBased:
		target = &TimeBasedTrigger{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTriggerType, triggerType)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		err := json.Unmarshal(trimmed, target)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s trigger config: %w", triggerType, err)
		}
	}

	switch v := target.(type) {
	case *StatusChangedTrigger:
		return *v, nil
	case *ScoreThresholdTrigger:
		return *v, nil
	case *TimeBasedTrigger:
		return *v, nil
	}

	return target, nil
}
