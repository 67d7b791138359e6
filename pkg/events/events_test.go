package events_test

import (
	"encoding/json"
	"testing"

	"github.com/hirelane/hirelane/pkg/events"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	t.Parallel()

	first := events.NewBaseEvent(events.WorkflowTriggeredEvent, "org-1", "wf-1")
	second := events.NewBaseEvent(events.WorkflowTriggeredEvent, "org-1", "wf-1")

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "org-1", first.OrganizationID)
	assert.False(t, first.Timestamp.IsZero())
}

func TestWorkflowTriggered_DecodesThroughNew(t *testing.T) {
	t.Parallel()

	score := 82.5
	original := events.WorkflowTriggered{
		BaseEvent:   events.NewBaseEvent(events.WorkflowTriggeredEvent, "org-1", "wf-1"),
		TriggerType: models.TriggerScoreThreshold,
		Context: models.WorkflowContext{
			OrganizationID: "org-1",
			Application:    &models.ApplicationSnapshot{ID: "app-1", AIScore: &score},
		},
	}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	target, ok := events.New(original.GetType())
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(payload, target))

	decoded, ok := target.(*events.WorkflowTriggered)
	require.True(t, ok)
	assert.Equal(t, "wf-1", decoded.WorkflowID)
	assert.Equal(t, models.TriggerScoreThreshold, decoded.TriggerType)

	got, present := decoded.Context.AIScore()
	assert.True(t, present)
	assert.InDelta(t, 82.5, got, 0.0001)
}

func TestNew_UnknownType(t *testing.T) {
	t.Parallel()

	_, ok := events.New("node.activation")
	assert.False(t, ok)
}

func TestOutcomeEventTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, events.WorkflowExecutionCompletedEvent, events.WorkflowExecutionCompleted{}.GetType())
	assert.Equal(t, events.WorkflowExecutionFailedEvent, events.WorkflowExecutionFailed{}.GetType())
	assert.Equal(t, events.WorkflowExecutionSkippedEvent, events.WorkflowExecutionSkipped{}.GetType())
}
