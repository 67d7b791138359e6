package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/hirelane/hirelane/pkg/mocks"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCronSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		trigger  models.TimeBasedTrigger
		expected string
		wantErr  bool
	}{
		{
			name:     "daily",
			trigger:  models.TimeBasedTrigger{ScheduleType: models.ScheduleDaily, ScheduleTime: "07:30"},
			expected: "30 7 * * *",
		},
		{
			name:     "default type and time",
			trigger:  models.TimeBasedTrigger{},
			expected: "0 9 * * *",
		},
		{
			name:     "weekly sorted and deduplicated",
			trigger:  models.TimeBasedTrigger{ScheduleType: models.ScheduleWeekly, ScheduleDays: []int{5, 1, 1}, ScheduleTime: "18:05"},
			expected: "5 18 * * 1,5",
		},
		{
			name:     "monthly",
			trigger:  models.TimeBasedTrigger{ScheduleType: models.ScheduleMonthly, ScheduleDays: []int{1, 15}, ScheduleTime: "00:00"},
			expected: "0 0 1,15 * *",
		},
		{
			name:    "weekly without days",
			trigger: models.TimeBasedTrigger{ScheduleType: models.ScheduleWeekly},
			wantErr: true,
		},
		{
			name:    "weekday out of range",
			trigger: models.TimeBasedTrigger{ScheduleType: models.ScheduleWeekly, ScheduleDays: []int{7}},
			wantErr: true,
		},
		{
			name:    "month day out of range",
			trigger: models.TimeBasedTrigger{ScheduleType: models.ScheduleMonthly, ScheduleDays: []int{0}},
			wantErr: true,
		},
		{
			name:    "bad time",
			trigger: models.TimeBasedTrigger{ScheduleTime: "25:99"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			trigger: models.TimeBasedTrigger{ScheduleType: "hourly"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec, err := CronSpec(tt.trigger)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSchedule)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, spec)
		})
	}
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls     []models.WorkflowContext
	ids       []string
	workflows []*models.Workflow
}

func (d *recordingDispatcher) Dispatch(_ context.Context, wf *models.Workflow, wctx models.WorkflowContext) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ids = append(d.ids, wf.ID)
	d.workflows = append(d.workflows, wf)
	d.calls = append(d.calls, wctx)
}

func timeBased(id, clock string) *models.Workflow {
	return &models.Workflow{
		ID:             id,
		OrganizationID: "org-1",
		TriggerType:    models.TriggerTimeBased,
		Trigger:        models.TimeBasedTrigger{ScheduleType: models.ScheduleDaily, ScheduleTime: clock},
		IsActive:       true,
	}
}

func TestReload_SyncsEntries(t *testing.T) {
	t.Parallel()

	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).Return([]*models.Workflow{
		timeBased("wf-1", "08:00"),
		timeBased("wf-2", "not-a-time"),
		timeBased("wf-3", "10:15"),
	}, nil).Once()
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).Return([]*models.Workflow{
		timeBased("wf-1", "08:30"),
	}, nil).Once()

	s := New(workflows, &recordingDispatcher{}, newLogger())

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 2, s.Len())

	spec, ok := s.Spec("wf-3")
	require.True(t, ok)
	assert.Equal(t, "15 10 * * *", spec)

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.cron.Entries(), 1)

	spec, _ = s.Spec("wf-1")
	assert.Equal(t, "30 8 * * *", spec)
}

func TestReload_ListFailure(t *testing.T) {
	t.Parallel()

	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).Return(nil, errors.New("db down"))

	s := New(workflows, &recordingDispatcher{}, newLogger())

	require.Error(t, s.Reload(context.Background()))
	assert.Zero(t, s.Len())
}

func TestFire_DispatchesStoredWorkflow(t *testing.T) {
	t.Parallel()

	edited := timeBased("wf-1", "08:00")
	edited.Name = "edited after reload"

	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).
		Return([]*models.Workflow{timeBased("wf-1", "08:00")}, nil).Once()
	workflows.On("GetByID", mock.Anything, "org-1", "wf-1").Return(edited, nil).Once()

	dispatcher := &recordingDispatcher{}
	s := New(workflows, dispatcher, newLogger())

	require.NoError(t, s.Reload(context.Background()))

	s.cron.Entries()[0].Job.Run()
	s.fire(context.Background(), "unknown")

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "org-1", dispatcher.calls[0].OrganizationID)
	assert.Equal(t, "scheduler", dispatcher.calls[0].TriggeredBy)
	assert.Equal(t, "wf-1", dispatcher.ids[0])
	assert.Same(t, edited, dispatcher.workflows[0])
	workflows.AssertExpectations(t)
}

func TestFire_SkipsDeactivatedWorkflow(t *testing.T) {
	t.Parallel()

	deactivated := timeBased("wf-1", "08:00")
	deactivated.IsActive = false

	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).
		Return([]*models.Workflow{timeBased("wf-1", "08:00"), timeBased("wf-2", "09:00")}, nil).Once()
	workflows.On("GetByID", mock.Anything, "org-1", "wf-1").Return(deactivated, nil).Once()
	workflows.On("GetByID", mock.Anything, "org-1", "wf-2").
		Return(nil, persistence.NewWorkflowError("GetByID", "org-1", "wf-2", persistence.ErrWorkflowNotFound)).Once()

	dispatcher := &recordingDispatcher{}
	s := New(workflows, dispatcher, newLogger())

	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, 2, s.Len())

	s.fire(context.Background(), "wf-1")
	s.fire(context.Background(), "wf-2")

	assert.Empty(t, dispatcher.calls)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.cron.Entries())
	workflows.AssertExpectations(t)
}

func TestFire_KeepsEntryOnLoadFailure(t *testing.T) {
	t.Parallel()

	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListActiveByTriggerType", mock.Anything, models.TriggerTimeBased).
		Return([]*models.Workflow{timeBased("wf-1", "08:00")}, nil).Once()
	workflows.On("GetByID", mock.Anything, "org-1", "wf-1").Return(nil, errors.New("db down")).Once()

	dispatcher := &recordingDispatcher{}
	s := New(workflows, dispatcher, newLogger())

	require.NoError(t, s.Reload(context.Background()))

	s.fire(context.Background(), "wf-1")

	assert.Empty(t, dispatcher.calls)
	assert.Equal(t, 1, s.Len())
}
