package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/actions/application"
	"github.com/hirelane/hirelane/pkg/mocks"
	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return at }

func TestApplicationActions_UpdateTriggeringApplication(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := file.NewPersistence(t.TempDir())

	require.NoError(t, store.Applications().Save(ctx, &file.Application{
		ID: "app-1", OrganizationID: "org-1", Status: "applied", Stage: "new",
	}))

	wctx := models.WorkflowContext{
		OrganizationID: "org-1",
		Application:    &models.ApplicationSnapshot{ID: "app-1"},
	}

	tests := []struct {
		name    string
		factory *application.ActionFactory
		config  string
		check   func(t *testing.T, app *file.Application)
	}{
		{
			name:    "change_status",
			factory: application.NewChangeStatusFactory(store.ApplicationRepository()),
			config:  `{"status":"interview"}`,
			check:   func(t *testing.T, app *file.Application) { assert.Equal(t, "interview", app.Status) },
		},
		{
			name:    "move_to_stage",
			factory: application.NewMoveToStageFactory(store.ApplicationRepository()),
			config:  `{"stage":"technical"}`,
			check:   func(t *testing.T, app *file.Application) { assert.Equal(t, "technical", app.Stage) },
		},
		{
			name:    "assign_to_user",
			factory: application.NewAssignToUserFactory(store.ApplicationRepository()),
			config:  `{"userId":"u-rec"}`,
			check:   func(t *testing.T, app *file.Application) { assert.Equal(t, "u-rec", app.AssignedTo) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := tt.factory.WithClock(clock).Create(json.RawMessage(tt.config))
			require.NoError(t, err)

			result, err := action.Execute(ctx, wctx)
			require.NoError(t, err)
			assert.Equal(t, "app-1", result["application_id"])

			app, err := store.Applications().Get(ctx, "app-1")
			require.NoError(t, err)
			tt.check(t, app)
			assert.True(t, app.UpdatedAt.Equal(at))
		})
	}
}

func TestApplicationActions_NoApplicationIsNoop(t *testing.T) {
	t.Parallel()

	apps := &mocks.MockApplicationRepository{}

	action, err := application.NewChangeStatusFactory(apps).Create(json.RawMessage(`{"status":"rejected"}`))
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), models.WorkflowContext{OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Contains(t, result, "skipped")
	apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationActions_OtherOrganizationIsUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := file.NewPersistence(t.TempDir())

	require.NoError(t, store.Applications().Save(ctx, &file.Application{ID: "app-1", OrganizationID: "org-2", Status: "applied"}))

	action, err := application.NewChangeStatusFactory(store.ApplicationRepository()).Create(json.RawMessage(`{"status":"hired"}`))
	require.NoError(t, err)

	_, err = action.Execute(ctx, models.WorkflowContext{
		OrganizationID: "org-1",
		Application:    &models.ApplicationSnapshot{ID: "app-1"},
	})
	require.NoError(t, err)

	app, err := store.Applications().Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, "applied", app.Status)
}

func TestApplicationActions_RepositoryErrorFailsAction(t *testing.T) {
	t.Parallel()

	apps := &mocks.MockApplicationRepository{}
	apps.On("UpdateStage", mock.Anything, "org-1", "app-1", "offer", mock.Anything).Return(errors.New("deadlock detected"))

	action, err := application.NewMoveToStageFactory(apps).Create(json.RawMessage(`{"stage":"offer"}`))
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.WorkflowContext{
		OrganizationID: "org-1",
		Application:    &models.ApplicationSnapshot{ID: "app-1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestApplicationFactory_RejectsMissingValue(t *testing.T) {
	t.Parallel()

	apps := &mocks.MockApplicationRepository{}

	for _, factory := range []*application.ActionFactory{
		application.NewChangeStatusFactory(apps),
		application.NewMoveToStageFactory(apps),
		application.NewAssignToUserFactory(apps),
	} {
		_, err := factory.Create(json.RawMessage(`{}`))
		require.Error(t, err, factory.ID())

		_, err = factory.Create(nil)
		require.Error(t, err, factory.ID())

		_, err = factory.Create(json.RawMessage(`{"status":`))
		require.Error(t, err, factory.ID())
	}
}

func TestApplicationFactory_Schema(t *testing.T) {
	t.Parallel()

	schema := application.NewAssignToUserFactory(nil).Schema()
	assert.Equal(t, []string{"userId"}, schema["required"])
}
