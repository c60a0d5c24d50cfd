package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Workflow, persistence.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())

	return NewWorkflow(store), store
}

func TestCreateWorkflow(t *testing.T) {
	service, _ := newService(t)

	definition, err := service.Create(t.Context(), CreateWorkflowRequest{
		Name:     "Morning videos",
		Kind:     "video_creation",
		Config:   map[string]any{"platforms": []any{"tiktok"}},
		Schedule: "0 5 * * *",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, definition.ID)
	assert.Equal(t, models.WorkflowStatusActive, definition.Status)

	fetched, err := service.Get(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning videos", fetched.Name)
}

func TestCreateWorkflowValidation(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Create(t.Context(), CreateWorkflowRequest{Kind: "video_creation"})
	assert.ErrorIs(t, err, ErrWorkflowNameRequired)

	_, err = service.Create(t.Context(), CreateWorkflowRequest{Name: "x", Kind: "teleport"})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = service.Create(t.Context(), CreateWorkflowRequest{
		Name:   "x",
		Kind:   "video_creation",
		Config: map[string]any{"platforms": []any{"myspace"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.Create(t.Context(), CreateWorkflowRequest{
		Name:     "x",
		Kind:     "video_creation",
		Schedule: "every tuesday-ish",
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestUpdateWorkflowStatus(t *testing.T) {
	service, _ := newService(t)

	definition, err := service.Create(t.Context(), CreateWorkflowRequest{Name: "x", Kind: "video_creation"})
	require.NoError(t, err)

	paused, err := service.Pause(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusPaused, paused.Status)

	resumed, err := service.Resume(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, resumed.Status)

	bogus := "sideways"
	_, err = service.Update(t.Context(), definition.ID, UpdateWorkflowRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateMissingWorkflow(t *testing.T) {
	service, _ := newService(t)

	name := "y"
	_, err := service.Update(t.Context(), "missing", UpdateWorkflowRequest{Name: &name})
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestStats(t *testing.T) {
	service, store := newService(t)

	_, err := service.Create(t.Context(), CreateWorkflowRequest{Name: "a", Kind: "video_creation"})
	require.NoError(t, err)

	definition, err := service.Create(t.Context(), CreateWorkflowRequest{Name: "b", Kind: "analytics"})
	require.NoError(t, err)
	_, err = service.Pause(t.Context(), definition.ID)
	require.NoError(t, err)

	for _, status := range []models.RunStatus{models.RunStatusCompleted, models.RunStatusCompleted, models.RunStatusFailed} {
		run := &models.WorkflowRun{
			ID:        uuid.New().String(),
			StartedAt: time.Now().UTC(),
			Status:    models.RunStatusStarted,
		}
		require.NoError(t, store.Runs().Create(t.Context(), run))

		final := status
		now := time.Now().UTC()
		require.NoError(t, store.Runs().Update(t.Context(), run.ID, persistence.RunUpdate{
			Status:      &final,
			CompletedAt: &now,
		}))
	}

	stats, err := service.Stats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalWorkflows)
	assert.Equal(t, 1, stats.ActiveWorkflows)
	assert.Equal(t, 1, stats.PausedWorkflows)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.SuccessfulRuns)
	assert.Equal(t, 1, stats.FailedRuns)
	assert.InDelta(t, 66.7, stats.SuccessRate, 0.1)
}
