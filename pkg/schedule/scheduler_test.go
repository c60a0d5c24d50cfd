package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopExecute(_ context.Context, _ string) (map[string]any, error) {
	return nil, nil
}

func saveWorkflow(t *testing.T, store persistence.Persistence, schedule string, status models.WorkflowStatus) *models.Workflow {
	t.Helper()

	definition := &models.Workflow{
		ID:        uuid.New().String(),
		Name:      "scheduled",
		Kind:      models.KindVideoCreation,
		Schedule:  schedule,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Workflows().Save(t.Context(), definition))

	return definition
}

func TestSyncRegistersActiveScheduledWorkflows(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	scheduler := NewScheduler(store, noopExecute, slog.Default())

	scheduled := saveWorkflow(t, store, "0 5 * * *", models.WorkflowStatusActive)
	saveWorkflow(t, store, "", models.WorkflowStatusActive)
	saveWorkflow(t, store, "0 9 * * *", models.WorkflowStatusPaused)

	require.NoError(t, scheduler.Sync(t.Context()))

	entries := scheduler.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, scheduled.ID, entries[0])
}

func TestSyncDropsPausedWorkflows(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	scheduler := NewScheduler(store, noopExecute, slog.Default())

	definition := saveWorkflow(t, store, "0 5 * * *", models.WorkflowStatusActive)
	require.NoError(t, scheduler.Sync(t.Context()))
	require.Len(t, scheduler.Entries(), 1)

	paused := models.WorkflowStatusPaused
	require.NoError(t, store.Workflows().Update(t.Context(), definition.ID, persistence.WorkflowUpdate{Status: &paused}))

	require.NoError(t, scheduler.Sync(t.Context()))
	assert.Empty(t, scheduler.Entries())
}

func TestSyncSkipsInvalidExpressions(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	scheduler := NewScheduler(store, noopExecute, slog.Default())

	saveWorkflow(t, store, "not a cron expression", models.WorkflowStatusActive)

	require.NoError(t, scheduler.Sync(t.Context()))
	assert.Empty(t, scheduler.Entries())
}

func TestSyncReRegistersChangedExpression(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	scheduler := NewScheduler(store, noopExecute, slog.Default())

	definition := saveWorkflow(t, store, "0 5 * * *", models.WorkflowStatusActive)
	require.NoError(t, scheduler.Sync(t.Context()))

	newSchedule := "30 19 * * *"
	require.NoError(t, store.Workflows().Update(t.Context(), definition.ID, persistence.WorkflowUpdate{Schedule: &newSchedule}))

	require.NoError(t, scheduler.Sync(t.Context()))

	scheduler.mu.Lock()
	entry := scheduler.entries[definition.ID]
	scheduler.mu.Unlock()

	assert.Equal(t, newSchedule, entry.schedule)
}
