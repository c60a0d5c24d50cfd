package workflow

import (
	"context"
	"errors"
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

type stubRunner struct {
	kind   models.WorkflowKind
	result map[string]any
	err    error
	panics bool
	calls  int
}

func (s *stubRunner) Kind() models.WorkflowKind {
	return s.kind
}

func (s *stubRunner) Run(_ context.Context, _ *models.Workflow) (map[string]any, error) {
	s.calls++

	if s.panics {
		panic("runner exploded")
	}

	return s.result, s.err
}

func saveWorkflow(t *testing.T, store persistence.Persistence, status models.WorkflowStatus) *models.Workflow {
	t.Helper()

	definition := &models.Workflow{
		ID:        uuid.New().String(),
		Name:      "test workflow",
		Kind:      models.KindVideoCreation,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Workflows().Save(t.Context(), definition))

	return definition
}

func TestExecuteSuccessRecordsHistory(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	runner := &stubRunner{kind: models.KindVideoCreation, result: map[string]any{"video_id": "v1"}}
	executor := NewExecutor(store, slog.Default(), runner)

	definition := saveWorkflow(t, store, models.WorkflowStatusActive)

	result, err := executor.Execute(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", result["video_id"])
	assert.Equal(t, 1, runner.calls)

	history, err := store.Executions().ListByWorkflow(t.Context(), definition.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusSuccess, history[0].Status)

	updated, err := store.Workflows().GetByID(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalRuns)
	assert.Equal(t, 1, updated.SuccessfulRuns)
	assert.Equal(t, 0, updated.FailedRuns)
	require.NotNil(t, updated.LastRunAt)
}

func TestExecuteFailureRecordsFailure(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	runner := &stubRunner{kind: models.KindVideoCreation, err: errors.New("pipeline broke")}
	executor := NewExecutor(store, slog.Default(), runner)

	definition := saveWorkflow(t, store, models.WorkflowStatusActive)

	_, err := executor.Execute(t.Context(), definition.ID)
	require.Error(t, err)

	history, err := store.Executions().ListByWorkflow(t.Context(), definition.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusFailed, history[0].Status)
	assert.Contains(t, history[0].Error, "pipeline broke")

	updated, err := store.Workflows().GetByID(t.Context(), definition.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.FailedRuns)
}

func TestExecuteRecoversPanics(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	runner := &stubRunner{kind: models.KindVideoCreation, panics: true}
	executor := NewExecutor(store, slog.Default(), runner)

	definition := saveWorkflow(t, store, models.WorkflowStatusActive)

	_, err := executor.Execute(t.Context(), definition.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner exploded")

	history, err := store.Executions().ListByWorkflow(t.Context(), definition.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusFailed, history[0].Status)
}

func TestExecuteRejectsInactiveWorkflow(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	runner := &stubRunner{kind: models.KindVideoCreation}
	executor := NewExecutor(store, slog.Default(), runner)

	definition := saveWorkflow(t, store, models.WorkflowStatusPaused)

	_, err := executor.Execute(t.Context(), definition.ID)
	require.Error(t, err)
	assert.True(t, IsWorkflowNotActive(err))
	assert.Equal(t, 0, runner.calls)
}

func TestExecuteUnknownWorkflow(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	executor := NewExecutor(store, slog.Default())

	_, err := executor.Execute(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecuteUnknownKind(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	executor := NewExecutor(store, slog.Default(), &stubRunner{kind: models.KindAnalytics})

	definition := saveWorkflow(t, store, models.WorkflowStatusActive)

	_, err := executor.Execute(t.Context(), definition.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
