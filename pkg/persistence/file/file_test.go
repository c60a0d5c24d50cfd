package file

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVideo() *models.Video {
	return &models.Video{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Idea:      models.Idea{Slug: "baby-goat-happy-hops", CoreHook: "hops"},
		Script:    models.Script{Title: "Tiny hops", Prompt: "a goat hops"},
		Status:    models.VideoStatusCreated,
	}
}

func TestVideoRepositoryCreateAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())
	video := newTestVideo()

	require.NoError(t, p.Videos().Create(t.Context(), video))

	fetched, err := p.Videos().GetByID(t.Context(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Idea.Slug, fetched.Idea.Slug)
	assert.Equal(t, models.VideoStatusCreated, fetched.Status)
}

func TestVideoRepositoryGetMissing(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.Videos().GetByID(t.Context(), "missing")
	assert.ErrorIs(t, err, persistence.ErrVideoNotFound)
}

func TestVideoRepositoryUpdateFollowsStateMachine(t *testing.T) {
	p := NewPersistence(t.TempDir())
	video := newTestVideo()
	require.NoError(t, p.Videos().Create(t.Context(), video))

	generating := models.VideoStatusGenerating
	taskID := "task-123"
	err := p.Videos().Update(t.Context(), video.ID, persistence.VideoUpdate{
		Status:         &generating,
		GenerationTask: &taskID,
	})
	require.NoError(t, err)

	fetched, err := p.Videos().GetByID(t.Context(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusGenerating, fetched.Status)
	assert.Equal(t, "task-123", fetched.GenerationTask)

	// Reverting to created must be rejected.
	created := models.VideoStatusCreated
	err = p.Videos().Update(t.Context(), video.ID, persistence.VideoUpdate{Status: &created})
	assert.ErrorIs(t, err, persistence.ErrInvalidStatusTransition)

	// Skipping straight to completed must be rejected too.
	completed := models.VideoStatusCompleted
	err = p.Videos().Update(t.Context(), video.ID, persistence.VideoUpdate{Status: &completed})
	assert.ErrorIs(t, err, persistence.ErrInvalidStatusTransition)
}

func TestVideoRepositoryPostedFlags(t *testing.T) {
	p := NewPersistence(t.TempDir())
	video := newTestVideo()
	require.NoError(t, p.Videos().Create(t.Context(), video))

	posted := true
	err := p.Videos().Update(t.Context(), video.ID, persistence.VideoUpdate{PostedYouTube: &posted})
	require.NoError(t, err)

	fetched, err := p.Videos().GetByID(t.Context(), video.ID)
	require.NoError(t, err)
	assert.True(t, fetched.PostedYouTube)
	assert.False(t, fetched.PostedTikTok)
	assert.False(t, fetched.PostedInstagram)
}

func TestRunRepositoryLifecycle(t *testing.T) {
	p := NewPersistence(t.TempDir())

	run := &models.WorkflowRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    models.RunStatusStarted,
	}
	require.NoError(t, p.Runs().Create(t.Context(), run))

	completed := models.RunStatusCompleted
	now := time.Now().UTC()
	videoID := uuid.New().String()
	err := p.Runs().Update(t.Context(), run.ID, persistence.RunUpdate{
		Status:      &completed,
		CompletedAt: &now,
		VideoID:     &videoID,
	})
	require.NoError(t, err)

	fetched, err := p.Runs().GetByID(t.Context(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, fetched.Status)
	assert.Equal(t, videoID, fetched.VideoID)
	require.NotNil(t, fetched.CompletedAt)

	counts, err := p.Runs().CountByStatus(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.RunStatusCompleted])
}

func TestWorkflowRepositoryRecordRun(t *testing.T) {
	p := NewPersistence(t.TempDir())

	workflow := &models.Workflow{
		ID:        uuid.New().String(),
		Name:      "Morning videos",
		Kind:      models.KindVideoCreation,
		Status:    models.WorkflowStatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Workflows().Save(t.Context(), workflow))

	at := time.Now().UTC()
	require.NoError(t, p.Workflows().RecordRun(t.Context(), workflow.ID, true, at))
	require.NoError(t, p.Workflows().RecordRun(t.Context(), workflow.ID, false, at))

	fetched, err := p.Workflows().GetByID(t.Context(), workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.TotalRuns)
	assert.Equal(t, 1, fetched.SuccessfulRuns)
	assert.Equal(t, 1, fetched.FailedRuns)
	require.NotNil(t, fetched.LastRunAt)
}

func TestWorkflowRepositoryListByStatus(t *testing.T) {
	p := NewPersistence(t.TempDir())

	for _, status := range []models.WorkflowStatus{models.WorkflowStatusActive, models.WorkflowStatusPaused} {
		workflow := &models.Workflow{
			ID:        uuid.New().String(),
			Name:      "wf-" + string(status),
			Kind:      models.KindVideoCreation,
			Status:    status,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, p.Workflows().Save(t.Context(), workflow))
	}

	active := models.WorkflowStatusActive
	workflows, err := p.Workflows().List(t.Context(), &active)
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, models.WorkflowStatusActive, workflows[0].Status)

	all, err := p.Workflows().List(t.Context(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConversationRepositoryHistoryOrder(t *testing.T) {
	p := NewPersistence(t.TempDir())
	session := uuid.New().String()

	base := time.Now().UTC()
	for i, content := range []string{"first", "second", "third"} {
		msg := &models.ConversationMessage{
			ID:        uuid.New().String(),
			SessionID: session,
			Role:      models.RoleUser,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, p.Conversations().Append(t.Context(), msg))
	}

	history, err := p.Conversations().History(t.Context(), session, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Content)
	assert.Equal(t, "third", history[1].Content)

	require.NoError(t, p.Conversations().Clear(t.Context(), session))

	history, err = p.Conversations().History(t.Context(), session, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestExecutionRepositoryComplete(t *testing.T) {
	p := NewPersistence(t.TempDir())

	execution := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: uuid.New().String(),
		StartedAt:  time.Now().UTC(),
		Status:     models.ExecutionStatusRunning,
	}
	require.NoError(t, p.Executions().Create(t.Context(), execution))

	err := p.Executions().Complete(t.Context(), execution.ID, models.ExecutionStatusSuccess,
		map[string]any{"video_id": "abc"}, "")
	require.NoError(t, err)

	history, err := p.Executions().ListByWorkflow(t.Context(), execution.WorkflowID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusSuccess, history[0].Status)
	assert.Equal(t, "abc", history[0].Result["video_id"])
	require.NotNil(t, history[0].CompletedAt)
}
