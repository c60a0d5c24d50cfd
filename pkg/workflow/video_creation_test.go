package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/reelay/reelay/pkg/ideas"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScripts struct {
	script models.Script
	err    error
	calls  int
}

func (f *fakeScripts) Generate(_ context.Context, _ models.Idea) (models.Script, error) {
	f.calls++

	if f.err != nil {
		return models.Script{}, f.err
	}

	return f.script, nil
}

type fakeGenerator struct {
	taskID    string
	submitErr error
	videoURL  string
	waitErr   error

	submitCalls int
	waitCalls   int
}

func (f *fakeGenerator) Submit(_ context.Context, _, _, _ string) (string, error) {
	f.submitCalls++

	if f.submitErr != nil {
		return "", f.submitErr
	}

	return f.taskID, nil
}

func (f *fakeGenerator) WaitForCompletion(_ context.Context, _ string, _, _ time.Duration) (string, error) {
	f.waitCalls++

	if f.waitErr != nil {
		return "", f.waitErr
	}

	return f.videoURL, nil
}

type fakePublisher struct {
	mediaURL  string
	uploadErr error
	postErrs  map[models.Platform]error

	uploadCalls int
	posts       []PostRequest
}

func (f *fakePublisher) UploadMedia(_ context.Context, _ string) (string, error) {
	f.uploadCalls++

	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	return f.mediaURL, nil
}

func (f *fakePublisher) CreatePost(_ context.Context, post PostRequest) (string, error) {
	if err := f.postErrs[post.Platform]; err != nil {
		return "", err
	}

	f.posts = append(f.posts, post)

	return "post-" + string(post.Platform), nil
}

func defaultScript() models.Script {
	return models.Script{
		Title:       "Tiny hops",
		Description: "A newborn goat discovers hopping.",
		Prompt:      "Handheld smartphone video of a newborn goat.",
		Hashtags:    "#goats #cute",
	}
}

type runnerFixture struct {
	runner    *VideoCreation
	store     persistence.Persistence
	scripts   *fakeScripts
	generator *fakeGenerator
	publisher *fakePublisher
}

func newFixture(t *testing.T, catalog []models.Idea) *runnerFixture {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	scripts := &fakeScripts{script: defaultScript()}
	generator := &fakeGenerator{taskID: "task-1", videoURL: "http://x/video.mp4"}
	publisher := &fakePublisher{mediaURL: "https://cdn/abc.mp4"}

	runner := NewVideoCreation(store, ideas.NewSource(catalog), scripts, generator, publisher, nil, slog.Default())

	return &runnerFixture{
		runner:    runner,
		store:     store,
		scripts:   scripts,
		generator: generator,
		publisher: publisher,
	}
}

func (f *runnerFixture) recentVideos(t *testing.T) []*models.Video {
	t.Helper()

	videos, err := f.store.Videos().Recent(t.Context(), 100)
	require.NoError(t, err)

	return videos
}

func (f *runnerFixture) recentRuns(t *testing.T) []*models.WorkflowRun {
	t.Helper()

	runs, err := f.store.Runs().Recent(t.Context(), 100)
	require.NoError(t, err)

	return runs
}

func TestRunHappyPath(t *testing.T) {
	fixture := newFixture(t, nil)

	result, err := fixture.runner.Run(t.Context(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Tiny hops", result["title"])
	assert.Equal(t, "http://x/video.mp4", result["video_url"])
	assert.Equal(t, []string{"youtube", "instagram", "tiktok"}, result["posted_to"])

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusCompleted, videos[0].Status)
	assert.True(t, videos[0].PostedYouTube)
	assert.True(t, videos[0].PostedInstagram)
	assert.True(t, videos[0].PostedTikTok)
	assert.Equal(t, "task-1", videos[0].GenerationTask)

	runs := fixture.recentRuns(t)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, videos[0].ID, runs[0].VideoID)
	require.NotNil(t, runs[0].CompletedAt)
}

func TestRotationCyclesCatalogOncePerN(t *testing.T) {
	catalog := []models.Idea{
		{Slug: "alpha", CoreHook: "a"},
		{Slug: "beta", CoreHook: "b"},
		{Slug: "gamma", CoreHook: "c"},
	}
	fixture := newFixture(t, catalog)

	var seen []string

	for range len(catalog) {
		result, err := fixture.runner.Run(t.Context(), nil)
		require.NoError(t, err)
		seen = append(seen, result["idea_slug"].(string))
	}

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, seen)

	// The next run wraps back to the start.
	result, err := fixture.runner.Run(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha", result["idea_slug"])
}

func TestRotationAdvancesOnFailedRuns(t *testing.T) {
	catalog := []models.Idea{
		{Slug: "alpha", CoreHook: "a"},
		{Slug: "beta", CoreHook: "b"},
	}
	fixture := newFixture(t, catalog)

	fixture.scripts.err = errors.New("model unavailable")
	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)

	// The failed run consumed "alpha"; the next run gets "beta".
	fixture.scripts.err = nil
	result, err := fixture.runner.Run(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "beta", result["idea_slug"])
}

func TestScriptFailureCreatesNoVideo(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.scripts.err = errors.New("malformed response")

	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, StageScriptGen, RunStage(err))

	assert.Empty(t, fixture.recentVideos(t))

	runs := fixture.recentRuns(t)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "malformed response")

	assert.Equal(t, 0, fixture.generator.submitCalls)
	assert.Equal(t, 0, fixture.publisher.uploadCalls)
}

func TestGenerationFailureSkipsPublishing(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.generator.waitErr = errors.New("task reported FAILED")

	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, StageVideoGeneration, RunStage(err))

	assert.Equal(t, 0, fixture.publisher.uploadCalls)
	assert.Empty(t, fixture.publisher.posts)

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusFailed, videos[0].Status)
}

func TestGenerationTimeoutNeverCompletes(t *testing.T) {
	timeout := errors.New("video generation timed out")

	fixture := newFixture(t, nil)
	fixture.generator.waitErr = timeout

	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, timeout)
	assert.Equal(t, StageVideoGeneration, RunStage(err))

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusFailed, videos[0].Status)
	assert.NotEqual(t, models.VideoStatusCompleted, videos[0].Status)

	runs := fixture.recentRuns(t)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusFailed, runs[0].Status)
}

func TestSubmissionFailureIsFatal(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.generator.submitErr = errors.New("quota exceeded")

	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, StageVideoSubmission, RunStage(err))

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusFailed, videos[0].Status)
	assert.Equal(t, 0, fixture.generator.waitCalls)
}

func TestUploadFailureIsFatal(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.publisher.uploadErr = errors.New("cdn unavailable")

	_, err := fixture.runner.Run(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, StageMediaUpload, RunStage(err))

	assert.Empty(t, fixture.publisher.posts)

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusFailed, videos[0].Status)
}

func TestPlatformFailureDoesNotFailRun(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.publisher.postErrs = map[models.Platform]error{
		models.PlatformInstagram: errors.New("account suspended"),
	}

	result, err := fixture.runner.Run(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"youtube", "tiktok"}, result["posted_to"])

	videos := fixture.recentVideos(t)
	require.Len(t, videos, 1)
	assert.Equal(t, models.VideoStatusCompleted, videos[0].Status)
	assert.True(t, videos[0].PostedYouTube)
	assert.False(t, videos[0].PostedInstagram)
	assert.True(t, videos[0].PostedTikTok)

	runs := fixture.recentRuns(t)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusCompleted, runs[0].Status)
}

func TestPostContentConcatenation(t *testing.T) {
	fixture := newFixture(t, nil)
	fixture.scripts.script = models.Script{
		Title:       "Tiny hops",
		Description: "A newborn goat discovers hopping.",
		Prompt:      "p",
		Hashtags:    "#a #b",
	}

	_, err := fixture.runner.Run(t.Context(), nil)
	require.NoError(t, err)

	require.Len(t, fixture.publisher.posts, 3)

	for _, post := range fixture.publisher.posts {
		assert.Equal(t, "A newborn goat discovers hopping. #a #b", post.Content)
		assert.Equal(t, "https://cdn/abc.mp4", post.MediaURL)
	}
}

func TestWorkflowConfigOverrides(t *testing.T) {
	fixture := newFixture(t, nil)

	definition := &models.Workflow{
		ID:     "wf-1",
		Name:   "TikTok only",
		Kind:   models.KindVideoCreation,
		Status: models.WorkflowStatusActive,
		Config: map[string]any{
			"platforms":         []any{"tiktok"},
			"tiktok_account_id": "99999",
		},
	}

	result, err := fixture.runner.Run(t.Context(), definition)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiktok"}, result["posted_to"])

	require.Len(t, fixture.publisher.posts, 1)
	assert.Equal(t, models.PlatformTikTok, fixture.publisher.posts[0].Platform)
	assert.Equal(t, "99999", fixture.publisher.posts[0].AccountID)
}
