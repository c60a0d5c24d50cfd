package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/event_bus"
	"github.com/reelay/reelay/pkg/events"
	"github.com/reelay/reelay/pkg/ideas"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// VideoCreation runs the end-to-end pipeline: idea -> script ->
// generation -> upload -> per-platform posting, with durable progress
// markers at every stage.
//
// The rotation cursor is call-by-call state owned by this runner. It
// advances exactly once per run, after the run record opens, so a
// downstream failure still consumes the idea.
type VideoCreation struct {
	persistence persistence.Persistence
	source      *ideas.Source
	scripts     ScriptGenerator
	generator   VideoGenerator
	publisher   MediaPublisher
	bus         event_bus.EventPublisher
	logger      *slog.Logger

	mu     sync.Mutex
	cursor int
}

func NewVideoCreation(
	store persistence.Persistence,
	source *ideas.Source,
	scripts ScriptGenerator,
	generator VideoGenerator,
	publisher MediaPublisher,
	bus event_bus.EventPublisher,
	logger *slog.Logger,
) *VideoCreation {
	return &VideoCreation{
		persistence: store,
		source:      source,
		scripts:     scripts,
		generator:   generator,
		publisher:   publisher,
		bus:         bus,
		logger:      logger.With("module", "video_creation"),
	}
}

func (r *VideoCreation) Kind() models.WorkflowKind {
	return models.KindVideoCreation
}

func (r *VideoCreation) Run(ctx context.Context, workflow *models.Workflow) (map[string]any, error) {
	cfg := ConfigFromWorkflow(workflow)

	workflowID := ""
	workflowName := "manual"

	if workflow != nil {
		workflowID = workflow.ID
		workflowName = workflow.Name
	}

	run := &models.WorkflowRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    models.RunStatusStarted,
	}

	err := r.persistence.Runs().Create(ctx, run)
	if err != nil {
		return nil, newRunError(StageRunRecord, fmt.Errorf("failed to open run record: %w", err))
	}

	logger := r.logger.With("run_id", run.ID, "workflow_id", workflowID)
	logger.InfoContext(ctx, "Starting video creation run")

	r.publish(ctx, events.RunStarted{
		BaseEvent:    events.NewBaseEvent(events.RunStartedEvent, workflowID),
		RunID:        run.ID,
		WorkflowName: workflowName,
	})

	idea, err := r.nextIdea(cfg)
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, nil, StageIdeaSelection, err)
	}

	logger.InfoContext(ctx, "Selected idea", "slug", idea.Slug)

	script, err := r.scripts.Generate(ctx, idea)
	if err != nil {
		// Fatal before any video record exists.
		return nil, r.failRun(ctx, workflowID, run, nil, StageScriptGen, err)
	}

	logger.InfoContext(ctx, "Generated script", "title", script.Title)

	video := &models.Video{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Idea:      idea,
		Script:    script,
		Status:    models.VideoStatusCreated,
	}

	err = r.persistence.Videos().Create(ctx, video)
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, nil, StageRunRecord, fmt.Errorf("failed to create video record: %w", err))
	}

	logger = logger.With("video_id", video.ID)

	taskID, err := r.generator.Submit(ctx, script.Prompt, cfg.AspectRatio, cfg.VideoModel)
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StageVideoSubmission, err)
	}

	generating := models.VideoStatusGenerating

	err = r.persistence.Videos().Update(ctx, video.ID, persistence.VideoUpdate{
		Status:         &generating,
		GenerationTask: &taskID,
	})
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StageVideoSubmission, err)
	}

	r.publishStage(ctx, workflowID, run.ID, video.ID, models.VideoStatusCreated, generating)
	logger.InfoContext(ctx, "Generation task submitted", "task_id", taskID)

	videoURL, err := r.generator.WaitForCompletion(ctx, taskID, cfg.PollInterval, cfg.MaxWait)
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StageVideoGeneration, err)
	}

	generated := models.VideoStatusGenerated

	err = r.persistence.Videos().Update(ctx, video.ID, persistence.VideoUpdate{
		Status:   &generated,
		VideoURL: &videoURL,
	})
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StageVideoGeneration, err)
	}

	r.publishStage(ctx, workflowID, run.ID, video.ID, generating, generated)
	logger.InfoContext(ctx, "Video generated", "video_url", videoURL)

	mediaURL, err := r.publisher.UploadMedia(ctx, videoURL)
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StageMediaUpload, err)
	}

	postedTo := r.fanOut(ctx, logger, cfg, workflowID, run.ID, video.ID, script, mediaURL)

	completed := models.VideoStatusCompleted

	err = r.persistence.Videos().Update(ctx, video.ID, persistence.VideoUpdate{Status: &completed})
	if err != nil {
		return nil, r.failRun(ctx, workflowID, run, video, StagePublishing, err)
	}

	r.publishStage(ctx, workflowID, run.ID, video.ID, generated, completed)

	now := time.Now().UTC()
	runCompleted := models.RunStatusCompleted

	err = r.persistence.Runs().Update(ctx, run.ID, persistence.RunUpdate{
		Status:      &runCompleted,
		CompletedAt: &now,
		VideoID:     &video.ID,
	})
	if err != nil {
		return nil, newRunError(StageRunRecord, fmt.Errorf("failed to close run record: %w", err))
	}

	result := map[string]any{
		"run_id":    run.ID,
		"video_id":  video.ID,
		"video_url": videoURL,
		"title":     script.Title,
		"idea_slug": idea.Slug,
		"posted_to": platformNames(postedTo),
	}

	r.publish(ctx, events.RunCompleted{
		BaseEvent:  events.NewBaseEvent(events.RunCompletedEvent, workflowID),
		RunID:      run.ID,
		VideoID:    video.ID,
		Result:     result,
		DurationMs: time.Since(run.StartedAt).Milliseconds(),
	})

	logger.InfoContext(ctx, "Run completed", "posted_to", platformNames(postedTo))

	return result, nil
}

// fanOut attempts every configured platform independently. A platform
// failure is logged and leaves its posted flag unset; it never aborts
// the remaining platforms or the run.
func (r *VideoCreation) fanOut(
	ctx context.Context,
	logger *slog.Logger,
	cfg Config,
	workflowID, runID, videoID string,
	script models.Script,
	mediaURL string,
) []models.Platform {
	content := script.PostContent()
	postedTo := make([]models.Platform, 0, len(cfg.Platforms))

	for _, platform := range cfg.Platforms {
		postID, err := r.publisher.CreatePost(ctx, PostRequest{
			Platform:  platform,
			AccountID: cfg.AccountIDs[platform],
			Content:   content,
			MediaURL:  mediaURL,
			Title:     script.Title,
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to post to platform", "platform", platform, "error", err)

			continue
		}

		err = r.persistence.Videos().Update(ctx, videoID, postedFlagUpdate(platform))
		if err != nil {
			logger.ErrorContext(ctx, "Failed to persist posted flag", "platform", platform, "error", err)
		}

		postedTo = append(postedTo, platform)

		r.publish(ctx, events.PlatformPosted{
			BaseEvent: events.NewBaseEvent(events.PlatformPostedEvent, workflowID),
			RunID:     runID,
			VideoID:   videoID,
			Platform:  platform,
			PostID:    postID,
		})

		logger.InfoContext(ctx, "Posted to platform", "platform", platform)
	}

	return postedTo
}

// nextIdea resolves the run's idea: a pinned slug when configured,
// otherwise the next rotation entry. The cursor advance is the only
// mutation and happens exactly once per call.
func (r *VideoCreation) nextIdea(cfg Config) (models.Idea, error) {
	if cfg.IdeaSlug != "" {
		return r.source.BySlug(cfg.IdeaSlug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idea, next := r.source.Next(r.cursor)
	r.cursor = next

	return idea, nil
}

// failRun marks the video (when one exists) and the run as failed,
// publishes the failure, and returns the stage-tagged error.
func (r *VideoCreation) failRun(ctx context.Context, workflowID string, run *models.WorkflowRun, video *models.Video, stage Stage, cause error) error {
	message := cause.Error()

	if video != nil {
		failed := models.VideoStatusFailed

		err := r.persistence.Videos().Update(ctx, video.ID, persistence.VideoUpdate{
			Status: &failed,
			Error:  &message,
		})
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to mark video failed", "video_id", video.ID, "error", err)
		}
	}

	now := time.Now().UTC()
	failed := models.RunStatusFailed

	update := persistence.RunUpdate{
		Status:      &failed,
		CompletedAt: &now,
		Error:       &message,
	}
	if video != nil {
		update.VideoID = &video.ID
	}

	err := r.persistence.Runs().Update(ctx, run.ID, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark run failed", "run_id", run.ID, "error", err)
	}

	r.publish(ctx, events.RunFailed{
		BaseEvent:  events.NewBaseEvent(events.RunFailedEvent, workflowID),
		RunID:      run.ID,
		Stage:      string(stage),
		Error:      message,
		DurationMs: time.Since(run.StartedAt).Milliseconds(),
	})

	r.logger.ErrorContext(ctx, "Run failed", "run_id", run.ID, "stage", stage, "error", cause)

	return newRunError(stage, cause)
}

func (r *VideoCreation) publish(ctx context.Context, event events.Event) {
	if r.bus == nil {
		return
	}

	err := r.bus.Publish(ctx, event)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func (r *VideoCreation) publishStage(ctx context.Context, workflowID, runID, videoID string, from, to models.VideoStatus) {
	r.publish(ctx, events.VideoStageChanged{
		BaseEvent: events.NewBaseEvent(events.VideoStageChangedEvent, workflowID),
		RunID:     runID,
		VideoID:   videoID,
		From:      from,
		To:        to,
	})
}

func postedFlagUpdate(platform models.Platform) persistence.VideoUpdate {
	posted := true

	switch platform {
	case models.PlatformTikTok:
		return persistence.VideoUpdate{PostedTikTok: &posted}
	case models.PlatformInstagram:
		return persistence.VideoUpdate{PostedInstagram: &posted}
	case models.PlatformYouTube:
		return persistence.VideoUpdate{PostedYouTube: &posted}
	}

	return persistence.VideoUpdate{}
}

func platformNames(platforms []models.Platform) []string {
	names := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		names = append(names, string(platform))
	}

	return names
}
