package workflow

import (
	"time"

	"github.com/reelay/reelay/pkg/models"
)

// Defaults matching the accounts and render settings the pipeline was
// built around.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxWait      = 600 * time.Second
	DefaultAspectRatio  = "9:16"
	DefaultVideoModel   = "sora-2-text-to-video"

	DefaultYouTubeAccountID   = "19977"
	DefaultInstagramAccountID = "22251"
	DefaultTikTokAccountID    = "22514"
)

// Config carries the per-invocation knobs of a video creation run.
type Config struct {
	Platforms    []models.Platform
	AccountIDs   map[models.Platform]string
	AspectRatio  string
	VideoModel   string
	PollInterval time.Duration
	MaxWait      time.Duration

	// IdeaSlug pins the run to one catalog entry instead of the
	// rotation cursor.
	IdeaSlug string
}

func DefaultConfig() Config {
	return Config{
		Platforms: models.DefaultPlatforms(),
		AccountIDs: map[models.Platform]string{
			models.PlatformYouTube:   DefaultYouTubeAccountID,
			models.PlatformInstagram: DefaultInstagramAccountID,
			models.PlatformTikTok:    DefaultTikTokAccountID,
		},
		AspectRatio:  DefaultAspectRatio,
		VideoModel:   DefaultVideoModel,
		PollInterval: DefaultPollInterval,
		MaxWait:      DefaultMaxWait,
	}
}

// ConfigFromWorkflow overlays a workflow's stored config blob onto the
// defaults. Unknown keys are ignored; the blob is schema-validated at
// save time, not here.
func ConfigFromWorkflow(workflow *models.Workflow) Config {
	cfg := DefaultConfig()

	if workflow == nil || workflow.Config == nil {
		return cfg
	}

	if raw, ok := workflow.Config["platforms"].([]any); ok {
		platforms := make([]models.Platform, 0, len(raw))

		for _, item := range raw {
			name, ok := item.(string)
			if !ok {
				continue
			}

			platform := models.Platform(name)
			if platform.Valid() {
				platforms = append(platforms, platform)
			}
		}

		if len(platforms) > 0 {
			cfg.Platforms = platforms
		}
	}

	if aspectRatio, ok := workflow.Config["aspect_ratio"].(string); ok && aspectRatio != "" {
		cfg.AspectRatio = aspectRatio
	}

	if model, ok := workflow.Config["video_model"].(string); ok && model != "" {
		cfg.VideoModel = model
	}

	if seconds, ok := configSeconds(workflow.Config, "poll_interval_seconds"); ok {
		cfg.PollInterval = seconds
	}

	if seconds, ok := configSeconds(workflow.Config, "max_wait_seconds"); ok {
		cfg.MaxWait = seconds
	}

	if slug, ok := workflow.Config["idea_slug"].(string); ok {
		cfg.IdeaSlug = slug
	}

	accountKeys := map[models.Platform]string{
		models.PlatformYouTube:   "youtube_account_id",
		models.PlatformInstagram: "instagram_account_id",
		models.PlatformTikTok:    "tiktok_account_id",
	}

	for platform, key := range accountKeys {
		if accountID, ok := workflow.Config[key].(string); ok && accountID != "" {
			cfg.AccountIDs[platform] = accountID
		}
	}

	return cfg
}

// JSON numbers decode as float64; stored configs may also carry ints.
func configSeconds(config map[string]any, key string) (time.Duration, bool) {
	switch value := config[key].(type) {
	case float64:
		if value > 0 {
			return time.Duration(value) * time.Second, true
		}
	case int:
		if value > 0 {
			return time.Duration(value) * time.Second, true
		}
	}

	return 0, false
}
