package workflow

import (
	"testing"
	"time"

	"github.com/reelay/reelay/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromWorkflowDefaults(t *testing.T) {
	cfg := ConfigFromWorkflow(nil)

	assert.Equal(t, models.DefaultPlatforms(), cfg.Platforms)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 600*time.Second, cfg.MaxWait)
	assert.Equal(t, "9:16", cfg.AspectRatio)
	assert.Equal(t, "sora-2-text-to-video", cfg.VideoModel)
	assert.Equal(t, "19977", cfg.AccountIDs[models.PlatformYouTube])
	assert.Equal(t, "22251", cfg.AccountIDs[models.PlatformInstagram])
	assert.Equal(t, "22514", cfg.AccountIDs[models.PlatformTikTok])
}

func TestConfigFromWorkflowOverrides(t *testing.T) {
	cfg := ConfigFromWorkflow(&models.Workflow{
		Config: map[string]any{
			"platforms":             []any{"instagram", "bluesky"},
			"aspect_ratio":          "16:9",
			"video_model":           "sora-2-pro",
			"poll_interval_seconds": float64(5),
			"max_wait_seconds":      float64(120),
			"instagram_account_id":  "777",
			"idea_slug":             "baby-goat-happy-hops",
		},
	})

	// Unknown platform names are dropped, known ones kept.
	assert.Equal(t, []models.Platform{models.PlatformInstagram}, cfg.Platforms)
	assert.Equal(t, "16:9", cfg.AspectRatio)
	assert.Equal(t, "sora-2-pro", cfg.VideoModel)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 120*time.Second, cfg.MaxWait)
	assert.Equal(t, "777", cfg.AccountIDs[models.PlatformInstagram])
	assert.Equal(t, "baby-goat-happy-hops", cfg.IdeaSlug)
}

func TestValidateConfig(t *testing.T) {
	err := ValidateConfig(models.KindVideoCreation, map[string]any{
		"platforms":    []any{"tiktok"},
		"aspect_ratio": "9:16",
	})
	require.NoError(t, err)

	err = ValidateConfig(models.KindVideoCreation, map[string]any{
		"platforms": []any{"myspace"},
	})
	require.Error(t, err)

	err = ValidateConfig(models.KindVideoCreation, map[string]any{
		"poll_interval_seconds": -5,
	})
	require.Error(t, err)

	err = ValidateConfig(models.KindVideoCreation, map[string]any{
		"unknown_key": true,
	})
	require.Error(t, err)

	err = ValidateConfig(models.KindCustom, map[string]any{"anything": "goes"})
	require.NoError(t, err)

	err = ValidateConfig("mystery", nil)
	require.Error(t, err)
}
