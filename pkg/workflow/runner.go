package workflow

import (
	"context"
	"time"

	"github.com/reelay/reelay/pkg/models"
)

// Runner executes workflows of one kind. Run returns a result
// snapshot for the execution history; errors are run failures, not
// infrastructure faults.
type Runner interface {
	Kind() models.WorkflowKind
	Run(ctx context.Context, workflow *models.Workflow) (map[string]any, error)
}

// Collaborator contracts of the video creation pipeline. Satisfied by
// the vendor clients; tests substitute fakes.

type ScriptGenerator interface {
	Generate(ctx context.Context, idea models.Idea) (models.Script, error)
}

type VideoGenerator interface {
	Submit(ctx context.Context, prompt, aspectRatio, model string) (string, error)
	WaitForCompletion(ctx context.Context, taskID string, interval, maxWait time.Duration) (string, error)
}

type MediaPublisher interface {
	UploadMedia(ctx context.Context, mediaURL string) (string, error)
	CreatePost(ctx context.Context, post PostRequest) (string, error)
}

// PostRequest mirrors the publisher's payload without importing the
// vendor package into the core.
type PostRequest struct {
	Platform  models.Platform
	AccountID string
	Content   string
	MediaURL  string
	Title     string
}
