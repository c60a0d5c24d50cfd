// Package persistence provides the data storage abstraction for
// videos, runs, workflows, executions, credentials, logs, and
// conversations.
package persistence

import (
	"context"
	"time"

	"github.com/reelay/reelay/pkg/models"
)

// Persistence is the durable store behind the automation system.
// Each repository covers one keyed record set; no operation spans
// more than one of them.
type Persistence interface {
	Videos() VideoRepository
	Runs() RunRepository
	Workflows() WorkflowRepository
	Executions() ExecutionRepository
	Credentials() CredentialRepository
	Logs() LogRepository
	Conversations() ConversationRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// VideoUpdate is a partial mutation of a video record. Nil fields
// are left untouched. Status changes are validated against the
// status state machine by the repository.
type VideoUpdate struct {
	Status          *models.VideoStatus
	GenerationTask  *string
	VideoURL        *string
	Error           *string
	PostedTikTok    *bool
	PostedInstagram *bool
	PostedYouTube   *bool
}

// RunUpdate is a partial mutation of a workflow run record.
type RunUpdate struct {
	Status      *models.RunStatus
	CompletedAt *time.Time
	VideoID     *string
	Error       *string
}

// WorkflowUpdate is a partial mutation of a workflow definition.
type WorkflowUpdate struct {
	Name        *string
	Description *string
	Config      map[string]any
	Schedule    *string
	Status      *models.WorkflowStatus
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	Update(ctx context.Context, id string, update VideoUpdate) error
	Recent(ctx context.Context, limit int) ([]*models.Video, error)
	CountByStatus(ctx context.Context) (map[models.VideoStatus]int, error)
}

type RunRepository interface {
	Create(ctx context.Context, run *models.WorkflowRun) error
	GetByID(ctx context.Context, id string) (*models.WorkflowRun, error)
	Update(ctx context.Context, id string, update RunUpdate) error
	Recent(ctx context.Context, limit int) ([]*models.WorkflowRun, error)
	CountByStatus(ctx context.Context) (map[models.RunStatus]int, error)
}

type WorkflowRepository interface {
	Save(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	List(ctx context.Context, status *models.WorkflowStatus) ([]*models.Workflow, error)
	Update(ctx context.Context, id string, update WorkflowUpdate) error
	Delete(ctx context.Context, id string) error

	// RecordRun bumps the run counters and last-run timestamp after
	// an execution finishes.
	RecordRun(ctx context.Context, id string, success bool, at time.Time) error
}

type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error
	Complete(ctx context.Context, id string, status models.ExecutionStatus, result map[string]any, execErr string) error
	ListByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error)
}

type CredentialRepository interface {
	Upsert(ctx context.Context, credential *models.Credential) error
	Get(ctx context.Context, service string) (*models.Credential, error)
	List(ctx context.Context) ([]*models.Credential, error)
}

type LogRepository interface {
	Append(ctx context.Context, entry *models.LogEntry) error
	Recent(ctx context.Context, limit int, level string) ([]*models.LogEntry, error)
}

type ConversationRepository interface {
	Append(ctx context.Context, message *models.ConversationMessage) error
	History(ctx context.Context, sessionID string, limit int) ([]*models.ConversationMessage, error)
	Clear(ctx context.Context, sessionID string) error
}
