package models

import "time"

// WorkflowKind selects the execution strategy for a workflow.
type WorkflowKind string

const (
	KindVideoCreation WorkflowKind = "video_creation"
	KindEngagement    WorkflowKind = "engagement"
	KindAnalytics     WorkflowKind = "analytics"
	KindCustom        WorkflowKind = "custom"
)

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusActive   WorkflowStatus = "active"   // Executable, picked up by the scheduler
	WorkflowStatusPaused   WorkflowStatus = "paused"   // Kept but not executable
	WorkflowStatusArchived WorkflowStatus = "archived" // Historical, not executable
)

// Workflow is a stored automation definition. Config carries the
// kind-specific settings (platforms, account ids, aspect ratio, ...)
// and is validated against the kind's schema before the workflow is
// saved or executed.
type Workflow struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"        validate:"required,min=3"`
	Description    string         `json:"description"`
	Kind           WorkflowKind   `json:"kind"        validate:"required"`
	Config         map[string]any `json:"config"`
	Schedule       string         `json:"schedule,omitempty"` // cron expression, empty for manual-only
	Status         WorkflowStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastRunAt      *time.Time     `json:"last_run_at,omitempty"`
	TotalRuns      int            `json:"total_runs"`
	SuccessfulRuns int            `json:"successful_runs"`
	FailedRuns     int            `json:"failed_runs"`
}
