package models

import "time"

// RunStatus is the lifecycle state of a workflow run. Runs open as
// started and terminate as completed or failed.
type RunStatus string

const (
	RunStatusStarted   RunStatus = "started"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// WorkflowRun is the durable record of one end-to-end execution of
// the video pipeline, from idea selection through publishing
// attempts. One row per invocation, append-only.
type WorkflowRun struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      RunStatus  `json:"status"`
	VideoID     string     `json:"video_id,omitempty"`
	Error       string     `json:"error,omitempty"`
}
