package workflow

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a run error originated from, so
// callers can render which step broke without parsing messages.
type Stage string

const (
	StageRunRecord       Stage = "run_record"
	StageIdeaSelection   Stage = "idea_selection"
	StageScriptGen       Stage = "script_generation"
	StageVideoSubmission Stage = "video_submission"
	StageVideoGeneration Stage = "video_generation"
	StageMediaUpload     Stage = "media_upload"
	StagePublishing      Stage = "publishing"
)

// ErrWorkflowNotActive indicates an execution was requested for a
// paused or archived workflow.
var ErrWorkflowNotActive = errors.New("workflow is not active")

// ErrUnknownKind indicates no runner is registered for the workflow's kind.
var ErrUnknownKind = errors.New("unknown workflow kind")

func IsWorkflowNotActive(err error) bool {
	return errors.Is(err, ErrWorkflowNotActive)
}

// RunError is a run failure tagged with the stage it happened at.
type RunError struct {
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func newRunError(stage Stage, err error) *RunError {
	return &RunError{Stage: stage, Err: err}
}

// RunStage extracts the stage tag from an error chain, or empty when
// the error did not originate inside a run.
func RunStage(err error) Stage {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Stage
	}

	return ""
}
