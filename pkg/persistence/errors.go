package persistence

import "errors"

// Standard persistence error types that all implementations use.
var (
	// ErrVideoNotFound indicates a video was not found by the given id.
	ErrVideoNotFound = errors.New("video not found")

	// ErrRunNotFound indicates a workflow run was not found by the given id.
	ErrRunNotFound = errors.New("workflow run not found")

	// ErrWorkflowNotFound indicates a workflow was not found by the given id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrExecutionNotFound indicates an execution record was not found.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrCredentialNotFound indicates no credential is stored for the service.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrInvalidStatusTransition indicates an update tried to move a
	// record backwards through its state machine.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// IsVideoNotFound checks if an error indicates a video was not found.
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsRunNotFound checks if an error indicates a run was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsCredentialNotFound checks if an error indicates a missing credential.
func IsCredentialNotFound(err error) bool {
	return errors.Is(err, ErrCredentialNotFound)
}

// IsInvalidStatusTransition checks if an error indicates a rejected
// status change.
func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}
