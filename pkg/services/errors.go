// Package services provides the business operations behind the
// dashboard API: workflow management, system stats, and chat.
package services

import "errors"

// Validation errors map to 400 responses at the web layer.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrInvalidKind          = errors.New("invalid workflow kind")
	ErrInvalidStatus        = errors.New("invalid workflow status")
	ErrInvalidSchedule      = errors.New("invalid schedule expression")
	ErrEmptyMessage         = errors.New("message cannot be empty")
)

// IsValidationError checks if an error should render as HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrEmptyMessage)
}
