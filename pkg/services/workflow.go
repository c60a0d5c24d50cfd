package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/workflow"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow manages workflow definitions and system-wide stats.
type Workflow struct {
	persistence persistence.Persistence
}

func NewWorkflow(store persistence.Persistence) *Workflow {
	return &Workflow{persistence: store}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateWorkflowRequest carries a new workflow definition.
type CreateWorkflowRequest struct {
	Name        string         `json:"name"        validate:"required,min=1,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Kind        string         `json:"kind"        validate:"required"`
	Config      map[string]any `json:"config"`
	Schedule    string         `json:"schedule"`
}

func (w *Workflow) Create(ctx context.Context, req CreateWorkflowRequest) (*models.Workflow, error) {
	if req.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	kind := models.WorkflowKind(req.Kind)
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, req.Kind)
	}

	err := workflow.ValidateConfig(kind, req.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	err = validateSchedule(req.Schedule)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	definition := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Kind:        kind,
		Config:      req.Config,
		Schedule:    req.Schedule,
		Status:      models.WorkflowStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = w.persistence.Workflows().Save(ctx, definition)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return definition, nil
}

func (w *Workflow) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.Workflows().GetByID(ctx, id)
}

func (w *Workflow) List(ctx context.Context, status *models.WorkflowStatus) ([]*models.Workflow, error) {
	if status != nil && !validStatus(*status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *status)
	}

	return w.persistence.Workflows().List(ctx, status)
}

// UpdateWorkflowRequest carries a partial definition change. Nil
// fields are left untouched.
type UpdateWorkflowRequest struct {
	Name        *string        `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Config      map[string]any `json:"config,omitempty"`
	Schedule    *string        `json:"schedule,omitempty"`
	Status      *string        `json:"status,omitempty"`
}

func (w *Workflow) Update(ctx context.Context, id string, req UpdateWorkflowRequest) (*models.Workflow, error) {
	existing, err := w.persistence.Workflows().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := persistence.WorkflowUpdate{
		Name:        req.Name,
		Description: req.Description,
		Schedule:    req.Schedule,
	}

	if req.Name != nil && *req.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	if req.Config != nil {
		err = workflow.ValidateConfig(existing.Kind, req.Config)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}

		update.Config = req.Config
	}

	if req.Schedule != nil {
		err = validateSchedule(*req.Schedule)
		if err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		status := models.WorkflowStatus(*req.Status)
		if !validStatus(status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}

		update.Status = &status
	}

	err = w.persistence.Workflows().Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	return w.persistence.Workflows().GetByID(ctx, id)
}

func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.Workflows().Delete(ctx, id)
}

func (w *Workflow) Pause(ctx context.Context, id string) (*models.Workflow, error) {
	paused := string(models.WorkflowStatusPaused)

	return w.Update(ctx, id, UpdateWorkflowRequest{Status: &paused})
}

func (w *Workflow) Resume(ctx context.Context, id string) (*models.Workflow, error) {
	active := string(models.WorkflowStatusActive)

	return w.Update(ctx, id, UpdateWorkflowRequest{Status: &active})
}

// Stats aggregates the dashboard's headline numbers.
type Stats struct {
	TotalWorkflows  int                        `json:"total_workflows"`
	ActiveWorkflows int                        `json:"active_workflows"`
	PausedWorkflows int                        `json:"paused_workflows"`
	TotalRuns       int                        `json:"total_runs"`
	SuccessfulRuns  int                        `json:"successful_runs"`
	FailedRuns      int                        `json:"failed_runs"`
	SuccessRate     float64                    `json:"success_rate"`
	VideosByStatus  map[models.VideoStatus]int `json:"videos_by_status"`
}

func (w *Workflow) Stats(ctx context.Context) (*Stats, error) {
	workflows, err := w.persistence.Workflows().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	runCounts, err := w.persistence.Runs().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	videoCounts, err := w.persistence.Videos().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	stats := &Stats{
		TotalWorkflows: len(workflows),
		SuccessfulRuns: runCounts[models.RunStatusCompleted],
		FailedRuns:     runCounts[models.RunStatusFailed],
		VideosByStatus: videoCounts,
	}

	for _, definition := range workflows {
		switch definition.Status {
		case models.WorkflowStatusActive:
			stats.ActiveWorkflows++
		case models.WorkflowStatusPaused:
			stats.PausedWorkflows++
		case models.WorkflowStatusArchived:
		}
	}

	for _, count := range runCounts {
		stats.TotalRuns += count
	}

	finished := stats.SuccessfulRuns + stats.FailedRuns
	if finished > 0 {
		stats.SuccessRate = float64(stats.SuccessfulRuns) / float64(finished) * 100
	}

	return stats, nil
}

func validKind(kind models.WorkflowKind) bool {
	switch kind {
	case models.KindVideoCreation, models.KindEngagement, models.KindAnalytics, models.KindCustom:
		return true
	}

	return false
}

func validStatus(status models.WorkflowStatus) bool {
	switch status {
	case models.WorkflowStatusActive, models.WorkflowStatusPaused, models.WorkflowStatusArchived:
		return true
	}

	return false
}

func validateSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}

	_, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	return nil
}
