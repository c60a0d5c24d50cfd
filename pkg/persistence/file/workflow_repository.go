package file

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const workflowsEntity = "workflows"

// WorkflowRepository stores workflow definitions as JSON files.
type WorkflowRepository struct {
	store *store
}

func (r *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	return r.store.write(workflowsEntity, workflow.ID, workflow)
}

func (r *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	err := r.store.read(workflowsEntity, id, &workflow)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, err
	}

	return &workflow, nil
}

func (r *WorkflowRepository) List(ctx context.Context, status *models.WorkflowStatus) ([]*models.Workflow, error) {
	ids, err := r.store.ids(workflowsEntity)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if status != nil && workflow.Status != *status {
			continue
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

func (r *WorkflowRepository) Update(ctx context.Context, id string, update persistence.WorkflowUpdate) error {
	workflow, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Name != nil {
		workflow.Name = *update.Name
	}

	if update.Description != nil {
		workflow.Description = *update.Description
	}

	if update.Config != nil {
		workflow.Config = update.Config
	}

	if update.Schedule != nil {
		workflow.Schedule = *update.Schedule
	}

	if update.Status != nil {
		workflow.Status = *update.Status
	}

	workflow.UpdatedAt = time.Now().UTC()

	return r.store.write(workflowsEntity, id, workflow)
}

func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	err := r.store.remove(workflowsEntity, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.ErrWorkflowNotFound
		}

		return err
	}

	return nil
}

func (r *WorkflowRepository) RecordRun(ctx context.Context, id string, success bool, at time.Time) error {
	workflow, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	workflow.TotalRuns++

	if success {
		workflow.SuccessfulRuns++
	} else {
		workflow.FailedRuns++
	}

	workflow.LastRunAt = &at
	workflow.UpdatedAt = at

	return r.store.write(workflowsEntity, id, workflow)
}
