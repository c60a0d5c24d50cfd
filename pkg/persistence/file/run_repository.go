package file

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const runsEntity = "workflow_runs"

// RunRepository stores workflow run records as JSON files.
type RunRepository struct {
	store *store
}

func (r *RunRepository) Create(_ context.Context, run *models.WorkflowRun) error {
	return r.store.write(runsEntity, run.ID, run)
}

func (r *RunRepository) GetByID(_ context.Context, id string) (*models.WorkflowRun, error) {
	var run models.WorkflowRun

	err := r.store.read(runsEntity, id, &run)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, err
	}

	return &run, nil
}

func (r *RunRepository) Update(ctx context.Context, id string, update persistence.RunUpdate) error {
	run, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Status != nil {
		run.Status = *update.Status
	}

	if update.CompletedAt != nil {
		run.CompletedAt = update.CompletedAt
	}

	if update.VideoID != nil {
		run.VideoID = *update.VideoID
	}

	if update.Error != nil {
		run.Error = *update.Error
	}

	return r.store.write(runsEntity, id, run)
}

func (r *RunRepository) Recent(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	ids, err := r.store.ids(runsEntity)
	if err != nil {
		return nil, err
	}

	runs := make([]*models.WorkflowRun, 0, len(ids))

	for _, id := range ids {
		run, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

func (r *RunRepository) CountByStatus(ctx context.Context) (map[models.RunStatus]int, error) {
	runs, err := r.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.RunStatus]int)
	for _, run := range runs {
		counts[run.Status]++
	}

	return counts, nil
}
