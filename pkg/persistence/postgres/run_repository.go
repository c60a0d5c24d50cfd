package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// RunRepository handles workflow run database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const runColumns = `
	id
  , started_at
  , completed_at
  , status
  , video_id
  , error
`

// Create inserts a new workflow run record.
func (r *RunRepository) Create(ctx context.Context, run *models.WorkflowRun) error {
	query := `
		INSERT INTO workflow_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.CompletedAt,
		run.Status,
		nullString(run.VideoID),
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow run: %w", err)
	}

	return nil
}

// GetByID returns a workflow run by its id.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	query := `SELECT ` + runColumns + ` FROM workflow_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, fmt.Errorf("failed to scan workflow run: %w", err)
	}

	return run, nil
}

// Update applies a partial mutation to a workflow run.
func (r *RunRepository) Update(ctx context.Context, id string, update persistence.RunUpdate) error {
	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)

	appendSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Status != nil {
		appendSet("status", *update.Status)
	}

	if update.CompletedAt != nil {
		appendSet("completed_at", *update.CompletedAt)
	}

	if update.VideoID != nil {
		appendSet("video_id", *update.VideoID)
	}

	if update.Error != nil {
		appendSet("error", *update.Error)
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE workflow_runs SET " + joinClauses(setClauses) + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update workflow run %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrRunNotFound
	}

	return nil
}

// Recent returns the newest runs, most recent first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	query := `SELECT ` + runColumns + ` FROM workflow_runs ORDER BY started_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow runs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	runs := make([]*models.WorkflowRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow run: %w", err)
		}

		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflow runs: %w", err)
	}

	return runs, nil
}

// CountByStatus returns run counts grouped by status.
func (r *RunRepository) CountByStatus(ctx context.Context) (map[models.RunStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM workflow_runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count workflow runs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	counts := make(map[models.RunStatus]int)

	for rows.Next() {
		var (
			status models.RunStatus
			count  int
		)

		err := rows.Scan(&status, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run count: %w", err)
		}

		counts[status] = count
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating run counts: %w", err)
	}

	return counts, nil
}

func scanRun(row rowScanner) (*models.WorkflowRun, error) {
	var (
		run         models.WorkflowRun
		completedAt sql.NullTime
		videoID     sql.NullString
		errText     sql.NullString
	)

	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&completedAt,
		&run.Status,
		&videoID,
		&errText,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	run.VideoID = videoID.String
	run.Error = errText.String

	return &run, nil
}
