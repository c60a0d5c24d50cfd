package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// WorkflowRepository handles workflow definition database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const workflowColumns = `
	id
  , name
  , description
  , kind
  , config
  , schedule
  , status
  , created_at
  , updated_at
  , last_run_at
  , total_runs
  , successful_runs
  , failed_runs
`

// Save inserts a workflow definition.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	configJSON, err := json.Marshal(workflow.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow config: %w", err)
	}

	query := `
		INSERT INTO workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		workflow.Kind,
		configJSON,
		nullString(workflow.Schedule),
		workflow.Status,
		workflow.CreatedAt,
		workflow.UpdatedAt,
		workflow.LastRunAt,
		workflow.TotalRuns,
		workflow.SuccessfulRuns,
		workflow.FailedRuns,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}

	return nil
}

// GetByID returns a workflow by its id.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

// List returns workflows, optionally filtered by status, newest first.
func (r *WorkflowRepository) List(ctx context.Context, status *models.WorkflowStatus) ([]*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY created_at DESC`
	args := []any{}

	if status != nil {
		query = `SELECT ` + workflowColumns + ` FROM workflows WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, *status)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

// Update applies a partial mutation to a workflow definition.
func (r *WorkflowRepository) Update(ctx context.Context, id string, update persistence.WorkflowUpdate) error {
	setClauses := make([]string, 0, 5)
	args := make([]any, 0, 7)

	appendSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}

	if update.Description != nil {
		appendSet("description", *update.Description)
	}

	if update.Config != nil {
		configJSON, err := json.Marshal(update.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal workflow config: %w", err)
		}

		appendSet("config", configJSON)
	}

	if update.Schedule != nil {
		appendSet("schedule", *update.Schedule)
	}

	if update.Status != nil {
		appendSet("status", *update.Status)
	}

	if len(setClauses) == 0 {
		return nil
	}

	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := "UPDATE workflows SET " + joinClauses(setClauses) + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update workflow %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

// Delete removes a workflow definition and, via cascade, its
// execution history.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

// RecordRun bumps the run counters and last-run timestamp.
func (r *WorkflowRepository) RecordRun(ctx context.Context, id string, success bool, at time.Time) error {
	query := `
		UPDATE workflows
		SET total_runs = total_runs + 1
		  , successful_runs = successful_runs + $1
		  , failed_runs = failed_runs + $2
		  , last_run_at = $3
		  , updated_at = $3
		WHERE id = $4
	`

	successInc, failedInc := 0, 1
	if success {
		successInc, failedInc = 1, 0
	}

	result, err := r.db.ExecContext(ctx, query, successInc, failedInc, at, id)
	if err != nil {
		return fmt.Errorf("failed to record run for workflow %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow   models.Workflow
		configJSON []byte
		schedule   sql.NullString
		lastRunAt  sql.NullTime
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.Kind,
		&configJSON,
		&schedule,
		&workflow.Status,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
		&lastRunAt,
		&workflow.TotalRuns,
		&workflow.SuccessfulRuns,
		&workflow.FailedRuns,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(configJSON, &workflow.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow config: %w", err)
	}

	workflow.Schedule = schedule.String

	if lastRunAt.Valid {
		workflow.LastRunAt = &lastRunAt.Time
	}

	return &workflow, nil
}
