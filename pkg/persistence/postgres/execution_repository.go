package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// ExecutionRepository handles workflow execution history.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Create inserts a new execution record.
func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	resultJSON, err := marshalNullable(execution.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal execution result: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (id, workflow_id, started_at, completed_at, status, result, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.StartedAt,
		execution.CompletedAt,
		execution.Status,
		resultJSON,
		nullString(execution.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}

	return nil
}

// Complete closes an execution with its outcome.
func (r *ExecutionRepository) Complete(ctx context.Context, id string, status models.ExecutionStatus, resultData map[string]any, execErr string) error {
	resultJSON, err := marshalNullable(resultData)
	if err != nil {
		return fmt.Errorf("failed to marshal execution result: %w", err)
	}

	query := `
		UPDATE workflow_executions
		SET completed_at = $1, status = $2, result = $3, error = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), status, resultJSON, nullString(execErr), id)
	if err != nil {
		return fmt.Errorf("failed to complete execution %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

// ListByWorkflow returns a workflow's execution history, newest first.
func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	query := `
		SELECT id, workflow_id, started_at, completed_at, status, result, error
		FROM workflow_executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		var (
			execution   models.Execution
			completedAt sql.NullTime
			resultJSON  []byte
			errText     sql.NullString
		)

		err := rows.Scan(
			&execution.ID,
			&execution.WorkflowID,
			&execution.StartedAt,
			&completedAt,
			&execution.Status,
			&resultJSON,
			&errText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		if completedAt.Valid {
			execution.CompletedAt = &completedAt.Time
		}

		if len(resultJSON) > 0 {
			err = json.Unmarshal(resultJSON, &execution.Result)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal execution result: %w", err)
			}
		}

		execution.Error = errText.String

		executions = append(executions, &execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func marshalNullable(data map[string]any) (any, error) {
	if data == nil {
		return nil, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return raw, nil
}
