package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reelay/reelay/pkg/models"
)

// LogRepository stores persisted system log entries.
type LogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Append inserts a log entry.
func (r *LogRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	detailsJSON, err := marshalNullable(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal log details: %w", err)
	}

	query := `
		INSERT INTO logs (id, timestamp, level, message, details)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(ctx, query, entry.ID, entry.Timestamp, entry.Level, entry.Message, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries, optionally filtered by level.
func (r *LogRepository) Recent(ctx context.Context, limit int, level string) ([]*models.LogEntry, error) {
	query := `SELECT id, timestamp, level, message, details FROM logs ORDER BY timestamp DESC LIMIT $1`
	args := []any{limit}

	if level != "" {
		query = `SELECT id, timestamp, level, message, details FROM logs WHERE level = $2 ORDER BY timestamp DESC LIMIT $1`
		args = append(args, level)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	entries := make([]*models.LogEntry, 0)

	for rows.Next() {
		var (
			entry       models.LogEntry
			detailsJSON []byte
		)

		err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Level, &entry.Message, &detailsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		if len(detailsJSON) > 0 {
			err = json.Unmarshal(detailsJSON, &entry.Details)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal log details: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}

	return entries, nil
}
