package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/reelay/reelay/pkg/models"
)

// ConversationRepository stores dashboard chat history.
type ConversationRepository struct {
	db *sql.DB
}

// Append inserts a conversation message.
func (r *ConversationRepository) Append(ctx context.Context, message *models.ConversationMessage) error {
	contextJSON, err := marshalNullable(message.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal message context: %w", err)
	}

	query := `
		INSERT INTO conversations (id, session_id, role, content, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		message.ID,
		message.SessionID,
		message.Role,
		message.Content,
		contextJSON,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation message: %w", err)
	}

	return nil
}

// History returns the most recent messages of a session in
// chronological order.
func (r *ConversationRepository) History(ctx context.Context, sessionID string, limit int) ([]*models.ConversationMessage, error) {
	query := `
		SELECT id, session_id, role, content, context, created_at
		FROM (
			SELECT id, session_id, role, content, context, created_at
			FROM conversations
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.ConversationMessage, 0)

	for rows.Next() {
		var (
			message     models.ConversationMessage
			contextJSON []byte
		)

		err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Role,
			&message.Content,
			&contextJSON,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation message: %w", err)
		}

		if len(contextJSON) > 0 {
			err = json.Unmarshal(contextJSON, &message.Context)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal message context: %w", err)
			}
		}

		messages = append(messages, &message)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating conversation: %w", err)
	}

	return messages, nil
}

// Clear removes all messages of a session.
func (r *ConversationRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear conversation %s: %w", sessionID, err)
	}

	return nil
}
