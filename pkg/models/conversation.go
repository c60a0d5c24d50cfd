package models

import "time"

// Chat message roles for dashboard conversations.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one message in a dashboard chat session.
// Context optionally snapshots the system state that accompanied an
// assistant reply.
type ConversationMessage struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
