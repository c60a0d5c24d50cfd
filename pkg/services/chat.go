package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const chatHistoryLimit = 20

// Assistant is the chat completion backend.
type Assistant interface {
	Chat(ctx context.Context, systemPrompt string, history []*models.ConversationMessage, message string) (string, error)
}

// Chat serves the dashboard chat: each exchange is persisted per
// session and the assistant sees a snapshot of the system state.
type Chat struct {
	persistence persistence.Persistence
	assistant   Assistant
	workflows   *Workflow
}

func NewChat(store persistence.Persistence, assistant Assistant, workflows *Workflow) *Chat {
	return &Chat{
		persistence: store,
		assistant:   assistant,
		workflows:   workflows,
	}
}

// Send forwards one user message and returns the assistant's reply.
// Both sides of the exchange are appended to the session history.
func (c *Chat) Send(ctx context.Context, sessionID, message string) (string, error) {
	if message == "" {
		return "", ErrEmptyMessage
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	history, err := c.persistence.Conversations().History(ctx, sessionID, chatHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation history: %w", err)
	}

	systemPrompt, snapshot := c.systemPrompt(ctx)

	reply, err := c.assistant.Chat(ctx, systemPrompt, history, message)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	err = c.persistence.Conversations().Append(ctx, &models.ConversationMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   message,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist user message: %w", err)
	}

	err = c.persistence.Conversations().Append(ctx, &models.ConversationMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   reply,
		Context:   snapshot,
		CreatedAt: now.Add(time.Millisecond),
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist assistant message: %w", err)
	}

	return reply, nil
}

// Clear drops a session's history.
func (c *Chat) Clear(ctx context.Context, sessionID string) error {
	return c.persistence.Conversations().Clear(ctx, sessionID)
}

// systemPrompt embeds live system state so the assistant can answer
// questions about workflows and recent output. Lookup failures leave
// the corresponding section out rather than failing the chat.
func (c *Chat) systemPrompt(ctx context.Context) (string, map[string]any) {
	snapshot := map[string]any{}

	stats, err := c.workflows.Stats(ctx)
	if err == nil {
		snapshot["stats"] = stats
	}

	workflows, err := c.workflows.List(ctx, nil)
	if err == nil {
		summaries := make([]map[string]any, 0, len(workflows))

		for _, definition := range workflows {
			summaries = append(summaries, map[string]any{
				"id":       definition.ID,
				"name":     definition.Name,
				"kind":     definition.Kind,
				"status":   definition.Status,
				"schedule": definition.Schedule,
			})
		}

		snapshot["workflows"] = summaries
	}

	videos, err := c.persistence.Videos().Recent(ctx, 5)
	if err == nil {
		summaries := make([]map[string]any, 0, len(videos))

		for _, video := range videos {
			summaries = append(summaries, map[string]any{
				"id":     video.ID,
				"title":  video.Script.Title,
				"status": video.Status,
				"url":    video.VideoURL,
			})
		}

		snapshot["recent_videos"] = summaries
	}

	state, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		state = []byte("{}")
	}

	prompt := fmt.Sprintf(`You are the assistant for a personal short-video automation system. It rotates through an idea bank, generates scripts and videos with AI, and posts them to TikTok, Instagram, and YouTube.

Current system state:

%s

Answer questions about workflows, runs, and videos using this state. Be concise and practical.`, state)

	return prompt, snapshot
}
