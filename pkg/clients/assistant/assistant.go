// Package assistant backs the dashboard chat with an OpenRouter-hosted
// chat completion model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"github.com/reelay/reelay/pkg/models"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

const DefaultModel = "anthropic/claude-sonnet-4"

const defaultTimeout = 300 * time.Second

type Client struct {
	client *openaigo.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	config := openaigo.DefaultConfig(apiKey)
	config.BaseURL = DefaultBaseURL
	config.HTTPClient = &http.Client{Timeout: defaultTimeout}

	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openaigo.NewClientWithConfig(config),
		model:  model,
	}
}

// NewClientWithClient wires a pre-configured client, used for tests.
func NewClientWithClient(client *openaigo.Client, model string) *Client {
	return &Client{
		client: client,
		model:  model,
	}
}

// Chat sends the stored conversation history plus the new user message
// and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, systemPrompt string, history []*models.ConversationMessage, message string) (string, error) {
	messages := make([]openaigo.ChatCompletionMessage, 0, len(history)+2)

	if systemPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, item := range history {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    item.Role,
			Content: item.Content,
		})
	}

	messages = append(messages, openaigo.ChatCompletionMessage{
		Role:    openaigo.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("assistant chat failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("assistant returned an empty reply")
	}

	return resp.Choices[0].Message.Content, nil
}
