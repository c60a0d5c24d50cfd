// Package openai generates video scripts from idea bank entries using
// the OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaigo "github.com/sashabaranov/go-openai"
	"github.com/reelay/reelay/pkg/models"
)

const DefaultModel = "chatgpt-4o-latest"

// SystemPrompt is the fixed prompt-builder brief. The model receives
// one idea object and must return the script JSON, nothing else.
const SystemPrompt = `You are a SORA 2 PROMPT BUILDER for hyper-realistic, short-form pet videos (dogs, cats, babies with pets, etc.).

You ALWAYS receive one JSON idea object from the Idea Bank. That object contains:
- slug
- language
- coreHook
- settingHints
- coreCharacters
- coreAction
- safetyConstraints
- styleTags

Your job is NOT to invent a new idea.
Your job is to turn THIS idea into a full, production-ready Sora 2 prompt that looks like a real director's brief for a hyper-realistic smartphone video.

You MUST output ONLY valid JSON with these fields:
{
  "title": "A viral-friendly short title under 60 characters",
  "description": "1–2 sentence description for TikTok/Shorts captions",
  "prompt": "THE FULL DETAILED SORA PROMPT HERE",
  "hashtags": "Viral hashtags for this video, space-separated"
}

IMPORTANT:
- Preserve the coreHook, coreAction, characters, and safetyConstraints exactly
- Use specific camera details (smartphone, handheld, angle, distance)
- Include physical realism (weight, joints, physics)
- Add natural lighting details
- Keep it as ONE continuous shot
- Make the prompt detailed enough for Sora to generate perfectly
- No bullet points, no headings in the prompt - just natural paragraphs
`

// Generator turns ideas into ready-to-render scripts.
type Generator struct {
	client *openaigo.Client
	model  string
}

func NewGenerator(apiKey string) *Generator {
	return NewGeneratorWithClient(openaigo.NewClient(apiKey), DefaultModel)
}

// NewGeneratorWithClient wires a pre-configured client, used for
// alternative base URLs and tests.
func NewGeneratorWithClient(client *openaigo.Client, model string) *Generator {
	return &Generator{
		client: client,
		model:  model,
	}
}

// Generate asks the model for a script for the given idea. The idea
// object is passed through verbatim so the model cannot drift from the
// bank's hook and safety constraints.
func (g *Generator) Generate(ctx context.Context, idea models.Idea) (models.Script, error) {
	ideaJSON, err := json.MarshalIndent(idea, "", "  ")
	if err != nil {
		return models.Script{}, fmt.Errorf("failed to marshal idea: %w", err)
	}

	userMessage := fmt.Sprintf(`Here is the idea object:

%s

Using ONLY this idea object and the system instructions, generate:
- a viral-friendly short title
- a 1–2 sentence description
- one fully detailed, hyper-realistic Sora 2 prompt.

Do not invent a new concept.
Do not change the core hook, characters, or safety constraints.
Apply only small natural variations (lighting, angle, props).
Output ONLY the JSON object described in the system message.`, ideaJSON)

	resp, err := g.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: g.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openaigo.ChatMessageRoleUser, Content: userMessage},
		},
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return models.Script{}, fmt.Errorf("script generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return models.Script{}, errors.New("script generation returned no choices")
	}

	return ParseScript(resp.Choices[0].Message.Content)
}

// ParseScript decodes the model's reply into a script. When the reply
// is not bare JSON (fenced, or wrapped in prose), the outermost brace
// pair is tried before giving up.
func ParseScript(content string) (models.Script, error) {
	var script models.Script

	err := json.Unmarshal([]byte(content), &script)
	if err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")

		if start == -1 || end <= start {
			return models.Script{}, fmt.Errorf("script reply is not json: %w", err)
		}

		err = json.Unmarshal([]byte(content[start:end+1]), &script)
		if err != nil {
			return models.Script{}, fmt.Errorf("script reply is not json: %w", err)
		}
	}

	if script.Title == "" || script.Prompt == "" {
		return models.Script{}, errors.New("script reply is missing title or prompt")
	}

	return script, nil
}
