package workflow

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/reelay/reelay/pkg/models"
)

// Per-kind config schemas. Stored config blobs are validated when a
// workflow is created or updated, never at run time.
var configSchemas = map[models.WorkflowKind]map[string]any{
	models.KindVideoCreation: {
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"platforms": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": []string{"tiktok", "instagram", "youtube"},
				},
			},
			"aspect_ratio":          map[string]any{"type": "string"},
			"video_model":           map[string]any{"type": "string"},
			"poll_interval_seconds": map[string]any{"type": "number", "minimum": 1},
			"max_wait_seconds":      map[string]any{"type": "number", "minimum": 1},
			"idea_slug":             map[string]any{"type": "string"},
			"youtube_account_id":    map[string]any{"type": "string"},
			"instagram_account_id":  map[string]any{"type": "string"},
			"tiktok_account_id":     map[string]any{"type": "string"},
		},
	},
	models.KindEngagement: {"type": "object"},
	models.KindAnalytics:  {"type": "object"},
	models.KindCustom:     {"type": "object"},
}

// ValidateConfig checks a workflow config blob against the schema for
// its kind.
func ValidateConfig(kind models.WorkflowKind, config map[string]any) error {
	schema, ok := configSchemas[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			messages = append(messages, resultError.String())
		}

		return fmt.Errorf("invalid %s config: %s", kind, strings.Join(messages, "; "))
	}

	return nil
}
