package workflow

import (
	"context"

	"github.com/reelay/reelay/pkg/models"
)

// Engagement, Analytics, and Custom are reserved kinds. They run to a
// structured no-op result so workflows of these kinds can be defined
// and scheduled before their logic lands.

type Engagement struct{}

func (Engagement) Kind() models.WorkflowKind {
	return models.KindEngagement
}

func (Engagement) Run(_ context.Context, workflow *models.Workflow) (map[string]any, error) {
	return placeholderResult(workflow, "engagement workflow (coming soon)"), nil
}

type Analytics struct{}

func (Analytics) Kind() models.WorkflowKind {
	return models.KindAnalytics
}

func (Analytics) Run(_ context.Context, workflow *models.Workflow) (map[string]any, error) {
	return placeholderResult(workflow, "analytics workflow (coming soon)"), nil
}

type Custom struct{}

func (Custom) Kind() models.WorkflowKind {
	return models.KindCustom
}

func (Custom) Run(_ context.Context, workflow *models.Workflow) (map[string]any, error) {
	return placeholderResult(workflow, "custom workflow executed"), nil
}

func placeholderResult(workflow *models.Workflow, message string) map[string]any {
	result := map[string]any{"message": message}
	if workflow != nil {
		result["workflow_id"] = workflow.ID
	}

	return result
}
