// Package workflow contains the execution core: the per-kind runners
// and the executor that dispatches, records, and guards them.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// Executor loads a workflow, dispatches to the runner registered for
// its kind, and records an execution history entry plus the workflow's
// run counters. A panicking runner is recovered into a structured
// failure; one bad run never takes the host process down.
type Executor struct {
	persistence persistence.Persistence
	runners     map[models.WorkflowKind]Runner
	logger      *slog.Logger
}

func NewExecutor(store persistence.Persistence, logger *slog.Logger, runners ...Runner) *Executor {
	registry := make(map[models.WorkflowKind]Runner, len(runners))
	for _, runner := range runners {
		registry[runner.Kind()] = runner
	}

	return &Executor{
		persistence: store,
		runners:     registry,
		logger:      logger.With("module", "workflow_executor"),
	}
}

// Runner returns the registered runner for a kind, when one exists.
func (e *Executor) Runner(kind models.WorkflowKind) (Runner, bool) {
	runner, ok := e.runners[kind]

	return runner, ok
}

// Execute runs one workflow by id and returns the runner's result
// snapshot.
func (e *Executor) Execute(ctx context.Context, workflowID string) (result map[string]any, err error) {
	logger := e.logger.With("workflow_id", workflowID)

	workflow, err := e.persistence.Workflows().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	if workflow.Status != models.WorkflowStatusActive {
		return nil, fmt.Errorf("%w: workflow %s is %s", ErrWorkflowNotActive, workflowID, workflow.Status)
	}

	runner, ok := e.runners[workflow.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, workflow.Kind)
	}

	execution := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		StartedAt:  time.Now().UTC(),
		Status:     models.ExecutionStatusRunning,
	}

	createErr := e.persistence.Executions().Create(ctx, execution)
	if createErr != nil {
		return nil, fmt.Errorf("failed to open execution record: %w", createErr)
	}

	logger.InfoContext(ctx, "Executing workflow", "kind", workflow.Kind, "execution_id", execution.ID)

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("workflow run panicked: %v", recovered)
			result = nil
		}

		e.finish(ctx, logger, workflow, execution, result, err)
	}()

	result, err = runner.Run(ctx, workflow)

	return result, err
}

func (e *Executor) finish(
	ctx context.Context,
	logger *slog.Logger,
	workflow *models.Workflow,
	execution *models.Execution,
	result map[string]any,
	runErr error,
) {
	status := models.ExecutionStatusSuccess
	errorMessage := ""

	if runErr != nil {
		status = models.ExecutionStatusFailed
		errorMessage = runErr.Error()
	}

	err := e.persistence.Executions().Complete(ctx, execution.ID, status, result, errorMessage)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to close execution record", "execution_id", execution.ID, "error", err)
	}

	err = e.persistence.Workflows().RecordRun(ctx, workflow.ID, runErr == nil, time.Now().UTC())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to record workflow run counters", "error", err)
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "Workflow execution failed", "execution_id", execution.ID, "error", runErr)
	} else {
		logger.InfoContext(ctx, "Workflow execution completed", "execution_id", execution.ID)
	}
}
