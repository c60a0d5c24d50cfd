package file

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// ExecutionRepository stores workflow execution history as JSON files.
type ExecutionRepository struct {
	store *store
}

const executionsEntity = "workflow_executions"

func (r *ExecutionRepository) Create(_ context.Context, execution *models.Execution) error {
	return r.store.write(executionsEntity, execution.ID, execution)
}

func (r *ExecutionRepository) Complete(ctx context.Context, id string, status models.ExecutionStatus, result map[string]any, execErr string) error {
	var execution models.Execution

	err := r.store.read(executionsEntity, id, &execution)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.ErrExecutionNotFound
		}

		return err
	}

	now := time.Now().UTC()
	execution.CompletedAt = &now
	execution.Status = status
	execution.Result = result
	execution.Error = execErr

	return r.store.write(executionsEntity, id, &execution)
}

func (r *ExecutionRepository) ListByWorkflow(_ context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	ids, err := r.store.ids(executionsEntity)
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0)

	for _, id := range ids {
		var execution models.Execution

		err := r.store.read(executionsEntity, id, &execution)
		if err != nil {
			return nil, err
		}

		if execution.WorkflowID != workflowID {
			continue
		}

		executions = append(executions, &execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}

// CredentialRepository stores encrypted credentials as JSON files.
type CredentialRepository struct {
	store *store
}

const credentialsEntity = "credentials"

func (r *CredentialRepository) Upsert(_ context.Context, credential *models.Credential) error {
	return r.store.write(credentialsEntity, credential.Service, credential)
}

func (r *CredentialRepository) Get(_ context.Context, service string) (*models.Credential, error) {
	var credential models.Credential

	err := r.store.read(credentialsEntity, service, &credential)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.ErrCredentialNotFound
		}

		return nil, err
	}

	return &credential, nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]*models.Credential, error) {
	services, err := r.store.ids(credentialsEntity)
	if err != nil {
		return nil, err
	}

	sort.Strings(services)

	credentials := make([]*models.Credential, 0, len(services))

	for _, service := range services {
		credential, err := r.Get(ctx, service)
		if err != nil {
			return nil, err
		}

		credentials = append(credentials, credential)
	}

	return credentials, nil
}

// LogRepository stores log entries as JSON files.
type LogRepository struct {
	store *store
}

const logsEntity = "logs"

func (r *LogRepository) Append(_ context.Context, entry *models.LogEntry) error {
	return r.store.write(logsEntity, entry.ID, entry)
}

func (r *LogRepository) Recent(_ context.Context, limit int, level string) ([]*models.LogEntry, error) {
	ids, err := r.store.ids(logsEntity)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LogEntry, 0, len(ids))

	for _, id := range ids {
		var entry models.LogEntry

		err := r.store.read(logsEntity, id, &entry)
		if err != nil {
			return nil, err
		}

		if level != "" && entry.Level != level {
			continue
		}

		entries = append(entries, &entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// ConversationRepository stores chat messages as JSON files.
type ConversationRepository struct {
	store *store
}

const conversationsEntity = "conversations"

func (r *ConversationRepository) Append(_ context.Context, message *models.ConversationMessage) error {
	return r.store.write(conversationsEntity, message.ID, message)
}

func (r *ConversationRepository) History(_ context.Context, sessionID string, limit int) ([]*models.ConversationMessage, error) {
	ids, err := r.store.ids(conversationsEntity)
	if err != nil {
		return nil, err
	}

	messages := make([]*models.ConversationMessage, 0)

	for _, id := range ids {
		var message models.ConversationMessage

		err := r.store.read(conversationsEntity, id, &message)
		if err != nil {
			return nil, err
		}

		if message.SessionID != sessionID {
			continue
		}

		messages = append(messages, &message)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	return messages, nil
}

func (r *ConversationRepository) Clear(_ context.Context, sessionID string) error {
	ids, err := r.store.ids(conversationsEntity)
	if err != nil {
		return err
	}

	for _, id := range ids {
		var message models.ConversationMessage

		err := r.store.read(conversationsEntity, id, &message)
		if err != nil {
			return err
		}

		if message.SessionID != sessionID {
			continue
		}

		err = r.store.remove(conversationsEntity, id)
		if err != nil {
			return err
		}
	}

	return nil
}
