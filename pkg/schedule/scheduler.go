// Package schedule drives scheduled workflows with a cron runner
// synced against the store.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const DefaultSyncInterval = time.Minute

// ExecuteFunc runs one workflow by id. Satisfied by
// workflow.Executor.Execute.
type ExecuteFunc func(ctx context.Context, workflowID string) (map[string]any, error)

// Scheduler keeps one cron entry per active workflow that carries a
// schedule expression, re-syncing against the store so edits from the
// dashboard take effect without a restart.
type Scheduler struct {
	persistence persistence.Persistence
	execute     ExecuteFunc
	logger      *slog.Logger
	cron        *cron.Cron

	mu      sync.Mutex
	entries map[string]scheduledEntry
}

type scheduledEntry struct {
	id       cron.EntryID
	schedule string
}

func NewScheduler(store persistence.Persistence, execute ExecuteFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		persistence: store,
		execute:     execute,
		logger:      logger.With("module", "scheduler"),
		cron:        cron.New(),
		entries:     make(map[string]scheduledEntry),
	}
}

// Start loads the initial schedule, starts the cron runner, and keeps
// re-syncing until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, syncInterval time.Duration) error {
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}

	err := s.Sync(ctx)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started", "sync_interval", syncInterval)

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()

			return ctx.Err()
		case <-ticker.C:
			err := s.Sync(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to sync schedule", "error", err)
			}
		}
	}
}

// Sync reconciles cron entries with the store: new active scheduled
// workflows are added, changed expressions re-registered, and paused,
// archived, or deleted workflows dropped.
func (s *Scheduler) Sync(ctx context.Context) error {
	active := models.WorkflowStatusActive

	workflows, err := s.persistence.Workflows().List(ctx, &active)
	if err != nil {
		return fmt.Errorf("failed to list active workflows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]string, len(workflows))

	for _, definition := range workflows {
		if definition.Schedule != "" {
			wanted[definition.ID] = definition.Schedule
		}
	}

	for workflowID, entry := range s.entries {
		schedule, stillWanted := wanted[workflowID]
		if stillWanted && schedule == entry.schedule {
			continue
		}

		s.cron.Remove(entry.id)
		delete(s.entries, workflowID)
	}

	for workflowID, schedule := range wanted {
		if _, exists := s.entries[workflowID]; exists {
			continue
		}

		entryID, err := s.cron.AddFunc(schedule, s.fire(workflowID))
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping workflow with invalid schedule",
				"workflow_id", workflowID, "schedule", schedule, "error", err)

			continue
		}

		s.entries[workflowID] = scheduledEntry{id: entryID, schedule: schedule}
		s.logger.InfoContext(ctx, "Scheduled workflow", "workflow_id", workflowID, "schedule", schedule)
	}

	return nil
}

// fire returns the cron callback for one workflow. The execution runs
// in its own goroutine so a long render never blocks sibling entries.
func (s *Scheduler) fire(workflowID string) func() {
	return func() {
		go func() {
			ctx := context.Background()

			_, err := s.execute(ctx, workflowID)
			if err != nil {
				s.logger.ErrorContext(ctx, "Scheduled execution failed", "workflow_id", workflowID, "error", err)
			}
		}()
	}
}

// Entries returns the ids of currently scheduled workflows.
func (s *Scheduler) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for workflowID := range s.entries {
		ids = append(ids, workflowID)
	}

	return ids
}

func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}
