// Package file provides a JSON-file persistence implementation,
// used for tests and single-user local setups.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reelay/reelay/pkg/persistence"
)

// Persistence implements persistence.Persistence on a directory of
// JSON files, one file per record, one subdirectory per entity.
type Persistence struct {
	root string

	videos        *VideoRepository
	runs          *RunRepository
	workflows     *WorkflowRepository
	executions    *ExecutionRepository
	credentials   *CredentialRepository
	logs          *LogRepository
	conversations *ConversationRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. Accepts plain paths and file:// URLs.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)
	store := &store{root: cleanRoot}

	return &Persistence{
		root:          cleanRoot,
		videos:        &VideoRepository{store: store},
		runs:          &RunRepository{store: store},
		workflows:     &WorkflowRepository{store: store},
		executions:    &ExecutionRepository{store: store},
		credentials:   &CredentialRepository{store: store},
		logs:          &LogRepository{store: store},
		conversations: &ConversationRepository{store: store},
	}
}

// Close performs any necessary cleanup. Nothing to do for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Videos() persistence.VideoRepository           { return p.videos }
func (p *Persistence) Runs() persistence.RunRepository               { return p.runs }
func (p *Persistence) Workflows() persistence.WorkflowRepository     { return p.workflows }
func (p *Persistence) Executions() persistence.ExecutionRepository   { return p.executions }
func (p *Persistence) Credentials() persistence.CredentialRepository { return p.credentials }
func (p *Persistence) Logs() persistence.LogRepository               { return p.logs }
func (p *Persistence) Conversations() persistence.ConversationRepository {
	return p.conversations
}

// store serializes file access for all repositories. A single lock is
// enough: the system is a single-writer personal tool.
type store struct {
	mu   sync.RWMutex
	root string
}

func (s *store) write(entity, id string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, entity)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s directory: %w", entity, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", entity, id, err)
	}

	err = os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", entity, id, err)
	}

	return nil
}

func (s *store) read(entity, id string, record any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.root, entity, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}

		return fmt.Errorf("failed to read %s %s: %w", entity, id, err)
	}

	err = json.Unmarshal(data, record)
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s %s: %w", entity, id, err)
	}

	return nil
}

func (s *store) remove(entity, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.root, entity, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}

		return fmt.Errorf("failed to remove %s %s: %w", entity, id, err)
	}

	return nil
}

func (s *store) ids(entity string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.root, entity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list %s directory: %w", entity, err)
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	return ids, nil
}
