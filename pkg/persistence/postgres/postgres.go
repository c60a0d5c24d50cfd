// Package postgres provides the PostgreSQL persistence implementation.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/persistence/sqlbase"
)

// Persistence implements persistence.Persistence on PostgreSQL.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger

	videos        *VideoRepository
	runs          *RunRepository
	workflows     *WorkflowRepository
	executions    *ExecutionRepository
	credentials   *CredentialRepository
	logs          *LogRepository
	conversations *ConversationRepository
}

// NewPersistence connects, migrates, and wires the repositories.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:            database,
		logger:        logger,
		videos:        &VideoRepository{db: database, logger: logger},
		runs:          &RunRepository{db: database, logger: logger},
		workflows:     &WorkflowRepository{db: database, logger: logger},
		executions:    &ExecutionRepository{db: database, logger: logger},
		credentials:   &CredentialRepository{db: database},
		logs:          &LogRepository{db: database, logger: logger},
		conversations: &ConversationRepository{db: database},
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) Videos() persistence.VideoRepository             { return p.videos }
func (p *Persistence) Runs() persistence.RunRepository                 { return p.runs }
func (p *Persistence) Workflows() persistence.WorkflowRepository       { return p.workflows }
func (p *Persistence) Executions() persistence.ExecutionRepository     { return p.executions }
func (p *Persistence) Credentials() persistence.CredentialRepository   { return p.credentials }
func (p *Persistence) Logs() persistence.LogRepository                 { return p.logs }
func (p *Persistence) Conversations() persistence.ConversationRepository {
	return p.conversations
}
