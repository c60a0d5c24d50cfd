// Package cmd provides common initialization functions for
// command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/persistence/file"
	"github.com/reelay/reelay/pkg/persistence/postgres"
)

// NewPersistence picks the store implementation from the database
// URL scheme. A postgres:// or postgresql:// URL selects the SQL
// store; anything else is treated as a directory for the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres":
		store, err := postgres.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres persistence: %w", err)
		}

		return store, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	if scheme == "postgres" || scheme == "postgresql" {
		return "postgres"
	}

	return "file"
}
