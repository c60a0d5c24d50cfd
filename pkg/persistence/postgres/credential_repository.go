package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// CredentialRepository stores encrypted service credentials.
type CredentialRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces the credential for a service.
func (r *CredentialRepository) Upsert(ctx context.Context, credential *models.Credential) error {
	query := `
		INSERT INTO credentials (service, encrypted_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (service) DO UPDATE
		SET encrypted_key = EXCLUDED.encrypted_key, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		credential.Service,
		credential.EncryptedKey,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert credential for %s: %w", credential.Service, err)
	}

	return nil
}

// Get returns the credential for a service.
func (r *CredentialRepository) Get(ctx context.Context, service string) (*models.Credential, error) {
	query := `SELECT service, encrypted_key, created_at, updated_at FROM credentials WHERE service = $1`

	var credential models.Credential

	err := r.db.QueryRowContext(ctx, query, service).Scan(
		&credential.Service,
		&credential.EncryptedKey,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrCredentialNotFound
		}

		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}

	return &credential, nil
}

// List returns all stored credentials.
func (r *CredentialRepository) List(ctx context.Context) ([]*models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT service, encrypted_key, created_at, updated_at FROM credentials ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	credentials := make([]*models.Credential, 0)

	for rows.Next() {
		var credential models.Credential

		err := rows.Scan(&credential.Service, &credential.EncryptedKey, &credential.CreatedAt, &credential.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}

		credentials = append(credentials, &credential)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}

	return credentials, nil
}
