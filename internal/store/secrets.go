// ABOUTME: Secrets store implementation for managing agent environment variables.
// ABOUTME: Supports global defaults with per-agent overrides.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSecret creates a new secret in the database.
// Returns an error if a secret with the same key and scope already exists.
func (s *SQLiteStore) CreateSecret(ctx context.Context, secret *Secret) error {
	if secret.ID == "" {
		secret.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if secret.CreatedAt.IsZero() {
		secret.CreatedAt = now
	}
	if secret.UpdatedAt.IsZero() {
		secret.UpdatedAt = now
	}

	query := `
		INSERT INTO secrets (id, key, value, agent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		secret.ID,
		secret.Key,
		secret.Value,
		nullString(ptrToString(secret.AgentID)),
		secret.CreatedAt.Format(time.RFC3339),
		secret.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("secret with key %q already exists for this scope", secret.Key)
		}
		return fmt.Errorf("inserting secret: %w", err)
	}

	s.logger.Debug("created secret", "id", secret.ID, "key", secret.Key, "agent_id", secret.AgentID)
	return nil
}

// GetSecretByKey retrieves a secret by key within a scope (nil agentID means
// the global scope). Returns ErrNotFound if the secret doesn't exist.
func (s *SQLiteStore) GetSecretByKey(ctx context.Context, key string, agentID *string) (*Secret, error) {
	query := `
		SELECT id, key, value, agent_id, created_at, updated_at
		FROM secrets
		WHERE key = ? AND COALESCE(agent_id, '') = ?
	`

	var secret Secret
	var scopedAgent sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, key, ptrToString(agentID)).Scan(
		&secret.ID, &secret.Key, &secret.Value, &scopedAgent, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying secret: %w", err)
	}

	if scopedAgent.Valid {
		secret.AgentID = &scopedAgent.String
	}
	secret.CreatedAt = parseTime(createdAt)
	secret.UpdatedAt = parseTime(updatedAt)
	return &secret, nil
}

// UpdateSecretValue replaces the value of an existing secret.
// Returns ErrNotFound if the secret doesn't exist.
func (s *SQLiteStore) UpdateSecretValue(ctx context.Context, key string, agentID *string, value string) error {
	query := `
		UPDATE secrets
		SET value = ?, updated_at = ?
		WHERE key = ? AND COALESCE(agent_id, '') = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		value,
		time.Now().UTC().Format(time.RFC3339),
		key,
		ptrToString(agentID),
	)
	if err != nil {
		return fmt.Errorf("updating secret: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated secret", "key", key)
	return nil
}

// DeleteSecret removes a secret by key within a scope.
// Returns ErrNotFound if the secret doesn't exist.
func (s *SQLiteStore) DeleteSecret(ctx context.Context, key string, agentID *string) error {
	query := `DELETE FROM secrets WHERE key = ? AND COALESCE(agent_id, '') = ?`

	result, err := s.db.ExecContext(ctx, query, key, ptrToString(agentID))
	if err != nil {
		return fmt.Errorf("deleting secret: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSecretKeys returns the distinct secret keys across all scopes.
// Values are never listed in bulk.
func (s *SQLiteStore) ListSecretKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT key FROM secrets ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing secret keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning secret key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
