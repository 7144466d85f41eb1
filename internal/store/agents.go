// ABOUTME: Agent settings store methods for per-agent model configuration.
// ABOUTME: Upsert semantics keyed by agent ID.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SetAgentSettings creates or replaces the settings for an agent.
func (s *SQLiteStore) SetAgentSettings(ctx context.Context, settings *AgentSettings) error {
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO agent_settings (agent_id, name, model, temperature, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET
			name = excluded.name,
			model = excluded.model,
			temperature = excluded.temperature,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		settings.AgentID,
		settings.Name,
		settings.Model,
		settings.Temperature,
		settings.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("setting agent settings: %w", err)
	}

	s.logger.Debug("set agent settings", "agent_id", settings.AgentID, "model", settings.Model)
	return nil
}

// GetAgentSettings retrieves the settings for an agent.
// Returns ErrNotFound if none are stored.
func (s *SQLiteStore) GetAgentSettings(ctx context.Context, agentID string) (*AgentSettings, error) {
	query := `SELECT agent_id, name, model, temperature, updated_at FROM agent_settings WHERE agent_id = ?`

	var settings AgentSettings
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, agentID).Scan(
		&settings.AgentID, &settings.Name, &settings.Model, &settings.Temperature, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying agent settings: %w", err)
	}

	settings.UpdatedAt = parseTime(updatedAt)
	return &settings, nil
}

// DeleteAgentSettings removes the settings for an agent.
// Returns ErrNotFound if none are stored.
func (s *SQLiteStore) DeleteAgentSettings(ctx context.Context, agentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM agent_settings WHERE agent_id = ?`, agentID)
	if err != nil {
		return fmt.Errorf("deleting agent settings: %w", err)
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
