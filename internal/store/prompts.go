// ABOUTME: Prompt store methods for per-agent system prompt text.
// ABOUTME: Upsert semantics keyed by agent ID.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SetPrompt creates or replaces the system prompt for an agent.
func (s *SQLiteStore) SetPrompt(ctx context.Context, p *Prompt) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO prompts (agent_id, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, p.AgentID, p.Text, p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("setting prompt: %w", err)
	}

	s.logger.Debug("set prompt", "agent_id", p.AgentID, "length", len(p.Text))
	return nil
}

// GetPrompt retrieves the system prompt for an agent.
// Returns ErrNotFound if none is stored.
func (s *SQLiteStore) GetPrompt(ctx context.Context, agentID string) (*Prompt, error) {
	query := `SELECT agent_id, text, updated_at FROM prompts WHERE agent_id = ?`

	var p Prompt
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, agentID).Scan(&p.AgentID, &p.Text, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying prompt: %w", err)
	}

	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// DeletePrompt removes the stored prompt for an agent.
// Returns ErrNotFound if none is stored.
func (s *SQLiteStore) DeletePrompt(ctx context.Context, agentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE agent_id = ?`, agentID)
	if err != nil {
		return fmt.Errorf("deleting prompt: %w", err)
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
