// ABOUTME: Chat permission store methods for controlling what a chat may do.
// ABOUTME: Upsert semantics keyed by chat ID.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SetChatPermission creates or replaces the permission level for a chat.
func (s *SQLiteStore) SetChatPermission(ctx context.Context, p *ChatPermission) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO chat_permissions (chat_id, permission, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			permission = excluded.permission,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, p.ChatID, p.Permission, p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("setting chat permission: %w", err)
	}

	s.logger.Debug("set chat permission", "chat_id", p.ChatID, "permission", p.Permission)
	return nil
}

// GetChatPermission retrieves the permission for a chat.
// Returns ErrNotFound if no permission is recorded.
func (s *SQLiteStore) GetChatPermission(ctx context.Context, chatID string) (*ChatPermission, error) {
	query := `SELECT chat_id, permission, updated_at FROM chat_permissions WHERE chat_id = ?`

	var p ChatPermission
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(&p.ChatID, &p.Permission, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying chat permission: %w", err)
	}

	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// DeleteChatPermission removes the permission record for a chat.
// Returns ErrNotFound if no record exists.
func (s *SQLiteStore) DeleteChatPermission(ctx context.Context, chatID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_permissions WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("deleting chat permission: %w", err)
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

// ListChatPermissions returns every chat permission ordered by chat ID.
func (s *SQLiteStore) ListChatPermissions(ctx context.Context) ([]*ChatPermission, error) {
	query := `SELECT chat_id, permission, updated_at FROM chat_permissions ORDER BY chat_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing chat permissions: %w", err)
	}
	defer rows.Close()

	var perms []*ChatPermission
	for rows.Next() {
		var p ChatPermission
		var updatedAt string
		if err := rows.Scan(&p.ChatID, &p.Permission, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat permission: %w", err)
		}
		p.UpdatedAt = parseTime(updatedAt)
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}
