// ABOUTME: Schedule store methods for recurring agent task definitions.
// ABOUTME: CRUD keyed by schedule ID with per-agent listing.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSchedule inserts a new schedule. An ID is generated if not set.
func (s *SQLiteStore) CreateSchedule(ctx context.Context, sched *Schedule) error {
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	if sched.UpdatedAt.IsZero() {
		sched.UpdatedAt = now
	}

	query := `
		INSERT INTO schedules (id, agent_id, cron_expr, description, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		sched.ID,
		sched.AgentID,
		sched.CronExpr,
		sched.Description,
		boolToInt(sched.Enabled),
		sched.CreatedAt.Format(time.RFC3339),
		sched.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("schedule %q already exists", sched.ID)
		}
		return fmt.Errorf("inserting schedule: %w", err)
	}

	s.logger.Debug("created schedule", "id", sched.ID, "agent_id", sched.AgentID, "cron", sched.CronExpr)
	return nil
}

// GetSchedule retrieves a schedule by ID.
// Returns ErrNotFound if the schedule doesn't exist.
func (s *SQLiteStore) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	query := `
		SELECT id, agent_id, cron_expr, description, enabled, created_at, updated_at
		FROM schedules WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	sched, err := scanSchedule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	return sched, nil
}

// UpdateSchedule replaces the mutable fields of an existing schedule.
// Returns ErrNotFound if the schedule doesn't exist.
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, sched *Schedule) error {
	query := `
		UPDATE schedules
		SET cron_expr = ?, description = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		sched.CronExpr,
		sched.Description,
		boolToInt(sched.Enabled),
		time.Now().UTC().Format(time.RFC3339),
		sched.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
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

// DeleteSchedule removes a schedule by ID.
// Returns ErrNotFound if the schedule doesn't exist.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
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

// ListSchedules returns schedules for one agent, or all schedules when
// agentID is empty, ordered by creation time.
func (s *SQLiteStore) ListSchedules(ctx context.Context, agentID string) ([]*Schedule, error) {
	query := `
		SELECT id, agent_id, cron_expr, description, enabled, created_at, updated_at
		FROM schedules
	`
	var args []any
	if agentID != "" {
		query += ` WHERE agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var scheds []*Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		scheds = append(scheds, sched)
	}
	return scheds, rows.Err()
}

// scanSchedule reads one schedule row via the given scan function.
func scanSchedule(scan func(dest ...any) error) (*Schedule, error) {
	var sched Schedule
	var enabled int
	var createdAt, updatedAt string
	if err := scan(&sched.ID, &sched.AgentID, &sched.CronExpr, &sched.Description, &enabled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sched.Enabled = enabled != 0
	sched.CreatedAt = parseTime(createdAt)
	sched.UpdatedAt = parseTime(updatedAt)
	return &sched, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
