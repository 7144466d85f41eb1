// ABOUTME: Audit log entity and store methods for executed control-plane changes.
// ABOUTME: Records which pending action changed what, and how it turned out.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Audit outcomes.
const (
	AuditOutcomeExecuted  = "executed"
	AuditOutcomeFailed    = "failed"
	AuditOutcomeCancelled = "cancelled"
)

// AuditEntry records one resolved pending action.
type AuditEntry struct {
	ID         string
	ActionID   string // the pending action's ID
	ActionType string // permission, prompt, secret, schedule, agent
	Operation  string // create, update, delete
	Target     string
	Outcome    string // executed, failed, cancelled
	Detail     map[string]any
	Timestamp  time.Time
}

// AuditStore defines methods for the control-plane audit log.
type AuditStore interface {
	AppendAudit(ctx context.Context, e *AuditEntry) error
	ListAudit(ctx context.Context, since *time.Time, limit int) ([]*AuditEntry, error)
}

// AppendAudit appends a new entry to the audit log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e *AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO audit_log (id, action_id, action_type, operation, target, outcome, detail, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ActionID,
		e.ActionType,
		e.Operation,
		e.Target,
		e.Outcome,
		detailJSON,
		e.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// ListAudit returns audit entries newest first. A nil since returns all
// entries; limit <= 0 defaults to 100.
func (s *SQLiteStore) ListAudit(ctx context.Context, since *time.Time, limit int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, action_id, action_type, operation, target, outcome, detail, timestamp
		FROM audit_log
	`
	var args []any
	if since != nil {
		query += ` WHERE timestamp >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY timestamp DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var detail *string
		var timestamp string
		if err := rows.Scan(&e.ID, &e.ActionID, &e.ActionType, &e.Operation, &e.Target, &e.Outcome, &detail, &timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if detail != nil {
			if err := json.Unmarshal([]byte(*detail), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling audit detail: %w", err)
			}
		}
		e.Timestamp = parseTime(timestamp)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
