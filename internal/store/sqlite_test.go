// ABOUTME: Tests for the SQLite settings store across all configuration domains.
// ABOUTME: Uses temp-dir database files and verifies ErrNotFound semantics.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "control.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestChatPermissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SetChatPermission(ctx, &ChatPermission{ChatID: "chat-1", Permission: PermissionReadOnly})
	require.NoError(t, err)

	p, err := s.GetChatPermission(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, PermissionReadOnly, p.Permission)
	assert.False(t, p.UpdatedAt.IsZero())

	// Upsert replaces the level.
	err = s.SetChatPermission(ctx, &ChatPermission{ChatID: "chat-1", Permission: PermissionReadWrite})
	require.NoError(t, err)
	p, err = s.GetChatPermission(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, PermissionReadWrite, p.Permission)

	perms, err := s.ListChatPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 1)

	require.NoError(t, s.DeleteChatPermission(ctx, "chat-1"))
	_, err = s.GetChatPermission(ctx, "chat-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteChatPermission(ctx, "chat-1"), ErrNotFound)
}

func TestPrompts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPrompt(ctx, &Prompt{AgentID: "agent-1", Text: "You are helpful."}))
	require.NoError(t, s.SetPrompt(ctx, &Prompt{AgentID: "agent-1", Text: "You are terse."}))

	p, err := s.GetPrompt(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "You are terse.", p.Text)

	_, err = s.GetPrompt(ctx, "agent-2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeletePrompt(ctx, "agent-1"))
	assert.ErrorIs(t, s.DeletePrompt(ctx, "agent-1"), ErrNotFound)
}

func TestSecrets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSecret(ctx, &Secret{Key: "API_KEY", Value: "x"}))

	// Same key in the global scope is a conflict.
	err := s.CreateSecret(ctx, &Secret{Key: "API_KEY", Value: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Same key scoped to an agent is fine.
	agent := "agent-1"
	require.NoError(t, s.CreateSecret(ctx, &Secret{Key: "API_KEY", Value: "z", AgentID: &agent}))

	got, err := s.GetSecretByKey(ctx, "API_KEY", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Value)
	assert.Nil(t, got.AgentID)

	scoped, err := s.GetSecretByKey(ctx, "API_KEY", &agent)
	require.NoError(t, err)
	assert.Equal(t, "z", scoped.Value)
	require.NotNil(t, scoped.AgentID)
	assert.Equal(t, agent, *scoped.AgentID)

	require.NoError(t, s.UpdateSecretValue(ctx, "API_KEY", nil, "rotated"))
	got, err = s.GetSecretByKey(ctx, "API_KEY", nil)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Value)

	assert.ErrorIs(t, s.UpdateSecretValue(ctx, "MISSING", nil, "v"), ErrNotFound)

	keys, err := s.ListSecretKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"API_KEY"}, keys)

	require.NoError(t, s.DeleteSecret(ctx, "API_KEY", nil))
	_, err = s.GetSecretByKey(ctx, "API_KEY", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSchedules(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sched := &Schedule{AgentID: "agent-1", CronExpr: "0 9 * * 1", Description: "weekly report", Enabled: true}
	require.NoError(t, s.CreateSchedule(ctx, sched))
	require.NotEmpty(t, sched.ID)

	got, err := s.GetSchedule(ctx, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, "0 9 * * 1", got.CronExpr)
	assert.True(t, got.Enabled)

	got.Enabled = false
	got.CronExpr = "0 10 * * 1"
	require.NoError(t, s.UpdateSchedule(ctx, got))

	got, err = s.GetSchedule(ctx, sched.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, "0 10 * * 1", got.CronExpr)

	require.NoError(t, s.CreateSchedule(ctx, &Schedule{AgentID: "agent-2", CronExpr: "@daily"}))

	mine, err := s.ListSchedules(ctx, "agent-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := s.ListSchedules(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteSchedule(ctx, sched.ID))
	_, err = s.GetSchedule(ctx, sched.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateSchedule(ctx, sched), ErrNotFound)
}

func TestAgentSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	settings := &AgentSettings{AgentID: "agent-1", Name: "Scribe", Model: "large", Temperature: 0.2}
	require.NoError(t, s.SetAgentSettings(ctx, settings))

	got, err := s.GetAgentSettings(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "Scribe", got.Name)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)

	settings.Model = "small"
	require.NoError(t, s.SetAgentSettings(ctx, settings))
	got, err = s.GetAgentSettings(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "small", got.Model)

	require.NoError(t, s.DeleteAgentSettings(ctx, "agent-1"))
	_, err = s.GetAgentSettings(ctx, "agent-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := &AuditEntry{
		ActionID:   "action_1",
		ActionType: "permission",
		Operation:  "update",
		Target:     "chat-1",
		Outcome:    AuditOutcomeExecuted,
		Detail:     map[string]any{"permission": "read_write"},
	}
	require.NoError(t, s.AppendAudit(ctx, e))
	require.NotEmpty(t, e.ID)
	require.False(t, e.Timestamp.IsZero())

	require.NoError(t, s.AppendAudit(ctx, &AuditEntry{
		ActionID:   "action_2",
		ActionType: "secret",
		Operation:  "create",
		Target:     "API_KEY",
		Outcome:    AuditOutcomeFailed,
		Timestamp:  e.Timestamp.Add(time.Second),
	}))

	entries, err := s.ListAudit(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "action_2", entries[0].ActionID)
	assert.Nil(t, entries[0].Detail)
	assert.Equal(t, "action_1", entries[1].ActionID)
	assert.Equal(t, "read_write", entries[1].Detail["permission"])

	// RFC3339 storage has second precision, so pick a whole-second boundary.
	since := e.Timestamp.Add(time.Second)
	recent, err := s.ListAudit(ctx, &since, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "action_2", recent[0].ActionID)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetChatPermission(ctx, &ChatPermission{ChatID: "chat-1", Permission: PermissionAdmin}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.GetChatPermission(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, PermissionAdmin, p.Permission)
}
