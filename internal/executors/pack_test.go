// ABOUTME: Tests for the builtin executor pack against a real SQLite store.
// ABOUTME: Drives the full propose-confirm flow and checks store side effects.

package executors

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-control/internal/actions"
	"github.com/2389/coven-control/internal/store"
)

func newTestEnv(t *testing.T) (*actions.Store, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "control.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	as := actions.NewStore(5*time.Minute, 0, nil)
	t.Cleanup(as.Close)

	New(st, nil).RegisterAll(as)
	return as, st
}

func TestPermissionExecutor(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	act := as.Create(actions.TypePermission, actions.OperationUpdate, "chat-1", map[string]any{"permission": "read_write"})
	assert.Contains(t, act.Summary, "permission")
	assert.Contains(t, act.Summary, "chat-1")

	res := as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 0, as.PendingCount())

	p, err := st.GetChatPermission(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, store.PermissionReadWrite, p.Permission)

	// Delete removes the record.
	act = as.Create(actions.TypePermission, actions.OperationDelete, "chat-1", nil)
	res = as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)
	_, err = st.GetChatPermission(ctx, "chat-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPermissionExecutor_InvalidLevel(t *testing.T) {
	as, _ := newTestEnv(t)

	act := as.Create(actions.TypePermission, actions.OperationUpdate, "chat-1", map[string]any{"permission": "root"})
	res := as.Confirm(context.Background(), act.ID)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unknown permission level")
	// Even a failed execution consumes the action.
	assert.Nil(t, as.Get(act.ID))
}

func TestPromptExecutor(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	act := as.Create(actions.TypePrompt, actions.OperationUpdate, "agent-1", map[string]any{"prompt": "You are terse."})
	res := as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	p, err := st.GetPrompt(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "You are terse.", p.Text)
}

func TestSecretExecutor(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	act := as.Create(actions.TypeSecret, actions.OperationCreate, "API_KEY", map[string]any{"value": "x"})
	res := as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	secret, err := st.GetSecretByKey(ctx, "API_KEY", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", secret.Value)

	act = as.Create(actions.TypeSecret, actions.OperationUpdate, "API_KEY", map[string]any{"value": "rotated"})
	res = as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	secret, err = st.GetSecretByKey(ctx, "API_KEY", nil)
	require.NoError(t, err)
	assert.Equal(t, "rotated", secret.Value)

	act = as.Create(actions.TypeSecret, actions.OperationDelete, "API_KEY", nil)
	res = as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)
	_, err = st.GetSecretByKey(ctx, "API_KEY", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSecretExecutor_MissingValue(t *testing.T) {
	as, _ := newTestEnv(t)

	act := as.Create(actions.TypeSecret, actions.OperationCreate, "API_KEY", nil)
	res := as.Confirm(context.Background(), act.ID)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, `"value"`)
}

func TestScheduleExecutor(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	act := as.Create(actions.TypeSchedule, actions.OperationCreate, "sched-1", map[string]any{
		"cron":        "0 9 * * 1",
		"agent_id":    "agent-1",
		"description": "weekly report",
	})
	res := as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	sched, err := st.GetSchedule(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "0 9 * * 1", sched.CronExpr)
	assert.True(t, sched.Enabled)

	act = as.Create(actions.TypeSchedule, actions.OperationUpdate, "sched-1", map[string]any{"enabled": false})
	res = as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	sched, err = st.GetSchedule(ctx, "sched-1")
	require.NoError(t, err)
	assert.False(t, sched.Enabled)
	assert.Equal(t, "0 9 * * 1", sched.CronExpr, "unchanged fields survive an update")
}

func TestAgentExecutor(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	act := as.Create(actions.TypeAgent, actions.OperationUpdate, "agent-1", map[string]any{
		"model":       "large",
		"temperature": 0.3,
	})
	res := as.Confirm(ctx, act.ID)
	require.True(t, res.Success, res.Message)

	settings, err := st.GetAgentSettings(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "large", settings.Model)
	assert.InDelta(t, 0.3, settings.Temperature, 1e-9)
}

func TestExecutors_UnsupportedOperation(t *testing.T) {
	as, _ := newTestEnv(t)

	act := as.Create(actions.TypePrompt, actions.Operation("merge"), "agent-1", nil)
	res := as.Confirm(context.Background(), act.ID)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unsupported operation")
}

func TestExecutors_AuditTrail(t *testing.T) {
	as, st := newTestEnv(t)
	ctx := context.Background()

	ok := as.Create(actions.TypePermission, actions.OperationUpdate, "chat-1", map[string]any{"permission": "read_only"})
	as.Confirm(ctx, ok.ID)

	bad := as.Create(actions.TypeSecret, actions.OperationUpdate, "MISSING", map[string]any{"value": "v"})
	as.Confirm(ctx, bad.ID)

	entries, err := st.ListAudit(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := map[string]string{}
	for _, e := range entries {
		byID[e.ActionID] = e.Outcome
	}
	assert.Equal(t, store.AuditOutcomeExecuted, byID[ok.ID])
	assert.Equal(t, store.AuditOutcomeFailed, byID[bad.ID])
}
