// ABOUTME: Tests for the capability gate's caching, type inference, and AND semantics.
// ABOUTME: Uses a counting fake checker and an injected clock for TTL behavior.

package capability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker records every probe and answers from a fixed table.
type fakeChecker struct {
	available map[string]bool // keyed by base name
	err       error
	calls     int
}

func (f *fakeChecker) Check(ctx context.Context, capType Type, baseName string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.available[baseName], nil
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name     string
		wantType Type
		wantBase string
	}{
		{"atlassian-mcp", TypeMCP, "atlassian"},
		{"google-oauth", TypeOAuth, "google"},
		{"smtp-config", TypeConfig, "smtp"},
		{"mystery", TypeOAuth, "mystery"},
		{"mcp", TypeOAuth, "mcp"}, // suffix only counts with the dash
	}
	for _, tt := range tests {
		gotType, gotBase := InferType(tt.name)
		assert.Equal(t, tt.wantType, gotType, tt.name)
		assert.Equal(t, tt.wantBase, gotBase, tt.name)
	}
}

func TestGate_IsAvailable(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true}}
	g := NewGate(checker, time.Minute, nil)

	assert.True(t, g.IsAvailable(context.Background(), "google-oauth"))
	assert.False(t, g.IsAvailable(context.Background(), "atlassian-oauth"))
}

func TestGate_CacheAvoidsRepeatProbes(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true}}
	g := NewGate(checker, time.Minute, nil)

	g.IsAvailable(context.Background(), "google-oauth")
	g.IsAvailable(context.Background(), "google-oauth")
	g.IsAvailable(context.Background(), "google-oauth")

	assert.Equal(t, 1, checker.calls)
}

func TestGate_CacheExpires(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true}}
	g := NewGate(checker, 30*time.Second, nil)

	now := time.Now()
	g.now = func() time.Time { return now }

	g.IsAvailable(context.Background(), "google-oauth")
	require.Equal(t, 1, checker.calls)

	// Still inside the TTL window.
	now = now.Add(29 * time.Second)
	g.IsAvailable(context.Background(), "google-oauth")
	assert.Equal(t, 1, checker.calls)

	// Past the window the checker is consulted again.
	now = now.Add(2 * time.Second)
	g.IsAvailable(context.Background(), "google-oauth")
	assert.Equal(t, 2, checker.calls)
}

func TestGate_CheckerErrorMeansUnavailable(t *testing.T) {
	checker := &fakeChecker{err: errors.New("probe timed out")}
	g := NewGate(checker, time.Minute, nil)

	assert.False(t, g.IsAvailable(context.Background(), "google-oauth"))
}

func TestGate_AllAvailable_VacuousTruth(t *testing.T) {
	checker := &fakeChecker{}
	g := NewGate(checker, time.Minute, nil)

	assert.True(t, g.AllAvailable(context.Background(), nil))
	assert.True(t, g.AllAvailable(context.Background(), []string{}))
	assert.Zero(t, checker.calls)
}

func TestGate_AllAvailable_And(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true, "atlassian": false}}
	g := NewGate(checker, time.Minute, nil)

	assert.True(t, g.AllAvailable(context.Background(), []string{"google-oauth"}))
	assert.False(t, g.AllAvailable(context.Background(), []string{"google-oauth", "atlassian-oauth"}))
}

func TestGate_Statuses(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true}}
	g := NewGate(checker, time.Minute, nil)

	statuses := g.Statuses(context.Background(), []string{"google-oauth", "atlassian-mcp"})
	require.Len(t, statuses, 2)

	assert.Equal(t, Status{Name: "google-oauth", Type: TypeOAuth, Available: true}, statuses[0])
	assert.Equal(t, Status{Name: "atlassian-mcp", Type: TypeMCP, Available: false}, statuses[1])
}

func TestGate_ClearCache(t *testing.T) {
	checker := &fakeChecker{available: map[string]bool{"google": true}}
	g := NewGate(checker, time.Hour, nil)

	g.IsAvailable(context.Background(), "google-oauth")
	g.ClearCache()
	g.IsAvailable(context.Background(), "google-oauth")

	assert.Equal(t, 2, checker.calls)
}
