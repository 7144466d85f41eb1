// ABOUTME: In-memory pending action store with TTL expiry and executor dispatch.
// ABOUTME: Guarantees at-most-once execution per proposed action.

package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a proposed action waits for confirmation.
const DefaultTTL = 5 * time.Minute

// idPrefix makes action IDs recognizable in logs and chat transcripts.
const idPrefix = "action_"

// Operation is what a pending action does to its target.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Action type tags for the built-in configuration domains. The store accepts
// any tag; these are the ones the builtin executor pack registers.
const (
	TypePermission = "permission"
	TypePrompt     = "prompt"
	TypeSecret     = "secret"
	TypeSchedule   = "schedule"
	TypeAgent      = "agent"
)

// Action is a proposed, not-yet-applied configuration change.
type Action struct {
	ID        string
	Type      string // selects the executor
	Operation Operation
	Target    string         // chat id, secret key, schedule id, agent id, ...
	Changes   map[string]any // opaque payload, interpreted by the executor
	CreatedAt time.Time
	ExpiresAt time.Time
	Summary   string // one line for the human approver
}

// Result is what an executor reports back, propagated verbatim to the
// caller of Confirm.
type Result struct {
	Success bool
	Message string
	Data    map[string]any
}

// Executor performs the real side effect of a confirmed action.
type Executor func(ctx context.Context, act *Action) Result

// Store orchestrates the propose/confirm/cancel/expire lifecycle and
// dispatches confirmed actions to registered executors. Safe for concurrent
// use; the lookup-and-remove step of Confirm is guarded by the store mutex
// so a racing second confirm for the same ID reliably sees "not found".
type Store struct {
	mu        sync.Mutex
	actions   map[string]*Action
	executors map[string]Executor
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time

	done   chan struct{}
	closed bool
}

// NewStore creates a pending action store. A non-positive ttl falls back to
// DefaultTTL. If sweepInterval is positive, a background goroutine purges
// expired actions at that interval until Close is called; lazy expiry on
// read happens either way.
func NewStore(ttl, sweepInterval time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		actions:   make(map[string]*Action),
		executors: make(map[string]Executor),
		ttl:       ttl,
		logger:    logger.With("component", "actions"),
		now:       time.Now,
		done:      make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// Close stops the background sweep goroutine. Safe to call multiple times.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Create stages a new pending action and returns it with a fresh ID, a
// derived summary, and an expiry deadline. It never fails.
func (s *Store) Create(actionType string, op Operation, target string, changes map[string]any) *Action {
	now := s.now()
	act := &Action{
		ID:        idPrefix + uuid.New().String(),
		Type:      actionType,
		Operation: op,
		Target:    target,
		Changes:   changes,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Summary:   summarize(actionType, op, target),
	}

	s.mu.Lock()
	s.actions[act.ID] = act
	s.mu.Unlock()

	s.logger.Info("staged pending action",
		"id", act.ID,
		"type", actionType,
		"operation", op,
		"target", target,
		"expires_at", act.ExpiresAt,
	)
	return cloneAction(act)
}

// Get returns the pending action for an ID, or nil if it does not exist or
// has expired. An expired entry is purged as a side effect.
func (s *Store) Get(id string) *Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	act := s.getLocked(id)
	if act == nil {
		return nil
	}
	return cloneAction(act)
}

// List returns every live pending action ordered by creation time. All
// expired entries are purged first, so no expired action is ever visible.
func (s *Store) List() []*Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()

	result := make([]*Action, 0, len(s.actions))
	for _, act := range s.actions {
		result = append(result, cloneAction(act))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// RegisterExecutor installs the executor for an action type. Registering the
// same type again replaces the previous executor.
func (s *Store) RegisterExecutor(actionType string, fn Executor) {
	s.mu.Lock()
	s.executors[actionType] = fn
	s.mu.Unlock()

	s.logger.Debug("registered executor", "type", actionType)
}

// Confirm executes a pending action. The action is removed before the
// executor runs, regardless of the executor's outcome, so a retried confirm
// can never execute twice. If no executor is registered for the action's
// type the action stays pending, so a late registration can still resolve
// it before the TTL.
func (s *Store) Confirm(ctx context.Context, id string) Result {
	s.mu.Lock()
	act := s.getLocked(id)
	if act == nil {
		s.mu.Unlock()
		return Result{Success: false, Message: "action not found or expired"}
	}

	exec, ok := s.executors[act.Type]
	if !ok {
		s.mu.Unlock()
		return Result{Success: false, Message: fmt.Sprintf("No executor registered for type %s", act.Type)}
	}

	// Commit the removal before releasing the lock: after this point no
	// other caller can observe or confirm this action.
	delete(s.actions, id)
	s.mu.Unlock()

	res := exec(ctx, act)

	s.logger.Info("executed pending action",
		"id", id,
		"type", act.Type,
		"target", act.Target,
		"success", res.Success,
	)
	return res
}

// Cancel removes a pending action without executing it. Returns false if the
// action was already gone (confirmed, cancelled, or expired).
func (s *Store) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getLocked(id) == nil {
		return false
	}
	delete(s.actions, id)
	s.logger.Info("cancelled pending action", "id", id)
	return true
}

// PendingCount returns the number of live, non-expired actions.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()
	return len(s.actions)
}

// getLocked looks up an action and applies the lazy expiry check. Must be
// called with mu held.
func (s *Store) getLocked(id string) *Action {
	act, ok := s.actions[id]
	if !ok {
		return nil
	}
	if !s.now().Before(act.ExpiresAt) {
		delete(s.actions, id)
		s.logger.Debug("purged expired action", "id", id)
		return nil
	}
	return act
}

// purgeExpiredLocked removes every expired action. Must be called with mu held.
func (s *Store) purgeExpiredLocked() {
	now := s.now()
	for id, act := range s.actions {
		if !now.Before(act.ExpiresAt) {
			delete(s.actions, id)
			s.logger.Debug("purged expired action", "id", id)
		}
	}
}

// sweep periodically purges expired actions until Close is called. Purging
// on a timer only reclaims memory; visibility is already handled by the lazy
// checks on every read.
func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.purgeExpiredLocked()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// summarize derives the one-line description shown to the human approver,
// e.g. "Update permission for chat-1".
func summarize(actionType string, op Operation, target string) string {
	verb := string(op)
	if verb != "" {
		verb = strings.ToUpper(verb[:1]) + verb[1:]
	}
	return fmt.Sprintf("%s %s for %s", verb, actionType, target)
}

// cloneAction copies an action so callers cannot mutate stored state.
func cloneAction(a *Action) *Action {
	c := *a
	if a.Changes != nil {
		c.Changes = make(map[string]any, len(a.Changes))
		for k, v := range a.Changes {
			c.Changes[k] = v
		}
	}
	return &c
}
