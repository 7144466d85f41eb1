// ABOUTME: Builtin executors translating confirmed actions into settings store writes.
// ABOUTME: One executor per configuration domain, registered as a pack.

package executors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/coven-control/internal/actions"
	"github.com/2389/coven-control/internal/store"
)

// Pack wires the built-in configuration executors to a settings store.
type Pack struct {
	store  store.Store
	logger *slog.Logger
}

// New creates the builtin executor pack over the given settings store.
func New(s store.Store, logger *slog.Logger) *Pack {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pack{
		store:  s,
		logger: logger.With("component", "executors"),
	}
}

// RegisterAll installs every builtin executor into the action store.
func (p *Pack) RegisterAll(as *actions.Store) {
	as.RegisterExecutor(actions.TypePermission, p.ExecutePermission)
	as.RegisterExecutor(actions.TypePrompt, p.ExecutePrompt)
	as.RegisterExecutor(actions.TypeSecret, p.ExecuteSecret)
	as.RegisterExecutor(actions.TypeSchedule, p.ExecuteSchedule)
	as.RegisterExecutor(actions.TypeAgent, p.ExecuteAgent)
}

// ExecutePermission applies a chat permission change. The target is the chat
// ID; changes carry the "permission" level for create/update.
func (p *Pack) ExecutePermission(ctx context.Context, act *actions.Action) actions.Result {
	res := p.runPermission(ctx, act)
	p.audit(ctx, act, res)
	return res
}

func (p *Pack) runPermission(ctx context.Context, act *actions.Action) actions.Result {
	switch act.Operation {
	case actions.OperationCreate, actions.OperationUpdate:
		level, ok := stringChange(act.Changes, "permission")
		if !ok {
			return failure("permission change requires a %q value", "permission")
		}
		if !validPermission(level) {
			return failure("unknown permission level %q", level)
		}
		if err := p.store.SetChatPermission(ctx, &store.ChatPermission{ChatID: act.Target, Permission: level}); err != nil {
			return failure("setting chat permission: %v", err)
		}
		return success(fmt.Sprintf("Permission for %s set to %s", act.Target, level), map[string]any{
			"chat_id":    act.Target,
			"permission": level,
		})
	case actions.OperationDelete:
		if err := p.store.DeleteChatPermission(ctx, act.Target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("no permission recorded for %s", act.Target)
			}
			return failure("deleting chat permission: %v", err)
		}
		return success(fmt.Sprintf("Permission for %s removed", act.Target), nil)
	default:
		return unsupported(act)
	}
}

// ExecutePrompt applies a system prompt change. The target is the agent ID;
// changes carry the "prompt" text for create/update.
func (p *Pack) ExecutePrompt(ctx context.Context, act *actions.Action) actions.Result {
	res := p.runPrompt(ctx, act)
	p.audit(ctx, act, res)
	return res
}

func (p *Pack) runPrompt(ctx context.Context, act *actions.Action) actions.Result {
	switch act.Operation {
	case actions.OperationCreate, actions.OperationUpdate:
		text, ok := stringChange(act.Changes, "prompt")
		if !ok {
			return failure("prompt change requires a %q value", "prompt")
		}
		if err := p.store.SetPrompt(ctx, &store.Prompt{AgentID: act.Target, Text: text}); err != nil {
			return failure("setting prompt: %v", err)
		}
		return success(fmt.Sprintf("Prompt for %s updated", act.Target), map[string]any{
			"agent_id": act.Target,
			"length":   len(text),
		})
	case actions.OperationDelete:
		if err := p.store.DeletePrompt(ctx, act.Target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("no prompt stored for %s", act.Target)
			}
			return failure("deleting prompt: %v", err)
		}
		return success(fmt.Sprintf("Prompt for %s removed", act.Target), nil)
	default:
		return unsupported(act)
	}
}

// ExecuteSecret applies a secret change. The target is the secret key;
// changes carry "value" and an optional "agent_id" scope.
func (p *Pack) ExecuteSecret(ctx context.Context, act *actions.Action) actions.Result {
	res := p.runSecret(ctx, act)
	p.audit(ctx, act, res)
	return res
}

func (p *Pack) runSecret(ctx context.Context, act *actions.Action) actions.Result {
	var agentID *string
	if scope, ok := stringChange(act.Changes, "agent_id"); ok {
		agentID = &scope
	}

	switch act.Operation {
	case actions.OperationCreate:
		value, ok := stringChange(act.Changes, "value")
		if !ok {
			return failure("secret create requires a %q value", "value")
		}
		secret := &store.Secret{Key: act.Target, Value: value, AgentID: agentID}
		if err := p.store.CreateSecret(ctx, secret); err != nil {
			return failure("creating secret: %v", err)
		}
		return success(fmt.Sprintf("Secret %s created", act.Target), map[string]any{"key": act.Target})
	case actions.OperationUpdate:
		value, ok := stringChange(act.Changes, "value")
		if !ok {
			return failure("secret update requires a %q value", "value")
		}
		if err := p.store.UpdateSecretValue(ctx, act.Target, agentID, value); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("secret %s does not exist", act.Target)
			}
			return failure("updating secret: %v", err)
		}
		return success(fmt.Sprintf("Secret %s updated", act.Target), map[string]any{"key": act.Target})
	case actions.OperationDelete:
		if err := p.store.DeleteSecret(ctx, act.Target, agentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("secret %s does not exist", act.Target)
			}
			return failure("deleting secret: %v", err)
		}
		return success(fmt.Sprintf("Secret %s deleted", act.Target), nil)
	default:
		return unsupported(act)
	}
}

// ExecuteSchedule applies a schedule change. The target is the schedule ID;
// changes carry "cron", "description", "agent_id", and "enabled".
func (p *Pack) ExecuteSchedule(ctx context.Context, act *actions.Action) actions.Result {
	res := p.runSchedule(ctx, act)
	p.audit(ctx, act, res)
	return res
}

func (p *Pack) runSchedule(ctx context.Context, act *actions.Action) actions.Result {
	switch act.Operation {
	case actions.OperationCreate:
		cron, ok := stringChange(act.Changes, "cron")
		if !ok {
			return failure("schedule create requires a %q value", "cron")
		}
		agentID, _ := stringChange(act.Changes, "agent_id")
		description, _ := stringChange(act.Changes, "description")
		sched := &store.Schedule{
			ID:          act.Target,
			AgentID:     agentID,
			CronExpr:    cron,
			Description: description,
			Enabled:     boolChange(act.Changes, "enabled", true),
		}
		if err := p.store.CreateSchedule(ctx, sched); err != nil {
			return failure("creating schedule: %v", err)
		}
		return success(fmt.Sprintf("Schedule %s created", sched.ID), map[string]any{"schedule_id": sched.ID})
	case actions.OperationUpdate:
		sched, err := p.store.GetSchedule(ctx, act.Target)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("schedule %s does not exist", act.Target)
			}
			return failure("loading schedule: %v", err)
		}
		if cron, ok := stringChange(act.Changes, "cron"); ok {
			sched.CronExpr = cron
		}
		if description, ok := stringChange(act.Changes, "description"); ok {
			sched.Description = description
		}
		sched.Enabled = boolChange(act.Changes, "enabled", sched.Enabled)
		if err := p.store.UpdateSchedule(ctx, sched); err != nil {
			return failure("updating schedule: %v", err)
		}
		return success(fmt.Sprintf("Schedule %s updated", act.Target), nil)
	case actions.OperationDelete:
		if err := p.store.DeleteSchedule(ctx, act.Target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("schedule %s does not exist", act.Target)
			}
			return failure("deleting schedule: %v", err)
		}
		return success(fmt.Sprintf("Schedule %s deleted", act.Target), nil)
	default:
		return unsupported(act)
	}
}

// ExecuteAgent applies an agent settings change. The target is the agent ID;
// changes carry "name", "model", and "temperature".
func (p *Pack) ExecuteAgent(ctx context.Context, act *actions.Action) actions.Result {
	res := p.runAgent(ctx, act)
	p.audit(ctx, act, res)
	return res
}

func (p *Pack) runAgent(ctx context.Context, act *actions.Action) actions.Result {
	switch act.Operation {
	case actions.OperationCreate, actions.OperationUpdate:
		settings, err := p.store.GetAgentSettings(ctx, act.Target)
		if errors.Is(err, store.ErrNotFound) {
			settings = &store.AgentSettings{AgentID: act.Target}
		} else if err != nil {
			return failure("loading agent settings: %v", err)
		}
		if name, ok := stringChange(act.Changes, "name"); ok {
			settings.Name = name
		}
		if model, ok := stringChange(act.Changes, "model"); ok {
			settings.Model = model
		}
		if temp, ok := floatChange(act.Changes, "temperature"); ok {
			settings.Temperature = temp
		}
		if err := p.store.SetAgentSettings(ctx, settings); err != nil {
			return failure("saving agent settings: %v", err)
		}
		return success(fmt.Sprintf("Settings for %s updated", act.Target), map[string]any{
			"agent_id": act.Target,
			"model":    settings.Model,
		})
	case actions.OperationDelete:
		if err := p.store.DeleteAgentSettings(ctx, act.Target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return failure("no settings stored for %s", act.Target)
			}
			return failure("deleting agent settings: %v", err)
		}
		return success(fmt.Sprintf("Settings for %s removed", act.Target), nil)
	default:
		return unsupported(act)
	}
}

// audit records the resolved action in the settings store's audit log.
// Audit failures are logged, never surfaced: the change itself already
// happened (or failed) and the caller's result must reflect that.
func (p *Pack) audit(ctx context.Context, act *actions.Action, res actions.Result) {
	outcome := store.AuditOutcomeExecuted
	if !res.Success {
		outcome = store.AuditOutcomeFailed
	}
	err := p.store.AppendAudit(ctx, &store.AuditEntry{
		ActionID:   act.ID,
		ActionType: act.Type,
		Operation:  string(act.Operation),
		Target:     act.Target,
		Outcome:    outcome,
		Detail:     map[string]any{"message": res.Message},
	})
	if err != nil {
		p.logger.Warn("appending audit entry failed", "action_id", act.ID, "error", err)
	}
}

func validPermission(level string) bool {
	switch level {
	case store.PermissionReadOnly, store.PermissionReadWrite, store.PermissionAdmin:
		return true
	}
	return false
}

// stringChange extracts a non-empty string field from a changes payload.
func stringChange(changes map[string]any, key string) (string, bool) {
	v, ok := changes[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// boolChange extracts a bool field, falling back to def when absent or not a bool.
func boolChange(changes map[string]any, key string, def bool) bool {
	if v, ok := changes[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// floatChange extracts a numeric field, accepting float64 or int payloads.
func floatChange(changes map[string]any, key string) (float64, bool) {
	switch v := changes[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func success(message string, data map[string]any) actions.Result {
	return actions.Result{Success: true, Message: message, Data: data}
}

func failure(format string, args ...any) actions.Result {
	return actions.Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func unsupported(act *actions.Action) actions.Result {
	return failure("unsupported operation %q for type %s", act.Operation, act.Type)
}
