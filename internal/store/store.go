// ABOUTME: Store interface and data types for coven-control persistence.
// ABOUTME: Defines the configuration domain entities and the combined Store interface.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Permission levels a chat can be granted.
const (
	PermissionReadOnly  = "read_only"
	PermissionReadWrite = "read_write"
	PermissionAdmin     = "admin"
)

// ChatPermission records what a chat is allowed to do through the agent.
type ChatPermission struct {
	ChatID     string
	Permission string // read_only, read_write, admin
	UpdatedAt  time.Time
}

// Prompt is an agent's system prompt text.
type Prompt struct {
	AgentID   string
	Text      string
	UpdatedAt time.Time
}

// Secret represents an environment variable that can be pushed to agents.
// If AgentID is nil, this is a global default. If set, it's an agent-specific override.
type Secret struct {
	ID        string
	Key       string
	Value     string
	AgentID   *string // nil = global default
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule is a recurring task definition for an agent.
type Schedule struct {
	ID          string
	AgentID     string
	CronExpr    string
	Description string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgentSettings holds per-agent model configuration.
type AgentSettings struct {
	AgentID     string
	Name        string
	Model       string
	Temperature float64
	UpdatedAt   time.Time
}

// PermissionsStore defines methods for managing chat permissions.
type PermissionsStore interface {
	SetChatPermission(ctx context.Context, p *ChatPermission) error
	GetChatPermission(ctx context.Context, chatID string) (*ChatPermission, error)
	DeleteChatPermission(ctx context.Context, chatID string) error
	ListChatPermissions(ctx context.Context) ([]*ChatPermission, error)
}

// PromptsStore defines methods for managing agent prompts.
type PromptsStore interface {
	SetPrompt(ctx context.Context, p *Prompt) error
	GetPrompt(ctx context.Context, agentID string) (*Prompt, error)
	DeletePrompt(ctx context.Context, agentID string) error
}

// SecretsStore defines methods for managing secrets.
type SecretsStore interface {
	CreateSecret(ctx context.Context, secret *Secret) error
	GetSecretByKey(ctx context.Context, key string, agentID *string) (*Secret, error)
	UpdateSecretValue(ctx context.Context, key string, agentID *string, value string) error
	DeleteSecret(ctx context.Context, key string, agentID *string) error
	ListSecretKeys(ctx context.Context) ([]string, error)
}

// SchedulesStore defines methods for managing schedules.
type SchedulesStore interface {
	CreateSchedule(ctx context.Context, s *Schedule) error
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	UpdateSchedule(ctx context.Context, s *Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedules(ctx context.Context, agentID string) ([]*Schedule, error)
}

// AgentsStore defines methods for managing agent settings.
type AgentsStore interface {
	SetAgentSettings(ctx context.Context, s *AgentSettings) error
	GetAgentSettings(ctx context.Context, agentID string) (*AgentSettings, error)
	DeleteAgentSettings(ctx context.Context, agentID string) error
}

// Store is the full persistence surface the executor pack depends on.
type Store interface {
	PermissionsStore
	PromptsStore
	SecretsStore
	SchedulesStore
	AgentsStore
	AuditStore

	Close() error
}
