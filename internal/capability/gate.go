// ABOUTME: Capability availability gate with a TTL cache over a pluggable checker.
// ABOUTME: Downgrades checker failures to unavailable instead of erroring.

package capability

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is how long one availability answer stays valid.
const DefaultCacheTTL = 30 * time.Second

// Type identifies what kind of probe a capability needs.
type Type string

const (
	TypeMCP    Type = "mcp"
	TypeOAuth  Type = "oauth"
	TypeConfig Type = "config"
)

// InferType derives a capability's type and base name from its full name.
// Recognized suffixes are "-mcp", "-oauth", and "-config"; anything else is
// treated as oauth with the full name as base, never as an error.
func InferType(name string) (Type, string) {
	switch {
	case strings.HasSuffix(name, "-mcp"):
		return TypeMCP, strings.TrimSuffix(name, "-mcp")
	case strings.HasSuffix(name, "-oauth"):
		return TypeOAuth, strings.TrimSuffix(name, "-oauth")
	case strings.HasSuffix(name, "-config"):
		return TypeConfig, strings.TrimSuffix(name, "-config")
	default:
		return TypeOAuth, name
	}
}

// Checker probes whether one capability is actually usable. Implementations
// may hit OAuth token stores, MCP servers, or config storage.
type Checker interface {
	Check(ctx context.Context, capType Type, baseName string) (bool, error)
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context, capType Type, baseName string) (bool, error)

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context, capType Type, baseName string) (bool, error) {
	return f(ctx, capType, baseName)
}

// Status is the answer for one capability, for UI and reporting.
type Status struct {
	Name      string
	Type      Type
	Available bool
}

// cacheEntry stores one cached availability answer and when it was probed.
type cacheEntry struct {
	available bool
	checkedAt time.Time
}

// Gate answers capability availability queries with a TTL cache in front of
// the injected Checker. Safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	checker Checker
	cache   map[string]cacheEntry
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewGate creates a gate over the given checker. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewGate(checker Checker, ttl time.Duration, logger *slog.Logger) *Gate {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		checker: checker,
		cache:   make(map[string]cacheEntry),
		ttl:     ttl,
		logger:  logger.With("component", "capability"),
		now:     time.Now,
	}
}

// IsAvailable reports whether the named capability is usable right now.
// Answers are cached for the gate's TTL. Checker errors are logged and
// reported as unavailable.
//
// The lock is held across the probe, so a burst of callers asking about the
// same capability produces a single checker invocation.
func (g *Gate) IsAvailable(ctx context.Context, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.cache[name]; ok && g.now().Sub(entry.checkedAt) < g.ttl {
		return entry.available
	}

	capType, base := InferType(name)
	available, err := g.checker.Check(ctx, capType, base)
	if err != nil {
		g.logger.Warn("capability check failed", "name", name, "type", capType, "error", err)
		available = false
	}

	g.cache[name] = cacheEntry{available: available, checkedAt: g.now()}
	return available
}

// AllAvailable reports whether every listed capability is usable. A nil or
// empty requirements list means nothing is required, which is always
// satisfied. Each requirement is evaluated on its own; an unknown or failing
// capability counts as unavailable, never as an error.
func (g *Gate) AllAvailable(ctx context.Context, requirements []string) bool {
	ok := true
	for _, name := range requirements {
		if !g.IsAvailable(ctx, name) {
			ok = false
		}
	}
	return ok
}

// Statuses returns the availability of each named capability, in input order.
func (g *Gate) Statuses(ctx context.Context, names []string) []Status {
	statuses := make([]Status, 0, len(names))
	for _, name := range names {
		capType, _ := InferType(name)
		statuses = append(statuses, Status{
			Name:      name,
			Type:      capType,
			Available: g.IsAvailable(ctx, name),
		})
	}
	return statuses
}

// ClearCache drops every cached answer so the next check hits the checker
// again. Called after configuration changes.
func (g *Gate) ClearCache() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string]cacheEntry)
}
