// ABOUTME: Thread-safe registry of tool metadata for agent discovery.
// ABOUTME: Indexes tools by name and category, computes derived category info.

package tools

import (
	"log/slog"
	"sync"
)

// Category classifies a tool by the service or domain it operates on.
type Category string

const (
	CategoryJira      Category = "jira"
	CategoryMessaging Category = "messaging"
	CategoryDocs      Category = "docs"
	CategoryCalendar  Category = "calendar"
	CategorySystem    Category = "system"
	CategoryMedia     Category = "media"
)

// ValidCategories lists all categories a tool may be registered under.
var ValidCategories = []Category{
	CategoryJira,
	CategoryMessaging,
	CategoryDocs,
	CategoryCalendar,
	CategorySystem,
	CategoryMedia,
}

// categoryDescriptions holds the human-readable blurb shown for each
// category in discovery responses.
var categoryDescriptions = map[Category]string{
	CategoryJira:      "Issue tracker operations: issues, sprints, boards",
	CategoryMessaging: "Chat platform operations: messages, channels, members",
	CategoryDocs:      "Office suite operations: documents, sheets, drives",
	CategoryCalendar:  "Calendar operations: events, availability, invites",
	CategorySystem:    "Platform configuration: permissions, prompts, secrets, schedules",
	CategoryMedia:     "Media operations: images, audio, transcription",
}

// Metadata describes a registered tool for discovery purposes.
type Metadata struct {
	Name        string
	Category    Category
	Description string
	Keywords    []string
	UseCases    []string
	Examples    []string // sample invocations, informational only
}

// CategoryInfo is a derived summary of one category present in the registry.
// It is recomputed on demand and never stored, so it cannot drift from the
// registered tools.
type CategoryInfo struct {
	Name        Category
	Description string
	ToolCount   int
	Keywords    []string // union of member keywords, first-seen order
}

// Registry holds tool metadata and answers discovery queries.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Metadata
	order  []string // registration order of names, one entry per live name
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Metadata),
		logger: logger.With("component", "tools"),
	}
}

// RegisterTool inserts or overwrites a tool by name. Re-registering an
// existing name replaces its metadata in place and keeps the original
// registration position, so repeated registration never duplicates entries.
func (r *Registry) RegisterTool(m Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneMetadata(&m)
	if _, exists := r.tools[m.Name]; !exists {
		r.order = append(r.order, m.Name)
	}
	r.tools[m.Name] = stored

	r.logger.Debug("registered tool", "name", m.Name, "category", m.Category)
}

// GetTool returns the metadata for a tool name. The second return value is
// false if no tool with that name is registered.
func (r *Registry) GetTool(name string) (*Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return cloneMetadata(m), true
}

// GetToolsByCategory returns the tools registered under the given category
// in registration order. Unknown categories yield an empty slice.
func (r *Registry) GetToolsByCategory(cat Category) []*Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Metadata
	for _, name := range r.order {
		if m := r.tools[name]; m.Category == cat {
			result = append(result, cloneMetadata(m))
		}
	}
	return result
}

// GetAllCategories returns one CategoryInfo per distinct category present in
// the registry, in order of first appearance, with derived tool counts and
// keyword unions.
func (r *Registry) GetAllCategories() []CategoryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cats []Category
	infos := make(map[Category]*CategoryInfo)
	seen := make(map[Category]map[string]bool)

	for _, name := range r.order {
		m := r.tools[name]
		info, ok := infos[m.Category]
		if !ok {
			info = &CategoryInfo{
				Name:        m.Category,
				Description: categoryDescriptions[m.Category],
			}
			infos[m.Category] = info
			seen[m.Category] = make(map[string]bool)
			cats = append(cats, m.Category)
		}
		info.ToolCount++
		for _, kw := range m.Keywords {
			if !seen[m.Category][kw] {
				seen[m.Category][kw] = true
				info.Keywords = append(info.Keywords, kw)
			}
		}
	}

	result := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		result = append(result, *infos[c])
	}
	return result
}

// ToolCount returns the number of registered tools (for monitoring).
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// cloneMetadata copies a metadata record so callers cannot mutate the
// registry's state through returned pointers.
func cloneMetadata(m *Metadata) *Metadata {
	c := *m
	c.Keywords = append([]string(nil), m.Keywords...)
	c.UseCases = append([]string(nil), m.UseCases...)
	c.Examples = append([]string(nil), m.Examples...)
	return &c
}
