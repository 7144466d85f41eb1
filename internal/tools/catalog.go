// ABOUTME: YAML catalog loading for declaring tool metadata in manifest files.
// ABOUTME: Validates entries and seeds a Registry at startup.

package tools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk manifest format for tool metadata:
//
//	tools:
//	  - name: jira_get_issues
//	    category: jira
//	    description: Fetch issues from a Jira project
//	    keywords: [jira, issues]
//	    use_cases:
//	      - "Show me the open bugs in PROJ"
//	    examples:
//	      - 'jira_get_issues {"project": "PROJ", "status": "open"}'
type Catalog struct {
	Tools []CatalogEntry `yaml:"tools"`
}

// CatalogEntry is one tool declaration in a manifest file.
type CatalogEntry struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	UseCases    []string `yaml:"use_cases"`
	Examples    []string `yaml:"examples"`
}

// LoadCatalogFile reads and validates a tool manifest from the given path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	for i, entry := range cat.Tools {
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if !isValidCategory(Category(entry.Category)) {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", entry.Name, entry.Category)
		}
	}
	return &cat, nil
}

// RegisterCatalog registers every entry of a catalog into the registry and
// returns the number of tools registered.
func (r *Registry) RegisterCatalog(cat *Catalog) int {
	for _, entry := range cat.Tools {
		r.RegisterTool(Metadata{
			Name:        entry.Name,
			Category:    Category(entry.Category),
			Description: entry.Description,
			Keywords:    entry.Keywords,
			UseCases:    entry.UseCases,
			Examples:    entry.Examples,
		})
	}
	return len(cat.Tools)
}

func isValidCategory(c Category) bool {
	for _, valid := range ValidCategories {
		if c == valid {
			return true
		}
	}
	return false
}
