// ABOUTME: Relevance-scored discovery search over the tool registry.
// ABOUTME: Exact keyword matches dominate; description/use-case matches add less.

package tools

import (
	"sort"
	"strings"
)

// Score weights: an exact keyword match counts double what a substring match
// in the description or a use case does, so precise queries win over prose
// overlap.
const (
	keywordMatchWeight = 2
	textMatchWeight    = 1
)

// SearchResult pairs a tool with its relevance score for one query.
type SearchResult struct {
	Tool            *Metadata
	Score           int
	MatchedKeywords []string
}

// SearchTools ranks registered tools against a free-text query. The query is
// lowercased and split on whitespace; each token scores keywordMatchWeight
// for an exact keyword match and textMatchWeight when it appears as a
// substring of the description or any use case. Tools scoring zero are
// excluded. Ties break by registration order, so identical queries return
// identical rankings.
func (r *Registry) SearchTools(query string) []SearchResult {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []SearchResult
	for _, name := range r.order {
		m := r.tools[name]
		score, matched := scoreTool(m, tokens)
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			Tool:            cloneMetadata(m),
			Score:           score,
			MatchedKeywords: matched,
		})
	}

	// Stable sort keeps registration order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreTool computes the relevance of one tool for the given query tokens.
func scoreTool(m *Metadata, tokens []string) (int, []string) {
	keywords := make(map[string]bool, len(m.Keywords))
	for _, kw := range m.Keywords {
		keywords[strings.ToLower(kw)] = true
	}
	description := strings.ToLower(m.Description)

	score := 0
	var matched []string
	for _, tok := range tokens {
		if keywords[tok] {
			score += keywordMatchWeight
			matched = append(matched, tok)
			continue
		}
		if strings.Contains(description, tok) {
			score += textMatchWeight
			continue
		}
		for _, uc := range m.UseCases {
			if strings.Contains(strings.ToLower(uc), tok) {
				score += textMatchWeight
				break
			}
		}
	}
	return score, matched
}
