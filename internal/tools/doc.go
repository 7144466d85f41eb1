// ABOUTME: Package documentation for the tool registry.
// ABOUTME: Explains the discovery model used by agents to find tools.

// Package tools implements the capability catalog that agents query to
// discover which tools exist and what they are for.
//
// # Overview
//
// Every tool an agent may invoke is described by a [Metadata] record: a
// unique name, a category, a set of discovery keywords, and natural-language
// use cases. The [Registry] indexes these records and answers three kinds of
// questions:
//
//   - exact lookup by name ([Registry.GetTool])
//   - browsing by category ([Registry.GetToolsByCategory],
//     [Registry.GetAllCategories])
//   - relevance-ranked search ([Registry.SearchTools])
//
// Search is a deliberately small heuristic ranker, not a full-text index.
// Exact keyword matches dominate the score so an agent choosing a tool is
// biased toward precise matches over vague prose overlap.
//
// Lookups for unknown names or categories return ok=false or empty slices,
// never errors, so discovery stays cheap to call speculatively.
//
// Catalogs can be declared in YAML manifest files and loaded with
// [LoadCatalogFile]; see catalog.go for the format.
package tools
