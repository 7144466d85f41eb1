// ABOUTME: Package documentation for the capability availability gate.
// ABOUTME: Explains caching and the permissive handling of unknown types.

// Package capability answers "is capability X usable right now" for agent
// discovery, with a short-lived cache in front of a pluggable checker.
//
// A capability's type is inferred from its name suffix: "-mcp", "-oauth",
// or "-config". Names with no recognized suffix default to oauth so that
// new naming conventions never hard-fail older callers.
//
// The [Gate] never propagates checker errors: a flaky external probe must
// not block agent discovery entirely, so any checker failure is downgraded
// to available=false.
package capability
