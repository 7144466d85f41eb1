// ABOUTME: Package documentation for the pending action store.
// ABOUTME: Describes the propose/confirm lifecycle and executor registry.

// Package actions implements the staged workflow for risky configuration
// changes: an agent proposes a change, a human approves it, and only then
// does a side effect happen.
//
// # Lifecycle
//
// [Store.Create] stages a [Action] with a TTL and a human-readable summary.
// Until the TTL elapses the action can be confirmed or cancelled; either
// outcome, and expiry, removes it from the store. Removal happens before the
// executor runs, so confirming the same action twice executes it at most
// once — the second confirm sees "not found".
//
// # Executors
//
// The store knows nothing about permissions, prompts, secrets, schedules, or
// agent settings. Domain modules register an [Executor] per action type at
// startup; on confirm, the store dispatches to the executor for the action's
// type and returns its [Result] verbatim. Confirming a type with no executor
// fails but leaves the action pending, so a late registration can still
// resolve it before the TTL.
//
// # Expiry
//
// Expiry is lazy: every read purges entries whose deadline has passed. An
// optional background sweep (see [Store.Close]) reclaims memory for actions
// nobody reads again; it does not change observable behavior.
//
// All outcomes are returned as values, never panics or errors, because
// callers are agent-facing code that must turn every outcome into text.
package actions
