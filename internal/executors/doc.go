// ABOUTME: Package documentation for the builtin executor pack.
// ABOUTME: Lists the configuration domains wired to the pending action store.

// Package executors provides the built-in executors for confirmed pending
// actions. Each executor translates an action's opaque changes payload into
// calls against the settings store, and appends an audit entry recording the
// outcome.
//
// The pack covers five domains, one executor per action type:
//
//   - permission: chat permission levels (create/update/delete)
//   - prompt: per-agent system prompts (create/update/delete)
//   - secret: secret values, global or per-agent scope (create/update/delete)
//   - schedule: recurring task definitions (create/update/delete)
//   - agent: per-agent model settings (create/update/delete)
//
// [Pack.RegisterAll] hooks every executor into an actions.Store at startup.
// New domains register independently; nothing in the action store needs to
// change to add one.
package executors
