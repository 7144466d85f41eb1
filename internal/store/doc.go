// ABOUTME: Package documentation for the settings store.
// ABOUTME: Describes the configuration domains the executors write to.

// Package store persists the configuration domains that confirmed pending
// actions mutate: chat permissions, agent prompts, secrets, schedules, and
// agent settings, plus an audit log of every executed change.
//
// [SQLiteStore] is the only implementation; it creates its schema on open
// and uses WAL mode. The per-domain interfaces ([SecretsStore],
// [PermissionsStore], ...) exist so executors and tests can depend on just
// the slice they need.
//
// Lookups for missing rows return [ErrNotFound].
package store
