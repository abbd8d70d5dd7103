// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// cmd/nutritrack and internal/server import this package so every
// migration is registered before the runner starts.
package migrations
