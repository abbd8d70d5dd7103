package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nutritrack/config"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRouteList(t *testing.T) {
	out := run(t, "route:list")

	assert.Contains(t, out, "/api/today-list/{meal_id}")
	assert.Contains(t, out, "today.drop")
	assert.Contains(t, out, "/health")
}

func TestMigrateSeedCycle(t *testing.T) {
	config.Set("DB_DRIVER", "sqlite")
	config.Set("DATABASE_DSN", "file:"+filepath.Join(t.TempDir(), "cli.db")+"?_foreign_keys=on")

	assert.Contains(t, run(t, "migrate"), "Migrated:  2023_12_05_190745_create_todays_table")
	assert.Contains(t, run(t, "migrate:status"), "Ran")
	assert.Contains(t, run(t, "seed"), "demo meals")
	assert.Contains(t, run(t, "token:prune"), "Pruned 0 expired token(s).")
	assert.Contains(t, run(t, "migrate:rollback"), "Rolled back:  2014_10_12_000000_create_users_table")
}
