package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFilesMergesSources(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	if err := os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"postgres"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("# local\nAPP_PORT=9100\nTOKEN_TTL=\"2h\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loadFromFiles("", "") })
	t.Setenv("API_PREFIX", "/v1")

	if err := loadFromFiles(jsonPath, envPath); err != nil {
		t.Fatalf("loadFromFiles: %v", err)
	}

	if got := get("APP_PORT", ""); got != "9100" {
		t.Errorf("APP_PORT = %q, want .env to win over app.json", got)
	}
	if got := get("DB_DRIVER", ""); got != "postgres" {
		t.Errorf("DB_DRIVER = %q, want postgres", got)
	}
	if got := get("API_PREFIX", ""); got != "/v1" {
		t.Errorf("API_PREFIX = %q, want the environment to win", got)
	}
	if got := get("TOKEN_TTL", ""); got != "2h" {
		t.Errorf("TOKEN_TTL = %q, want quotes stripped", got)
	}
}

func TestLoadFromFilesMissingFilesKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("missing files should not be an error: %v", err)
	}

	if got := get("API_PREFIX", ""); got != defaultAPIPrefix {
		t.Errorf("API_PREFIX = %q, want %q", got, defaultAPIPrefix)
	}
}

func TestTypedGetters(t *testing.T) {
	Set("TOKEN_TTL", "not-a-duration")
	Set("MAX_BODY_BYTES", "-1")
	Set("TOKEN_DRIVER", "memcached")
	Set("DB_DRIVER", "oracle")
	t.Cleanup(func() {
		Set("TOKEN_TTL", defaultTokenTTL.String())
		Set("MAX_BODY_BYTES", "")
		Set("TOKEN_DRIVER", defaultTokenDriver)
		Set("DB_DRIVER", defaultDatabaseDriver)
	})

	if got := TokenTTL(); got != 720*time.Hour {
		t.Errorf("TokenTTL = %v, want fallback", got)
	}
	if got := MaxBodyBytes(); got != defaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want fallback", got)
	}
	if got := TokenDriver(); got != "database" {
		t.Errorf("TokenDriver = %q, want database", got)
	}
	if got := DatabaseDriver(); got != "sqlite" {
		t.Errorf("DatabaseDriver = %q, want sqlite", got)
	}
	if got := DatabaseDSN(); got != defaultSQLiteDSN {
		t.Errorf("DatabaseDSN = %q", got)
	}
}

