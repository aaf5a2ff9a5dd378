package main

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("HORUS_TEST_PORT", "8080")
	t.Setenv("HORUS_TEST_BAD_PORT", "eighty")
	t.Setenv("HORUS_TEST_TTL", "90m")
	t.Setenv("HORUS_TEST_FLAG", "true")
	t.Setenv("HORUS_TEST_BAD_FLAG", "maybe")

	if got := getEnv("HORUS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want %q", got, "fallback")
	}
	if got := getEnvInt("HORUS_TEST_PORT", 3000); got != 8080 {
		t.Errorf("getEnvInt() = %d, want 8080", got)
	}
	if got := getEnvInt("HORUS_TEST_BAD_PORT", 3000); got != 3000 {
		t.Errorf("getEnvInt() with invalid value = %d, want 3000", got)
	}
	if got := getEnvDuration("HORUS_TEST_TTL", time.Hour); got != 90*time.Minute {
		t.Errorf("getEnvDuration() = %s, want 1h30m0s", got)
	}
	if got := getEnvBool("HORUS_TEST_FLAG", false); !got {
		t.Error("getEnvBool() = false, want true")
	}
	if got := getEnvBool("HORUS_TEST_BAD_FLAG", false); got {
		t.Error("getEnvBool() with invalid value = true, want false")
	}
}

func TestNewSnapshotPlugin(t *testing.T) {
	cfg := loadConfig()
	cfg.snapshotBackend = "redis"
	cfg.sessionTTL = time.Hour

	plugin, alias, err := newSnapshotPlugin(cfg)
	if err != nil {
		t.Fatalf("newSnapshotPlugin() error = %v", err)
	}
	if alias != "snapshot" {
		t.Errorf("alias = %q, want %q", alias, "snapshot")
	}
	if plugin == nil {
		t.Fatal("newSnapshotPlugin() returned nil plugin")
	}
}
