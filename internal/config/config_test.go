package config

import (
	"reflect"
	"testing"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TAJA_TEST_STR", "value")
	t.Setenv("TAJA_TEST_INT", " 42 ")
	t.Setenv("TAJA_TEST_INT_BAD", "not-a-number")
	t.Setenv("TAJA_TEST_BOOL_ON", "yes")
	t.Setenv("TAJA_TEST_BOOL_OFF", "0")

	if got := getEnv("TAJA_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("getEnv = %q, want value", got)
	}
	if got := getEnv("TAJA_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("getEnv = %q, want fallback", got)
	}
	if got := getEnvInt("TAJA_TEST_INT", 0); got != 42 {
		t.Fatalf("getEnvInt = %d, want 42", got)
	}
	if got := getEnvInt("TAJA_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("getEnvInt = %d, want fallback 7", got)
	}
	if !getEnvBool("TAJA_TEST_BOOL_ON", false) {
		t.Fatal("getEnvBool should treat yes as true")
	}
	if getEnvBool("TAJA_TEST_BOOL_OFF", true) {
		t.Fatal("getEnvBool should treat 0 as false")
	}
}

func TestParseCommaSeparated(t *testing.T) {
	got := parseCommaSeparated(" http://a.com , http://b.com ,, ")
	want := []string{"http://a.com", "http://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseCommaSeparated = %v, want %v", got, want)
	}

	if parseCommaSeparated("  ") != nil {
		t.Fatal("blank input should yield nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Postgres.Host == "" || cfg.Postgres.Database == "" {
		t.Fatalf("postgres defaults missing: %+v", cfg.Postgres)
	}
	if cfg.Valkey.Enabled() {
		t.Fatal("cache must default to disabled")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValkeyEnabled(t *testing.T) {
	t.Setenv("CACHE_HOST", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Valkey.Enabled() {
		t.Fatal("cache host set, Enabled() must be true")
	}
}
