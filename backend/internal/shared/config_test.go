package shared

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STRING", "value")

	if got := GetEnv("TEST_STRING", "fallback"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := GetEnv("TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "not-a-number")

	if got := GetIntEnv("TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := GetIntEnv("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
	if got := GetIntEnv("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_BAD", "maybe")

	if !GetBoolEnv("TEST_BOOL", false) {
		t.Error("expected true")
	}
	if !GetBoolEnv("TEST_BOOL_BAD", true) {
		t.Error("expected fallback true")
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")

	if got := GetDurationEnv("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("expected 45s, got %v", got)
	}
	if got := GetDurationEnv("TEST_DURATION_MISSING", time.Minute); got != time.Minute {
		t.Errorf("expected fallback 1m, got %v", got)
	}
}

func TestGetStringSliceEnv(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b ,c")

	got := GetStringSliceEnv("TEST_SLICE", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
}

func TestLoadAppConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "neurocampus_test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "")

	config, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if err := ValidateAppConfig(config); err != nil {
		t.Fatalf("ValidateAppConfig failed: %v", err)
	}

	if config.AI.APIKey != "" {
		t.Error("AI key should be empty")
	}
	if config.HTTPPort == "" {
		t.Error("default HTTP port not applied")
	}
}

func TestLoadAppConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	if _, err := LoadAppConfig(); err == nil {
		t.Error("expected error without MONGO_URI")
	}
}
