package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error with defaults, got %v", err)
	}

	if cfg.API.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.API.Port)
	}
	if cfg.Decode.BaseURL == "" {
		t.Error("Expected a default decode upstream URL")
	}
	if cfg.Recall.BaseURL == "" {
		t.Error("Expected a default recall upstream URL")
	}
	if cfg.Decode.Timeout != 10*time.Second {
		t.Errorf("Expected default decode timeout 10s, got %v", cfg.Decode.Timeout)
	}
	if cfg.Batch.MaxTokens != 50 {
		t.Errorf("Expected default batch cap 50, got %d", cfg.Batch.MaxTokens)
	}
	if cfg.Batch.Concurrency != 8 {
		t.Errorf("Expected default batch concurrency 8, got %d", cfg.Batch.Concurrency)
	}
	if cfg.Auth.Enabled {
		t.Error("Expected auth disabled by default")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DECODE_API_URL", "http://localhost:18080/api")
	t.Setenv("RECALL_API_URL", "http://localhost:18081")
	t.Setenv("DECODE_API_TIMEOUT", "3s")
	t.Setenv("BATCH_MAX_TOKENS", "25")
	t.Setenv("BATCH_CONCURRENCY", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.API.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.API.Port)
	}
	if cfg.Decode.BaseURL != "http://localhost:18080/api" {
		t.Errorf("Expected overridden decode URL, got %q", cfg.Decode.BaseURL)
	}
	if cfg.Decode.Timeout != 3*time.Second {
		t.Errorf("Expected decode timeout 3s, got %v", cfg.Decode.Timeout)
	}
	if cfg.Batch.MaxTokens != 25 {
		t.Errorf("Expected batch cap 25, got %d", cfg.Batch.MaxTokens)
	}
	if cfg.Batch.Concurrency != 2 {
		t.Errorf("Expected batch concurrency 2, got %d", cfg.Batch.Concurrency)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("RECALL_API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Recall.Timeout != 10*time.Second {
		t.Errorf("Expected fallback timeout 10s, got %v", cfg.Recall.Timeout)
	}
}

func TestValidate_AuthRequiresSecret(t *testing.T) {
	t.Setenv("ENABLE_AUTH", "true")
	t.Setenv("SHARED_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when auth is enabled without a shared secret")
	}

	t.Setenv("SHARED_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error with secret set, got %v", err)
	}
	if !cfg.Auth.Enabled || cfg.Auth.SharedSecret != "s3cret" {
		t.Errorf("Expected auth enabled with secret, got %+v", cfg.Auth)
	}
}

func TestValidate_BoundsMustBePositive(t *testing.T) {
	t.Setenv("BATCH_MAX_TOKENS", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for non-positive batch cap")
	}
}
