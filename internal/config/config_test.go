package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NOVU_API_KEY", "nv-test-key")
	t.Setenv("DATABASE_DSN", "host=localhost user=test password=test dbname=test port=5432 sslmode=disable")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want development", cfg.Environment)
	}
	if cfg.MaxFileSize != 5*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 5242880", cfg.MaxFileSize)
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("UploadDir = %s, want ./uploads", cfg.UploadDir)
	}
	if cfg.NovuAPIURL != "https://api.novu.co/v1" {
		t.Errorf("NovuAPIURL = %s", cfg.NovuAPIURL)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false for development")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DISPATCH_RATE_PER_SEC", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize = %d, want 1048576", cfg.MaxFileSize)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.DispatchRatePerSec != 250 {
		t.Errorf("DispatchRatePerSec = %d, want 250", cfg.DispatchRatePerSec)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required env vars, got nil")
	}
}

func TestLoad_InvalidMaxFileSizeFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_FILE_SIZE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxFileSize != defaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want default %d", cfg.MaxFileSize, defaultMaxFileSize)
	}
}
