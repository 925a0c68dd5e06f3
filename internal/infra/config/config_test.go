package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/agency?sslmode=disable")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "bookings@example.com")
	// Make sure ambient values don't leak into assertions.
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_FOLLOW_UP_SWEEP", "")
	t.Setenv("SWEEP_TIMEOUT_MINUTES", "")
	t.Setenv("FOLLOW_UP_CLAIM_LEASE_MINUTES", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.CronSpecFollowUpSweep != "0 9 * * *" {
		t.Errorf("CronSpecFollowUpSweep = %q, want daily 9am default", cfg.CronSpecFollowUpSweep)
	}
	if cfg.SweepTimeout != 10*time.Minute {
		t.Errorf("SweepTimeout = %v, want 10m", cfg.SweepTimeout)
	}
	if cfg.FollowUpClaimLease != 15*time.Minute {
		t.Errorf("FollowUpClaimLease = %v, want 15m", cfg.FollowUpClaimLease)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing SMTP_HOST")
	}
}

func TestLoadTelegramRequiresChatID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when TELEGRAM_TOKEN is set without ADMIN_CHAT_ID")
	}

	t.Setenv("ADMIN_CHAT_ID", "4242")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AdminChatID != 4242 {
		t.Errorf("AdminChatID = %d, want 4242", cfg.AdminChatID)
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SMTP_PORT")
	}
}
