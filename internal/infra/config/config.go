package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string
	HTTPAddr    string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Optional Telegram alert channel for the agency admin. Disabled when
	// the token is empty.
	TelegramToken string
	AdminChatID   int64

	LogLevel    string
	Environment string

	CronSpecFollowUpSweep string
	SweepTimeout          time.Duration
	FollowUpClaimLease    time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	smtpPortStr := os.Getenv("SMTP_PORT")
	if smtpPortStr == "" {
		smtpPortStr = "587"
	}
	cfg.SMTPPort, err = strconv.Atoi(smtpPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	if cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("SMTP_FROM is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		adminChatIDStr := os.Getenv("ADMIN_CHAT_ID")
		if adminChatIDStr == "" {
			return nil, fmt.Errorf("ADMIN_CHAT_ID is not set but TELEGRAM_TOKEN is")
		}
		cfg.AdminChatID, err = strconv.ParseInt(adminChatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecFollowUpSweep = os.Getenv("CRON_SPEC_FOLLOW_UP_SWEEP")
	if cfg.CronSpecFollowUpSweep == "" {
		cfg.CronSpecFollowUpSweep = "0 9 * * *" // Default: 9:00 AM daily
	}

	sweepTimeoutStr := os.Getenv("SWEEP_TIMEOUT_MINUTES")
	if sweepTimeoutStr == "" {
		sweepTimeoutStr = "10"
	}
	sweepTimeoutMin, err := strconv.Atoi(sweepTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_TIMEOUT_MINUTES: %w", err)
	}
	cfg.SweepTimeout = time.Duration(sweepTimeoutMin) * time.Minute

	claimLeaseStr := os.Getenv("FOLLOW_UP_CLAIM_LEASE_MINUTES")
	if claimLeaseStr == "" {
		claimLeaseStr = "15"
	}
	claimLeaseMin, err := strconv.Atoi(claimLeaseStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FOLLOW_UP_CLAIM_LEASE_MINUTES: %w", err)
	}
	cfg.FollowUpClaimLease = time.Duration(claimLeaseMin) * time.Minute

	return cfg, nil
}
