// Package config provides configuration loading and validation for the CLI.
// Configuration is read from the environment exactly once, into an explicit
// Config value that is passed to each component; there are no process-wide
// mutable globals.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for optional settings.
const (
	DefaultApplicationOffset = 10.0
	DefaultFollowUpDays      = 7
	DefaultSMTPPort          = 587
	DefaultNavTimeout        = 30 * time.Second
	DefaultSettleWait        = 3 * time.Second
)

// Config holds everything the pipeline needs. Required values are checked
// up front: a run can only fail outright because of configuration, and it
// does so before any crawling or orchestration work begins.
type Config struct {
	// Storage
	DatabaseURL string `validate:"required"`

	// AI generation; applications are skipped when no key is configured.
	GeminiAPIKey string
	GeminiModel  string

	// Email transport; follow-ups and reports are skipped when unset.
	SMTPHost        string
	SMTPPort        int `validate:"gte=0,lte=65535"`
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string `validate:"omitempty,email"`
	ReportRecipient string `validate:"omitempty,email"`

	// Pipeline thresholds. ApplicationOffset is the gap between the
	// reporting threshold and the stricter application threshold.
	ApplicationOffset float64 `validate:"gte=0"`
	FollowUpDays      int     `validate:"gt=0"`

	// Browser bounds
	NavTimeout time.Duration `validate:"gt=0"`
	SettleWait time.Duration `validate:"gt=0"`
}

// Load builds a Config from the environment and validates it. Any missing
// required credential or malformed value is a fatal error.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		SMTPHost:          os.Getenv("SMTP_SERVER"),
		SMTPPort:          DefaultSMTPPort,
		SMTPUsername:      os.Getenv("SENDER_EMAIL"),
		SMTPPassword:      os.Getenv("SENDER_PASSWORD"),
		SenderEmail:       os.Getenv("SENDER_EMAIL"),
		ReportRecipient:   os.Getenv("REPORT_RECIPIENT_EMAIL"),
		ApplicationOffset: DefaultApplicationOffset,
		FollowUpDays:      DefaultFollowUpDays,
		NavTimeout:        DefaultNavTimeout,
		SettleWait:        DefaultSettleWait,
	}

	var err error
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", cfg.SMTPPort); err != nil {
		return nil, err
	}
	if cfg.ApplicationOffset, err = floatEnv("APPLICATION_OFFSET", cfg.ApplicationOffset); err != nil {
		return nil, err
	}
	if cfg.FollowUpDays, err = intEnv("FOLLOW_UP_DAYS", cfg.FollowUpDays); err != nil {
		return nil, err
	}
	if cfg.NavTimeout, err = durationEnv("BROWSER_NAV_TIMEOUT", cfg.NavTimeout); err != nil {
		return nil, err
	}
	if cfg.SettleWait, err = durationEnv("BROWSER_SETTLE_WAIT", cfg.SettleWait); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, including cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.MailEnabled() && c.SenderEmail == "" {
		return fmt.Errorf("config error: SMTP_SERVER is set but SENDER_EMAIL is missing")
	}
	return nil
}

// MailEnabled reports whether outbound email is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// LettersEnabled reports whether AI cover letter generation is configured.
func (c *Config) LettersEnabled() bool {
	return c.GeminiAPIKey != ""
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be a number, got %q", key, raw)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be a duration like 30s, got %q", key, raw)
	}
	return v, nil
}
