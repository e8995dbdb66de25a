package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/conf"
	"github.com/aussiebroadwan/doorcode/pkg/otpx"
)

type Config struct {
	UserPoolID  string // Required (post-authentication only): pool for admin attribute updates
	SenderEmail string // Required: verified SES sender address

	OriginationNumber conf.Setting[string] // Optional: SMS sending number
	PinpointAppID     conf.Setting[string] // Optional: send SMS via this messaging application instead of SNS

	MagicLinkSecret  conf.Setting[string] // Optional: HMAC secret enabling the magic-link method
	MagicLinkBaseURL conf.Setting[string] // Optional: landing page for magic links (required with the secret)

	ThrottleTable  conf.Setting[string] // Optional: DynamoDB table enabling the send throttle
	ThrottleLimit  int                  // Sends allowed per destination per window (default: 5)
	ThrottleWindow time.Duration        // Throttle window (default: 15m)

	MaxAttempts int           // Challenge rounds before failing the attempt (default: 3)
	CodeDigits  int           // One-time code length (default: 6)
	CodeTTL     time.Duration // How long a dispatched code stays answerable (default: 3m)

	AutoConfirmSignup bool // Auto-confirm accounts at sign-up (default: true)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

func LoadConfig() Config {
	return Config{
		UserPoolID:  os.Getenv("DOORCODE_USER_POOL_ID"),
		SenderEmail: os.Getenv("DOORCODE_SENDER_EMAIL"),

		OriginationNumber: conf.FromString(os.Getenv("DOORCODE_ORIGINATION_NUMBER")),
		PinpointAppID:     conf.FromString(os.Getenv("DOORCODE_PINPOINT_APP_ID")),

		MagicLinkSecret:  conf.FromString(os.Getenv("DOORCODE_MAGIC_LINK_SECRET")),
		MagicLinkBaseURL: conf.FromString(os.Getenv("DOORCODE_MAGIC_LINK_BASE_URL")),

		ThrottleTable:  conf.FromString(os.Getenv("DOORCODE_THROTTLE_TABLE")),
		ThrottleLimit:  getEnvIntOrDefault("DOORCODE_THROTTLE_LIMIT", 5),
		ThrottleWindow: getEnvDurationOrDefault("DOORCODE_THROTTLE_WINDOW", 15*time.Minute),

		MaxAttempts: getEnvIntOrDefault("DOORCODE_MAX_ATTEMPTS", 3),
		CodeDigits:  getEnvIntOrDefault("DOORCODE_CODE_DIGITS", otpx.DefaultDigits),
		CodeTTL:     getEnvDurationOrDefault("DOORCODE_CODE_TTL", 3*time.Minute),

		AutoConfirmSignup: getEnvBoolOrDefault("DOORCODE_AUTO_CONFIRM", true),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

// Validate rejects configurations that could only fail at invocation
// time. A misconfigured trigger must refuse to start rather than
// silently provision a flow that cannot deliver challenges.
func (cfg Config) Validate() error {
	var errs []error

	if cfg.SenderEmail == "" {
		errs = append(errs, errors.New("DOORCODE_SENDER_EMAIL is required"))
	}

	if cfg.MagicLinkSecret.IsConfigured() != cfg.MagicLinkBaseURL.IsConfigured() {
		errs = append(errs, errors.New("DOORCODE_MAGIC_LINK_SECRET and DOORCODE_MAGIC_LINK_BASE_URL must be set together"))
	}

	if cfg.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("DOORCODE_MAX_ATTEMPTS must be at least 1, got %d", cfg.MaxAttempts))
	}

	if cfg.CodeDigits < otpx.MinDigits || cfg.CodeDigits > otpx.MaxDigits {
		errs = append(errs, fmt.Errorf("DOORCODE_CODE_DIGITS must be between %d and %d, got %d",
			otpx.MinDigits, otpx.MaxDigits, cfg.CodeDigits))
	}

	if cfg.CodeTTL <= 0 {
		errs = append(errs, errors.New("DOORCODE_CODE_TTL must be positive"))
	}

	if cfg.ThrottleTable.IsConfigured() {
		if cfg.ThrottleLimit < 1 {
			errs = append(errs, fmt.Errorf("DOORCODE_THROTTLE_LIMIT must be at least 1, got %d", cfg.ThrottleLimit))
		}
		if cfg.ThrottleWindow <= 0 {
			errs = append(errs, errors.New("DOORCODE_THROTTLE_WINDOW must be positive"))
		}
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
