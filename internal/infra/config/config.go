package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"appointment_notifier_bot/internal/apperr"
)

// AppConfig holds all configuration for the application.
//
// URL and credential values are carried as raw strings and validated by the
// component that uses them: a malformed APPOINTMENT_URL degrades to an empty
// fetch result and a bad TELEGRAM_CHAT_ID surfaces from the notifier, so a
// broken setting never takes the scheduled process down mid-flight.
type AppConfig struct {
	AppointmentURL string // source URL with a start_date query parameter
	TimespanDays   int    // acceptance window length in days
	Schedule       string // cron-style schedule for the polling cycle
	StopWhenFound  bool   // cancel the recurring schedule after the first match

	TelegramToken  string
	TelegramChatID string // must parse as an integer; checked by the notifier
	BookingURL     string

	DatabaseURL string // optional; enables the cycle audit store when set

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.AppointmentURL = os.Getenv("APPOINTMENT_URL")

	timespanStr := os.Getenv("TIMESPAN_DAYS")
	if timespanStr == "" {
		return nil, fmt.Errorf("%w: TIMESPAN_DAYS is not set", apperr.ErrConfiguration)
	}
	timespan, err := strconv.Atoi(timespanStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid TIMESPAN_DAYS %q: %v", apperr.ErrConfiguration, timespanStr, err)
	}
	if timespan < 0 {
		return nil, fmt.Errorf("%w: TIMESPAN_DAYS must be non-negative, got %d", apperr.ErrConfiguration, timespan)
	}
	cfg.TimespanDays = timespan

	cfg.Schedule = os.Getenv("SCHEDULE")
	if cfg.Schedule == "" {
		cfg.Schedule = "* * * * *" // Default: every minute
	}

	cfg.StopWhenFound = strings.EqualFold(os.Getenv("STOP_WHEN_FOUND"), "true")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.BookingURL = os.Getenv("DOCTOR_BOOKING_URL")

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
