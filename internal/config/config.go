package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	// APIKey protects the HTTP surface (x-api-key header).
	APIKey string

	// Weather provider.
	WeatherAPIKey string
	WeatherAPIURL string
	WeatherDays   int

	// SMTP relay.
	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailUseTLS   bool

	// Notification store.
	DatabaseURL string

	// HTTPTimeout bounds outbound provider calls and the SMTP dial.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.APIKey = os.Getenv("API_KEY")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherAPIURL = getenvDefault("WEATHER_API_URL", "https://api.weatherapi.com/v1/forecast.json")
	cfg.WeatherDays = getenvInt("WEATHER_DAYS", 2)

	cfg.MailServer = os.Getenv("MAIL_SERVER")
	cfg.MailPort = getenvInt("MAIL_PORT", 587)
	cfg.MailUsername = os.Getenv("MAIL_USERNAME")
	cfg.MailPassword = os.Getenv("MAIL_PASSWORD")
	cfg.MailUseTLS = getenvBool("MAIL_USE_TLS", true)

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %q", timeoutStr)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
