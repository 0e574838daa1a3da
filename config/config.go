// Package config loads scraper settings from .env and the environment and
// lets each command override them with flags.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type BrowserConfig struct {
	Headless       bool
	RemoteURL      string
	TimeoutSeconds int
}

type Config struct {
	CatalogYear        int
	MajorCatalogYear   int
	Browser            BrowserConfig
	DatabaseConnection string
	LogLevel           string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CatalogYear:      getEnvInt("CATALOG_YEAR", 2024),
		MajorCatalogYear: getEnvInt("MAJOR_CATALOG_YEAR", 2025),
		Browser: BrowserConfig{
			Headless:       getEnvBool("BROWSER_HEADLESS", true),
			RemoteURL:      getEnv("BROWSER_REMOTE_URL", ""),
			TimeoutSeconds: getEnvInt("BROWSER_TIMEOUT_SECONDS", 30),
		},
		DatabaseConnection: getEnv("DATABASE_CONNECTION_STRING", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// BindFlags registers the shared persistent flags on cmd, defaulting each to
// the value already loaded into c.
func (c *Config) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&c.Browser.Headless, "headless", c.Browser.Headless, "Run Chrome without a window.")
	flags.StringVar(&c.Browser.RemoteURL, "remote-url", c.Browser.RemoteURL, "DevTools WebSocket URL of an already running Chrome.")
	flags.IntVar(&c.Browser.TimeoutSeconds, "timeout", c.Browser.TimeoutSeconds, "Page navigation timeout in seconds.")
	flags.StringVar(&c.DatabaseConnection, "database", c.DatabaseConnection, "Postgres connection string; when set, records are also loaded directly.")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error.")
}

func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Browser.TimeoutSeconds) * time.Second
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(c.LogLevel),
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
