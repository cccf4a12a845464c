package config

import (
	"os"

	"github.com/charmbracelet/log"
)

// Environment variables read by the commands.
const (
	EnvConfigPath = "MOONCATS_CONFIG"
	EnvLogLevel   = "MOONCATS_LOG_LEVEL"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// NewLogger returns a logger writing to stderr at the level named by
// MOONCATS_LOG_LEVEL (info if unset or unparseable).
func NewLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(GetEnv(EnvLogLevel, "info"))
	if err != nil {
		logger.Warn("unknown log level, using info", "value", os.Getenv(EnvLogLevel))
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
